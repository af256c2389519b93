package keysetpager

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

var _encoder = base64.RawURLEncoding

// TokenElement is one (column, value) pair of a page token. The comparison
// operators are not part of the token: they are derived from the spec and the
// page direction at compile time.
type TokenElement struct {
	Column string `json:"c"`
	Value  any    `json:"v"`
}

// Token is a serializable page reference for API payloads: the reference
// values of one page edge, encoded as base64 over compact JSON. An empty
// token means the start of the dataset. Token implements Reference and can be
// passed to Compile directly.
type Token struct {
	elements []TokenElement
}

func NewToken(elements ...TokenElement) *Token {
	return &Token{
		elements: elements,
	}
}

// TokenOf builds the token for a page edge row using the spec's accessors.
func TokenOf[T any](spec *Spec[T], row T) *Token {
	elements := make([]TokenElement, 0, len(spec.keys))
	for _, key := range spec.keys {
		elements = append(elements, TokenElement{
			Column: key.Column,
			Value:  key.Accessor(row),
		})
	}

	return &Token{elements: elements}
}

// DecodeToken attempts to parse a base64-encoded string into *Token.
// An empty string decodes to a nil token (the start of the dataset).
func DecodeToken(b64String string) (*Token, error) {
	if len(b64String) == 0 {
		return nil, nil
	}

	jsonData, err := _encoder.DecodeString(b64String)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 encoded page token: %w", err)
	}

	var elems []TokenElement
	if err = json.Unmarshal(jsonData, &elems); err != nil {
		return nil, fmt.Errorf("failed to unmarshal json encoded page token: %w", err)
	}

	return &Token{
		elements: elems,
	}, nil
}

// String - implements fmt.Stringer.
func (t *Token) String() string {
	if t.IsEmpty() {
		return ""
	}

	jTok, err := json.Marshal(t.elements)
	if err != nil {
		panic(fmt.Errorf("cannot marshal page token value: %w", err))
	}

	var buf bytes.Buffer
	if err = json.Compact(&buf, jTok); err != nil {
		panic(fmt.Errorf("cannot compact page token value: %w", err))
	}

	return _encoder.EncodeToString(buf.Bytes())
}

// IsEmpty reports whether the token denotes the start of the dataset.
func (t *Token) IsEmpty() bool {
	return t == nil || len(t.elements) == 0
}

// Elements returns the token's (column, value) pairs.
func (t *Token) Elements() []TokenElement {
	if t == nil {
		return nil
	}

	return t.elements
}

// KeysetValue - implements Reference.
func (t *Token) KeysetValue(column string) (any, bool) {
	if t == nil {
		return nil, false
	}

	for _, element := range t.elements {
		if element.Column == column {
			return element.Value, true
		}
	}

	return nil, false
}

// validateFor checks the token against a spec: the number, the names and the
// order of columns must match exactly. Values are NOT checked here; coercion
// validates them at compile time.
func validateTokenFor[T any](t *Token, spec *Spec[T]) error {
	if t.IsEmpty() {
		return nil
	}

	if len(t.elements) != spec.Len() {
		return fmt.Errorf("page token column number mismatch")
	}

	for i, element := range t.elements {
		if element.Column != spec.keys[i].Column {
			return fmt.Errorf("unexpected page token column '%s'", element.Column)
		}
	}

	return nil
}

var (
	_ Reference    = (*Token)(nil)
	_ fmt.Stringer = (*Token)(nil)
)
