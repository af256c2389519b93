package keysetpager

import (
	"fmt"

	"github.com/samber/lo"
)

// Accessor extracts the value of one sort column from an entity. Declare the
// columns on which pagination is performed:
//
//	keysetpager.NewBuilder[models.PlayerPushTarget]().
//		Descending("deposit_sum", keysetpager.TypeFloat, func(m models.PlayerPushTarget) any { return m.DepositSum }).
//		Ascending("id", keysetpager.TypeInt, func(m models.PlayerPushTarget) any { return m.ID }).
//		Build()
type Accessor[T any] func(T) any

// SortKey is one column of the keyset: accessor, declared direction, declared
// comparison type. Identity is its position in the Spec. Immutable once the
// spec is built.
type SortKey[T any] struct {
	Column    string
	Direction Direction
	Type      TypeTag
	Accessor  Accessor[T]

	// Nullable marks the column as potentially holding NULLs. The core never
	// branches on it; it exists for out-of-band lint tooling reading the
	// built spec.
	Nullable bool
}

// Spec is the ordered, non-empty list of sort keys defining the keyset.
// Registration order is semantically significant: it is the lexicographic
// tie-break precedence, the first key being the primary sort key.
type Spec[T any] struct {
	keys     []SortKey[T]
	byColumn map[string]int
}

// Builder accumulates sort keys for one Spec. A builder is used for exactly
// one Build call; it is not reusable or thread-shared.
type Builder[T any] struct {
	keys []SortKey[T]
	errs []error
}

func NewBuilder[T any]() *Builder[T] {
	return new(Builder[T])
}

// Ascending registers a sort key with ascending declared direction.
// Registration order defines tie-break precedence.
func (b *Builder[T]) Ascending(column string, t TypeTag, accessor Accessor[T]) *Builder[T] {
	return b.key(column, DirectionASC, t, accessor)
}

// Descending registers a sort key with descending declared direction.
// Registration order defines tie-break precedence.
func (b *Builder[T]) Descending(column string, t TypeTag, accessor Accessor[T]) *Builder[T] {
	return b.key(column, DirectionDESC, t, accessor)
}

// MarkNullable flags the most recently registered key as nullable.
func (b *Builder[T]) MarkNullable() *Builder[T] {
	if b == nil {
		b = new(Builder[T])
	}

	if len(b.keys) == 0 {
		b.errs = append(b.errs, fmt.Errorf("MarkNullable called before any key was registered"))
		return b
	}
	b.keys[len(b.keys)-1].Nullable = true

	return b
}

// ApplySort reorders and redirects the registered keys according to
// caller-supplied orderings (typically the output of ParseSort). Keys named
// in the orderings come first, in the given order and direction; remaining
// keys keep their registration order and declared direction, preserving the
// unique tie-break tail.
func (b *Builder[T]) ApplySort(orderings Orderings) *Builder[T] {
	if b == nil {
		b = new(Builder[T])
	}

	reordered := make([]SortKey[T], 0, len(b.keys))
	taken := make(map[string]struct{}, len(orderings))

	for _, o := range orderings {
		idx := lo.IndexOf(lo.Map(b.keys, func(k SortKey[T], _ int) string { return k.Column }), o.Column)
		if idx == -1 {
			b.errs = append(b.errs, fmt.Errorf("sort ordering references unregistered column '%s'", o.Column))
			return b
		}
		if _, dup := taken[o.Column]; dup {
			b.errs = append(b.errs, fmt.Errorf("sort ordering references column '%s' twice", o.Column))
			return b
		}
		taken[o.Column] = struct{}{}

		key := b.keys[idx]
		key.Direction = o.Direction
		reordered = append(reordered, key)
	}

	for _, key := range b.keys {
		if _, ok := taken[key.Column]; !ok {
			reordered = append(reordered, key)
		}
	}
	b.keys = reordered

	return b
}

func (b *Builder[T]) key(column string, d Direction, t TypeTag, accessor Accessor[T]) *Builder[T] {
	if b == nil {
		b = new(Builder[T])
	}

	b.keys = append(b.keys, SortKey[T]{
		Column:    column,
		Direction: d,
		Type:      t,
		Accessor:  accessor,
	})

	return b
}

// Build validates the accumulated keys and returns the finished Spec.
func (b *Builder[T]) Build() (*Spec[T], error) {
	if b == nil || len(b.keys) == 0 {
		return nil, &ConfigurationError{Reason: "keyset must contain at least one sort key"}
	}

	if len(b.errs) > 0 {
		return nil, &ConfigurationError{Reason: b.errs[0].Error()}
	}

	byColumn := make(map[string]int, len(b.keys))
	for i, key := range b.keys {
		if _, dup := byColumn[key.Column]; dup {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("duplicate sort key column '%s'", key.Column)}
		}
		byColumn[key.Column] = i
	}

	spec := &Spec[T]{
		keys:     append([]SortKey[T](nil), b.keys...),
		byColumn: byColumn,
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}

	return spec, nil
}

// Keys returns a copy of the ordered sort keys, primarily for lint tooling
// inspecting nullable columns.
func (s *Spec[T]) Keys() []SortKey[T] {
	return append([]SortKey[T](nil), s.keys...)
}

// Len returns the number of sort keys.
func (s *Spec[T]) Len() int {
	return len(s.keys)
}

// Columns returns the ordered column names.
func (s *Spec[T]) Columns() []string {
	return lo.Map(s.keys, func(k SortKey[T], _ int) string { return k.Column })
}

// orderings derives the effective total order for a page direction: declared
// directions for forward pages, every direction inverted for backward ones.
func (s *Spec[T]) orderings(page PageDirection) Orderings {
	ret := make(Orderings, 0, len(s.keys))
	for _, key := range s.keys {
		direction := key.Direction
		if page == PageBackward {
			direction = direction.inverted()
		}

		ret = append(ret, OrderBy{Column: key.Column, Direction: direction})
	}

	return ret
}

func (s *Spec[T]) keyByColumn(column string) (SortKey[T], bool) {
	idx, ok := s.byColumn[column]
	if !ok {
		return SortKey[T]{}, false
	}

	return s.keys[idx], true
}

func (s *Spec[T]) validate() error {
	if s == nil {
		return &ConfigurationError{Reason: "nil keyset spec"}
	}
	if len(s.keys) == 0 {
		return &ConfigurationError{Reason: "keyset must contain at least one sort key"}
	}

	for _, key := range s.keys {
		if err := (OrderBy{Column: key.Column, Direction: key.Direction}).validate(); err != nil {
			return &ConfigurationError{Reason: err.Error()}
		}
		if !key.Type.Valid() {
			return &UnsupportedTypeError{Type: key.Type}
		}
		if key.Accessor == nil {
			return &ConfigurationError{Reason: fmt.Sprintf("sort key '%s' has no accessor", key.Column)}
		}
	}

	return nil
}

// ReferenceOf builds a Reference from a materialized row using the spec's
// accessors. Used by the existence probes and for issuing page tokens.
func (s *Spec[T]) ReferenceOf(row T) Reference {
	ret := make(RefMap, len(s.keys))
	for _, key := range s.keys {
		ret[key.Column] = key.Accessor(row)
	}

	return ret
}

// Reference supplies, for every configured sort column, a value convertible
// to the column's declared type. It does not have to be the entity type
// itself: tokens, raw maps and rows all qualify.
type Reference interface {
	// KeysetValue returns the reference value for a column, reporting whether
	// the column is present at all.
	KeysetValue(column string) (any, bool)
}

// RefMap is the simplest Reference: column name to value.
type RefMap map[string]any

// KeysetValue implements Reference.
func (m RefMap) KeysetValue(column string) (any, bool) {
	v, ok := m[column]
	return v, ok
}

var _ Reference = (RefMap)(nil)
