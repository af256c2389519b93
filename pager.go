package keysetpager

import (
	"context"
	"fmt"

	"github.com/samber/lo"
)

// RawPageRequest is intended for API payloads. For proper code generation, inline it:
//
//	type MyFilter struct {
//	    Paging RawPageRequest `json:",inline"`
//	}
type RawPageRequest struct {
	// Limit - maximum number of records to return in the response.
	Limit int `json:"limit"`
	// PageToken - base64-encoded token obtained via Token.String().
	// If empty, the first page with Limit records is returned.
	PageToken string `json:"pageToken"`
	// Backward - fetch the page preceding the token instead of following it.
	Backward bool `json:"backward"`
}

// DecodePageRequest converts a RawPageRequest into *Pager, normalizing Limit
// and validating PageToken against the spec.
func DecodePageRequest[T any](req RawPageRequest, spec *Spec[T]) (*Pager[T], error) {
	token, err := DecodeToken(req.PageToken)
	if err != nil {
		return nil, err
	}

	pager := NewPager(spec).WithLimit(req.Limit).WithToken(token)
	if req.Backward {
		pager = pager.WithBackward()
	}

	return pager, nil
}

// Pager orchestrates one pagination request: compile, fetch, normalize,
// probe, and issue tokens for the neighboring pages. One Pager serves exactly
// one Paginate call; it is not reusable or thread-shared.
type Pager[T any] struct {
	spec        *Spec[T]
	limit       int
	backward    bool
	token       *Token
	reference   Reference
	compileOpts []CompileOption
}

func NewPager[T any](spec *Spec[T]) *Pager[T] {
	return &Pager[T]{
		spec:  spec,
		limit: DefaultLimit,
	}
}

// WithLimit sets the maximum number of returned records.
//
// IMPORTANT:
// If the limit is not NoLimit, NormalizeLimit will be applied.
func (p *Pager[T]) WithLimit(limit int) *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	if limit == NoLimit {
		return p.WithUnlimited()
	}
	p.limit = NormalizeLimit(limit)

	return p
}

// WithUnlimited allows returning all records without a limit.
func (p *Pager[T]) WithUnlimited() *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	p.limit = NoLimit

	return p
}

// WithBackward requests the page preceding the reference instead of the page
// following it.
func (p *Pager[T]) WithBackward() *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	p.backward = true

	return p
}

// WithToken sets the page reference from a decoded token. Overrides a
// previously set raw reference.
func (p *Pager[T]) WithToken(token *Token) *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	p.token = token
	p.reference = nil

	return p
}

// WithReference sets the page reference explicitly. Overrides a previously
// set token.
func (p *Pager[T]) WithReference(reference Reference) *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	p.reference = reference
	p.token = nil

	return p
}

// WithCompileOptions forwards options to every Compile performed by Paginate.
func (p *Pager[T]) WithCompileOptions(opts ...CompileOption) *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	p.compileOpts = append(p.compileOpts, opts...)

	return p
}

// GetLimit returns the limit as it is stored in Pager.
// Returning NoLimit is equivalent to no limit.
func (p *Pager[T]) GetLimit() int {
	if p == nil {
		return 0
	}

	return p.limit
}

// IsUnlimited returns true if the limit equals NoLimit (unbounded number of records).
func (p *Pager[T]) IsUnlimited() bool {
	if p == nil {
		return false
	}

	return p.limit == NoLimit
}

// Result is a paginated result container.
type Result[T any] struct {
	// Items result elements, always in forward-reading order.
	Items []T
	// AppliedLimit effective limit used for the query.
	AppliedLimit int
	// HasNext reports whether rows exist after the last item.
	HasNext bool
	// HasPrevious reports whether rows exist before the first item.
	HasPrevious bool
	// NextPageToken token for the page after Items; nil on the last page.
	NextPageToken *Token
	// PreviousPageToken token for the page before Items; nil on the first page.
	PreviousPageToken *Token
}

// Paginate executes one pagination request against seq. Returns an error if
// pagination cannot be applied.
func (p *Pager[T]) Paginate(ctx context.Context, seq Sequence[T]) (*Result[T], error) {
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("cannot paginate: %w", err)
	}

	direction := lo.Ternary(p.backward, PageBackward, PageForward)

	reference := p.reference
	if !p.token.IsEmpty() {
		reference = p.token
	}

	pc, err := Compile(p.spec, direction, reference, seq, p.compileOpts...)
	if err != nil {
		return nil, fmt.Errorf("cannot paginate: %w", err)
	}

	items, err := FetchPage(ctx, pc, p.limit)
	if err != nil {
		return nil, fmt.Errorf("cannot paginate: %w", err)
	}
	items = EnsureCorrectOrder(pc, items)

	hasPrevious, err := HasPrevious(ctx, pc, items)
	if err != nil {
		return nil, fmt.Errorf("cannot paginate: %w", err)
	}
	hasNext, err := HasNext(ctx, pc, items)
	if err != nil {
		return nil, fmt.Errorf("cannot paginate: %w", err)
	}

	ret := &Result[T]{
		Items:        items,
		AppliedLimit: p.limit,
		HasNext:      hasNext,
		HasPrevious:  hasPrevious,
	}
	if hasNext {
		ret.NextPageToken = TokenOf(p.spec, items[len(items)-1])
	}
	if hasPrevious {
		ret.PreviousPageToken = TokenOf(p.spec, items[0])
	}

	return ret, nil
}

func (p *Pager[T]) validate() error {
	if p == nil {
		return fmt.Errorf("pager is nil")
	}

	if err := p.spec.validate(); err != nil {
		return err
	}

	if err := validateTokenFor(p.token, p.spec); err != nil {
		return err
	}

	return nil
}
