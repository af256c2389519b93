package keysetpager

import (
	"fmt"

	"github.com/samber/lo"
)

// CompileOption configures a single compilation. There is no process-wide
// mutable state: options are threaded explicitly into each Compile call.
type CompileOption func(*compileConfig)

type compileConfig struct {
	accessPredicate bool
}

func newCompileConfig(opts []CompileOption) compileConfig {
	cfg := compileConfig{
		accessPredicate: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithoutAccessPredicate disables the redundant or-equal clause on the
// leading sort column. The clause never changes the result set; disabling it
// is only useful when a query engine mishandles it.
func WithoutAccessPredicate() CompileOption {
	return func(cfg *compileConfig) {
		cfg.accessPredicate = false
	}
}

// Context bundles everything one page fetch needs: the spec, the page
// direction, the dataset with only the total order applied, and the dataset
// with the order plus the boundary condition applied. It is owned exclusively
// by the caller for the lifetime of one page fetch; stateless and safe to
// discard after use.
type Context[T any] struct {
	spec      *Spec[T]
	direction PageDirection

	// Ordered carries only the effective total order.
	Ordered Sequence[T]
	// Filtered additionally applies the boundary condition. It equals Ordered
	// when no reference was supplied.
	Filtered Sequence[T]

	config compileConfig
}

// Spec returns the keyset specification the context was compiled from.
func (c *Context[T]) Spec() *Spec[T] {
	return c.spec
}

// Direction returns the page direction the context was compiled for.
func (c *Context[T]) Direction() PageDirection {
	return c.direction
}

// Compile turns (spec, direction, reference) into a Context over seq.
//
// A nil reference compiles the identity boundary: the first page when
// paginating forward, the last when paginating backward. Otherwise the
// boundary selects rows strictly after/before the reference in the effective
// total order.
//
// Compilation is a pure, synchronous transformation: it performs no I/O and
// may run from any number of concurrent requests without coordination.
func Compile[T any](spec *Spec[T], direction PageDirection, reference Reference, seq Sequence[T], opts ...CompileOption) (*Context[T], error) {
	if err := spec.validate(); err != nil {
		return nil, fmt.Errorf("cannot compile pagination context: %w", err)
	}
	if !direction.Valid() {
		return nil, fmt.Errorf("cannot compile pagination context: invalid page direction '%s'", direction)
	}
	if seq == nil {
		return nil, fmt.Errorf("cannot compile pagination context: nil sequence")
	}

	cfg := newCompileConfig(opts)

	boundary, err := compileBoundary(spec, direction, reference, cfg)
	if err != nil {
		return nil, fmt.Errorf("cannot compile boundary condition: %w", err)
	}

	ordered := seq.WithOrder(spec.orderings(direction))
	filtered := ordered
	if boundary != nil {
		filtered = ordered.WithBoundary(boundary)
	}

	return &Context[T]{
		spec:      spec,
		direction: direction,
		Ordered:   ordered,
		Filtered:  filtered,
		config:    cfg,
	}, nil
}

// compileBoundary builds the boundary condition for one reference. For keys
// c0..cn-1 with resolved reference values v0..vn-1 the result is:
//
//	[c0 >= v0 AND]                          <- access predicate, n > 1 only
//	(c0 > v0)
//	OR (c0 = v0 AND c1 > v1)
//	...
//	OR (c0 = v0 AND ... AND cn-1 > vn-1)
//
// with each ">"/">=" replaced by the operator selected per key by
// operatorFor. Every reference value is coerced to the key's declared type
// before it is embedded into the condition.
func compileBoundary[T any](spec *Spec[T], direction PageDirection, reference Reference, cfg compileConfig) (*Boundary, error) {
	if reference == nil {
		return nil, nil
	}

	conjuncts := make([]tConjunct, 0, len(spec.keys))
	for _, key := range spec.keys {
		raw, ok := reference.KeysetValue(key.Column)
		if !ok {
			return nil, &MissingReferenceValueError{Column: key.Column}
		}

		value, err := coerceValue(key.Column, key.Type, raw)
		if err != nil {
			return nil, err
		}

		conjuncts = append(conjuncts, tConjunct{
			Column:   key.Column,
			Value:    value,
			Operator: operatorFor(direction, key.Direction),
		})
	}

	disjuncts := make([]tDisjunct, 0, len(conjuncts))
	for i := range conjuncts {
		equalityPrefix := lo.Map(conjuncts[:i], func(c tConjunct, _ int) tConjunct {
			return c.withEquality()
		})

		disjunct := make(tDisjunct, 0, len(equalityPrefix)+1)
		disjunct = append(disjunct, equalityPrefix...)
		disjunct = append(disjunct, conjuncts[i])

		disjuncts = append(disjuncts, disjunct)
	}

	boundary := &Boundary{disjuncts: disjuncts}

	// The access predicate only pays off as an extra clause; with a single
	// key the disjunction already is a plain condition on c0.
	if cfg.accessPredicate && len(conjuncts) > 1 {
		access := conjuncts[0]
		access.Operator = access.Operator.orEqual()
		boundary.access = &access
	}

	return boundary, nil
}
