package keysetpager

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"
)

// Sequence is the orderable, filterable dataset abstraction the compiler
// targets. WithOrder and WithBoundary are pure: they return a derived
// sequence and leave the receiver untouched. Take and Any are where the
// external query engine runs and may suspend on I/O; cancellation is the
// engine's responsibility via ctx.
type Sequence[T any] interface {
	WithOrder(Orderings) Sequence[T]
	WithBoundary(*Boundary) Sequence[T]
	// Take fetches the first n rows. NoLimit fetches all matching rows.
	Take(ctx context.Context, n int) ([]T, error)
	// Any reports whether at least one matching row exists.
	Any(ctx context.Context) (bool, error)
}

// GormSequence executes the compiled order and boundary against a GORM query.
type GormSequence[T any] struct {
	db *gorm.DB
}

func NewGormSequence[T any](db *gorm.DB) *GormSequence[T] {
	return &GormSequence[T]{db: db}
}

// chain starts a fresh derivation of the underlying query. One compiled
// context derives several sequences (ordered, filtered, probes) from the same
// base, so each derivation must clone the statement instead of mutating it.
func (s *GormSequence[T]) chain() *gorm.DB {
	return s.db.Session(&gorm.Session{})
}

// WithOrder implements Sequence.
func (s *GormSequence[T]) WithOrder(orderings Orderings) Sequence[T] {
	return &GormSequence[T]{db: orderings.Apply(s.chain())}
}

// WithBoundary implements Sequence.
func (s *GormSequence[T]) WithBoundary(boundary *Boundary) Sequence[T] {
	return &GormSequence[T]{db: boundary.Apply(s.chain())}
}

// Take implements Sequence.
func (s *GormSequence[T]) Take(ctx context.Context, n int) ([]T, error) {
	query := s.chain().WithContext(ctx)
	if n != NoLimit {
		query = query.Limit(n)
	}

	var rows []T
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("cannot fetch rows: %w", err)
	}

	return rows, nil
}

// Any implements Sequence.
func (s *GormSequence[T]) Any(ctx context.Context) (bool, error) {
	rows, err := s.Take(ctx, 1)
	if err != nil {
		return false, err
	}

	return len(rows) > 0, nil
}

var _ Sequence[any] = (*GormSequence[any])(nil)

// SliceSequence evaluates the compiled order and boundary against an
// in-memory slice through the spec's accessors and comparator table. Useful
// for tests and for paginating already-materialized datasets.
type SliceSequence[T any] struct {
	spec     *Spec[T]
	items    []T
	order    Orderings
	boundary *Boundary
}

func NewSliceSequence[T any](spec *Spec[T], items []T) *SliceSequence[T] {
	return &SliceSequence[T]{
		spec:  spec,
		items: items,
	}
}

// WithOrder implements Sequence.
func (s *SliceSequence[T]) WithOrder(orderings Orderings) Sequence[T] {
	derived := *s
	derived.order = orderings

	return &derived
}

// WithBoundary implements Sequence.
func (s *SliceSequence[T]) WithBoundary(boundary *Boundary) Sequence[T] {
	derived := *s
	derived.boundary = boundary

	return &derived
}

// Take implements Sequence.
func (s *SliceSequence[T]) Take(ctx context.Context, n int) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched := make([]T, 0, len(s.items))
	for _, item := range s.items {
		ok, err := boundaryMatches(s.spec, s.boundary, item)
		if err != nil {
			return nil, fmt.Errorf("cannot evaluate boundary condition: %w", err)
		}
		if ok {
			matched = append(matched, item)
		}
	}

	if err := s.sortRows(matched); err != nil {
		return nil, err
	}

	if n != NoLimit && n < len(matched) {
		matched = matched[:n]
	}

	return matched, nil
}

// Any implements Sequence.
func (s *SliceSequence[T]) Any(ctx context.Context) (bool, error) {
	rows, err := s.Take(ctx, 1)
	if err != nil {
		return false, err
	}

	return len(rows) > 0, nil
}

func (s *SliceSequence[T]) sortRows(rows []T) error {
	if len(s.order) == 0 {
		return nil
	}

	var sortErr error
	sort.SliceStable(rows, func(i, j int) bool {
		if sortErr != nil {
			return false
		}

		cmp, err := s.compareRows(rows[i], rows[j])
		if err != nil {
			sortErr = err
			return false
		}

		return cmp < 0
	})

	return sortErr
}

// compareRows compares two rows under the sequence's orderings, column by
// column in tie-break precedence.
func (s *SliceSequence[T]) compareRows(a, b T) (int, error) {
	for _, ordering := range s.order {
		key, ok := s.spec.keyByColumn(ordering.Column)
		if !ok {
			return 0, &MissingReferenceValueError{Column: ordering.Column}
		}

		av, err := coerceValue(key.Column, key.Type, key.Accessor(a))
		if err != nil {
			return 0, err
		}
		bv, err := coerceValue(key.Column, key.Type, key.Accessor(b))
		if err != nil {
			return 0, err
		}

		cmp, err := compareValues(key.Type, av, bv)
		if err != nil {
			return 0, err
		}

		if cmp == 0 {
			continue
		}
		if ordering.Direction == DirectionDESC {
			cmp = -cmp
		}

		return cmp, nil
	}

	return 0, nil
}

var _ Sequence[any] = (*SliceSequence[any])(nil)
