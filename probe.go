package keysetpager

import (
	"context"
	"fmt"
)

// FetchPage takes the first size rows of the boundary-filtered sequence as
// one page. Selection is entirely predicate-driven: no row counting or
// skipping happens at this layer.
func FetchPage[T any](ctx context.Context, pc *Context[T], size int) ([]T, error) {
	if pc == nil {
		return nil, fmt.Errorf("cannot fetch page: nil pagination context")
	}

	return pc.Filtered.Take(ctx, size)
}

// HasPrevious reports whether any row exists further back than the first
// visible row of page. An empty page returns false without touching the data
// store. The page must be in forward-reading order (run EnsureCorrectOrder
// first); the probe itself is independent of the direction page was fetched
// with.
func HasPrevious[T any](ctx context.Context, pc *Context[T], page []T) (bool, error) {
	return probeBeyond(ctx, pc, page, PageBackward)
}

// HasNext reports whether any row exists further forward than the last
// visible row of page. An empty page returns false without touching the data
// store. The page must be in forward-reading order (run EnsureCorrectOrder
// first); the probe itself is independent of the direction page was fetched
// with.
func HasNext[T any](ctx context.Context, pc *Context[T], page []T) (bool, error) {
	return probeBeyond(ctx, pc, page, PageForward)
}

func probeBeyond[T any](ctx context.Context, pc *Context[T], page []T, direction PageDirection) (bool, error) {
	if pc == nil {
		return false, fmt.Errorf("cannot probe for rows: nil pagination context")
	}
	if len(page) == 0 {
		return false, nil
	}

	edge := page[0]
	if direction == PageForward {
		edge = page[len(page)-1]
	}

	boundary, err := compileBoundary(pc.spec, direction, pc.spec.ReferenceOf(edge), pc.config)
	if err != nil {
		return false, fmt.Errorf("cannot probe for rows: %w", err)
	}

	return pc.Ordered.WithBoundary(boundary).Any(ctx)
}

// EnsureCorrectOrder restores forward-reading order on a fetched page: a
// backward fetch returns rows in backward-physical order, so the page is
// reversed in place when the context direction is backward. Invoke it exactly
// once per fetched page, after fetching and before presenting it to a caller.
func EnsureCorrectOrder[T any](pc *Context[T], page []T) []T {
	if pc == nil || pc.direction != PageBackward {
		return page
	}

	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}

	return page
}
