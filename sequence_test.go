package keysetpager

import (
	"context"
	"fmt"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

// testArticles is ordered here exactly as the total order (created_at DESC,
// id ASC) must arrange it; tests index into it by position.
func testArticles() []tArticle {
	return []tArticle{
		articleAt(3, 1),
		articleAt(3, 4),
		articleAt(2, 2),
		articleAt(2, 5),
		articleAt(2, 9),
		articleAt(1, 3),
		articleAt(1, 7),
	}
}

func shuffledArticles() []tArticle {
	ordered := testArticles()

	shuffled := make([]tArticle, 0, len(ordered))
	for i := len(ordered) - 1; i >= 0; i -= 2 {
		shuffled = append(shuffled, ordered[i])
	}
	for i := len(ordered) - 2; i >= 0; i -= 2 {
		shuffled = append(shuffled, ordered[i])
	}

	return shuffled
}

func Test_SliceSequence_OrderedTake(t *testing.T) {
	spec := articleSpec(t)
	seq := NewSliceSequence(spec, shuffledArticles())

	t.Run("forward order", func(t *testing.T) {
		pc, err := Compile(spec, PageForward, nil, seq)
		require.NoError(t, err)

		rows, err := pc.Ordered.Take(context.Background(), NoLimit)
		require.NoError(t, err)
		require.Equal(t, testArticles(), rows)
	})

	t.Run("backward order is reversed", func(t *testing.T) {
		pc, err := Compile(spec, PageBackward, nil, seq)
		require.NoError(t, err)

		rows, err := pc.Ordered.Take(context.Background(), NoLimit)
		require.NoError(t, err)
		require.Equal(t, lo.Reverse(testArticles()), rows)
	})
}

// Total-order consistency: the boundary compiled from reference a and the
// forward direction selects b iff b sorts strictly after a - and symmetrically
// for backward.
func Test_Boundary_TotalOrderConsistency(t *testing.T) {
	spec := articleSpec(t)
	ordered := testArticles()

	for i, refRow := range ordered {
		forward, err := compileBoundary(spec, PageForward, spec.ReferenceOf(refRow), newCompileConfig(nil))
		require.NoError(t, err)
		backward, err := compileBoundary(spec, PageBackward, spec.ReferenceOf(refRow), newCompileConfig(nil))
		require.NoError(t, err)

		for j, row := range ordered {
			gotForward, err := boundaryMatches(spec, forward, row)
			require.NoError(t, err)
			require.Equal(t, j > i, gotForward, "forward ref=%d row=%d", i, j)

			gotBackward, err := boundaryMatches(spec, backward, row)
			require.NoError(t, err)
			require.Equal(t, j < i, gotBackward, "backward ref=%d row=%d", i, j)
		}
	}
}

// Optimization neutrality: toggling the access predicate never changes the
// result set, for any reference and either direction.
func Test_Boundary_OptimizationNeutrality(t *testing.T) {
	spec := articleSpec(t)
	seq := NewSliceSequence(spec, shuffledArticles())

	for _, direction := range []PageDirection{PageForward, PageBackward} {
		for i, refRow := range testArticles() {
			t.Run(fmt.Sprintf("%s ref %d", direction, i), func(t *testing.T) {
				withOpt, err := Compile(spec, direction, spec.ReferenceOf(refRow), seq)
				require.NoError(t, err)
				withoutOpt, err := Compile(spec, direction, spec.ReferenceOf(refRow), seq, WithoutAccessPredicate())
				require.NoError(t, err)

				gotWith, err := withOpt.Filtered.Take(context.Background(), NoLimit)
				require.NoError(t, err)
				gotWithout, err := withoutOpt.Filtered.Take(context.Background(), NoLimit)
				require.NoError(t, err)

				require.Equal(t, gotWithout, gotWith)
			})
		}
	}
}

// No-overlap/no-gap continuation: walking forward pages by feeding the last
// row of each page back as the reference reproduces the total order exactly.
func Test_FetchPage_Continuation(t *testing.T) {
	spec := articleSpec(t)
	seq := NewSliceSequence(spec, shuffledArticles())

	const pageSize = 2

	var (
		walked    []tArticle
		reference Reference
	)
	for {
		pc, err := Compile(spec, PageForward, reference, seq)
		require.NoError(t, err)

		page, err := FetchPage(context.Background(), pc, pageSize)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}

		walked = append(walked, page...)
		reference = spec.ReferenceOf(page[len(page)-1])
	}

	require.Equal(t, testArticles(), walked)
}

// Backward symmetry: fetching backward from a reference and normalizing the
// page yields exactly the rows immediately preceding the reference in the
// forward total order.
func Test_FetchPage_BackwardSymmetry(t *testing.T) {
	spec := articleSpec(t)
	seq := NewSliceSequence(spec, shuffledArticles())
	ordered := testArticles()

	const pageSize = 2

	for i := range ordered {
		pc, err := Compile(spec, PageBackward, spec.ReferenceOf(ordered[i]), seq)
		require.NoError(t, err)

		page, err := FetchPage(context.Background(), pc, pageSize)
		require.NoError(t, err)
		page = EnsureCorrectOrder(pc, page)

		expectedFrom := i - pageSize
		if expectedFrom < 0 {
			expectedFrom = 0
		}
		require.Equal(t, ordered[expectedFrom:i], page, "reference at %d", i)
	}
}

// Probe correctness on boundaries: HasPrevious is false exactly when the page
// touches the start of the total order, HasNext exactly at its end.
func Test_Probes_OnPageBoundaries(t *testing.T) {
	spec := articleSpec(t)
	seq := NewSliceSequence(spec, shuffledArticles())
	ordered := testArticles()

	const pageSize = 2

	var reference Reference
	for from := 0; from < len(ordered); from += pageSize {
		pc, err := Compile(spec, PageForward, reference, seq)
		require.NoError(t, err)

		page, err := FetchPage(context.Background(), pc, pageSize)
		require.NoError(t, err)
		require.NotEmpty(t, page)

		hasPrevious, err := HasPrevious(context.Background(), pc, page)
		require.NoError(t, err)
		require.Equal(t, from > 0, hasPrevious, "page starting at %d", from)

		hasNext, err := HasNext(context.Background(), pc, page)
		require.NoError(t, err)
		require.Equal(t, from+len(page) < len(ordered), hasNext, "page starting at %d", from)

		reference = spec.ReferenceOf(page[len(page)-1])
	}
}

// Probes are independent of the direction the page was fetched with: a
// normalized backward page answers the same as the equivalent forward page.
func Test_Probes_IndependentOfFetchDirection(t *testing.T) {
	spec := articleSpec(t)
	seq := NewSliceSequence(spec, shuffledArticles())
	ordered := testArticles()

	pc, err := Compile(spec, PageBackward, spec.ReferenceOf(ordered[4]), seq)
	require.NoError(t, err)

	page, err := FetchPage(context.Background(), pc, 2)
	require.NoError(t, err)
	page = EnsureCorrectOrder(pc, page)
	require.Equal(t, ordered[2:4], page)

	hasPrevious, err := HasPrevious(context.Background(), pc, page)
	require.NoError(t, err)
	require.True(t, hasPrevious)

	hasNext, err := HasNext(context.Background(), pc, page)
	require.NoError(t, err)
	require.True(t, hasNext)
}

func Test_EnsureCorrectOrder(t *testing.T) {
	spec := articleSpec(t)
	seq := NewSliceSequence(spec, shuffledArticles())

	t.Run("forward is a no-op", func(t *testing.T) {
		pc, err := Compile(spec, PageForward, nil, seq)
		require.NoError(t, err)

		page := []tArticle{articleAt(3, 1), articleAt(3, 4)}
		require.Equal(t, []tArticle{articleAt(3, 1), articleAt(3, 4)}, EnsureCorrectOrder(pc, page))
	})

	t.Run("backward reverses in place", func(t *testing.T) {
		pc, err := Compile(spec, PageBackward, nil, seq)
		require.NoError(t, err)

		page := []tArticle{articleAt(3, 4), articleAt(3, 1)}
		require.Equal(t, []tArticle{articleAt(3, 1), articleAt(3, 4)}, EnsureCorrectOrder(pc, page))
	})
}

// tExplodingSequence fails on any data access. Used to prove that probes on
// an empty page never touch the store.
type tExplodingSequence[T any] struct{}

func (s tExplodingSequence[T]) WithOrder(Orderings) Sequence[T]    { return s }
func (s tExplodingSequence[T]) WithBoundary(*Boundary) Sequence[T] { return s }

func (s tExplodingSequence[T]) Take(context.Context, int) ([]T, error) {
	return nil, fmt.Errorf("data store must not be touched")
}

func (s tExplodingSequence[T]) Any(context.Context) (bool, error) {
	return false, fmt.Errorf("data store must not be touched")
}

func Test_Probes_EmptyPageSkipsDataStore(t *testing.T) {
	spec := articleSpec(t)

	pc, err := Compile(spec, PageForward, nil, tExplodingSequence[tArticle]{})
	require.NoError(t, err)

	hasPrevious, err := HasPrevious(context.Background(), pc, nil)
	require.NoError(t, err)
	require.False(t, hasPrevious)

	hasNext, err := HasNext(context.Background(), pc, []tArticle{})
	require.NoError(t, err)
	require.False(t, hasNext)
}
