package calsolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crosswarped.com/calsolve/pkg/primitives"
)

func newTestSolver(t testing.TB) *Solver {
	t.Helper()
	solver, err := NewDefaultSolver()
	if err != nil {
		t.Fatalf("NewDefaultSolver: %v", err)
	}
	return solver
}

// requireValidSolution checks the exact-cover invariants: one placement
// per piece, pairwise disjoint, and together with the target mask they
// cover every playable cell.
func requireValidSolution(t *testing.T, solver *Solver, sol *Solution, target primitives.Mask) {
	t.Helper()
	require.NotNil(t, sol)
	require.Len(t, sol.Placements, 10)

	var union primitives.Mask
	seenPieces := make(map[int]bool)
	for _, placement := range sol.Placements {
		assert.False(t, seenPieces[placement.Piece], "piece %d placed twice", placement.Piece)
		seenPieces[placement.Piece] = true
		assert.False(t, union.Overlaps(placement.Cells),
			"placement of piece %d overlaps earlier pieces", placement.Piece)
		union |= placement.Cells
	}
	for piece := range 10 {
		assert.True(t, seenPieces[piece], "piece %d missing from solution", piece)
	}

	assert.False(t, union.Overlaps(target), "placements cover a target cell")
	assert.Equal(t, solver.Board().AllCells(), union|target, "coverage is not exact")
}

func TestSolverConstruction_Errors(t *testing.T) {
	t.Run("NoPieces", func(t *testing.T) {
		_, err := NewSolver(DefaultBoard(), nil)
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("ZeroAreaPiece", func(t *testing.T) {
		pieces := append(DefaultPieces(), primitives.NewShape(nil))
		_, err := NewSolver(DefaultBoard(), pieces)
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("MalformedBoard", func(t *testing.T) {
		_, err := NewSolver([][]string{{"a"}, {"b", "c"}}, DefaultPieces())
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})
}

func TestSolve_FirstOfJanuary(t *testing.T) {
	solver := newTestSolver(t)
	q := Query{Day: 1, Month: "OCA", Weekday: "PZT"}

	result, err := solver.Solve(t.Context(), q)
	require.NoError(t, err)
	require.Equal(t, StatusSolved, result.Status, "reference date must be solvable")

	requireValidSolution(t, solver, result.Solution, result.Target)
	assert.Positive(t, result.Stats.Nodes)
}

func TestSolve_QueryErrorSkipsSearch(t *testing.T) {
	solver := newTestSolver(t)

	result, err := solver.Solve(t.Context(), Query{Day: 99, Month: "OCA", Weekday: "PZT"})
	var qErr *QueryError
	require.ErrorAs(t, err, &qErr)
	assert.Zero(t, result.Stats.Nodes, "no search may run for an unresolvable date")

	// The solver stays usable after a query error.
	result, err = solver.Solve(t.Context(), Query{Day: 1, Month: "OCA", Weekday: "PZT"})
	require.NoError(t, err)
	assert.Equal(t, StatusSolved, result.Status)
}

func TestSolve_CancelledBeforeFirstCall(t *testing.T) {
	solver := newTestSolver(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	result, err := solver.Solve(ctx, Query{Day: 1, Month: "OCA", Weekday: "PZT"})
	require.NoError(t, err, "cancellation is an outcome, not an error")
	assert.Equal(t, StatusCancelled, result.Status)
	assert.Nil(t, result.Solution)
	assert.Zero(t, result.Stats.Nodes, "no node may be visited under immediate cancellation")
}

func TestSolve_Deterministic(t *testing.T) {
	q := Query{Day: 28, Month: "AGU", Weekday: "CUM"}

	first := newTestSolver(t)
	second := newTestSolver(t)

	a, err := first.Solve(t.Context(), q)
	require.NoError(t, err)
	b, err := second.Solve(t.Context(), q)
	require.NoError(t, err)

	require.Equal(t, a.Status, b.Status)
	if a.Status == StatusSolved {
		assert.Equal(t, a.Solution.Placements, b.Solution.Placements,
			"fresh solvers must find the same solution")
	}
}

func TestSolveAll_DistinctSolutions(t *testing.T) {
	if testing.Short() {
		t.Skip("exhaustive enumeration is slow")
	}
	solver := newTestSolver(t)
	q := Query{Day: 1, Month: "OCA", Weekday: "PZT"}

	set, err := solver.SolveAll(t.Context(), q)
	require.NoError(t, err)
	require.Equal(t, StatusSolved, set.Status)
	require.NotEmpty(t, set.Solutions)

	seen := make(map[string]bool)
	for i := range set.Solutions {
		requireValidSolution(t, solver, &set.Solutions[i], set.Target)
		key := solutionKey(&set.Solutions[i])
		assert.False(t, seen[key], "solution %d repeats an earlier placement multiset", i)
		seen[key] = true
	}
}

func solutionKey(sol *Solution) string {
	// Placements are sorted by piece id, so this is a canonical form.
	key := make([]byte, 0, len(sol.Placements)*10)
	for _, p := range sol.Placements {
		key = append(key, byte(p.Piece))
		for shift := 0; shift < 64; shift += 8 {
			key = append(key, byte(p.Cells>>shift))
		}
	}
	return string(key)
}

func TestSolutions_EarlyBreak(t *testing.T) {
	solver := newTestSolver(t)

	seq, err := solver.Solutions(t.Context(), Query{Day: 1, Month: "OCA", Weekday: "PZT"})
	require.NoError(t, err)

	count := 0
	for sol := range seq {
		requireValidSolution(t, solver, &sol, mustTarget(t, solver, Query{Day: 1, Month: "OCA", Weekday: "PZT"}))
		count++
		if count >= 2 {
			break
		}
	}
	assert.Positive(t, count)
}

func mustTarget(t *testing.T, solver *Solver, q Query) primitives.Mask {
	t.Helper()
	target, err := solver.Board().TargetMask(q)
	require.NoError(t, err)
	return target
}

func TestSolveAll_CancelledMidway(t *testing.T) {
	solver := newTestSolver(t)

	ctx, cancel := context.WithTimeout(t.Context(), time.Microsecond)
	defer cancel()
	<-ctx.Done()

	set, err := solver.SolveAll(ctx, Query{Day: 1, Month: "OCA", Weekday: "PZT"})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, set.Status, "a cut-short enumeration must not claim unsolvability")
}

func TestSolve_ErrorCategoriesAreDisjoint(t *testing.T) {
	_, err := NewSolver(nil, DefaultPieces())
	var qErr *QueryError
	assert.False(t, errors.As(err, &qErr), "construction failures must not look like query errors")
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func BenchmarkSolve(b *testing.B) {
	solver := newTestSolver(b)
	q := Query{Day: 1, Month: "OCA", Weekday: "PZT"}
	b.ReportAllocs()

	for b.Loop() {
		result, err := solver.Solve(b.Context(), q)
		if err != nil || result.Status != StatusSolved {
			b.Fatalf("Solve failed: %v (%v)", result.Status, err)
		}
	}
}
