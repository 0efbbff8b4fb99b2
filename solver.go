package calsolve

import (
	"context"
	"iter"
	"slices"
	"time"

	"crosswarped.com/calsolve/internal"
	"crosswarped.com/calsolve/pkg/primitives"
)

// Solver finds exact-cover tilings of the calendar board: ten pieces cover
// every playable cell except the three spelling the queried date.
//
// All piece orientations and legal placements are precomputed once in
// NewSolver; after that the Solver is immutable and safe for concurrent
// queries, each of which owns its own search session.
type Solver struct {
	board  *Board
	shapes []primitives.Shape
	table  *internal.PlacementTable
}

// NewSolver builds a solver for a labeled grid and piece set.
func NewSolver(grid [][]string, shapes []primitives.Shape) (*Solver, error) {
	if len(shapes) == 0 {
		return nil, configErrorf("no pieces given")
	}
	if len(shapes) > 16 {
		return nil, configErrorf("%d pieces exceed the 16-piece limit", len(shapes))
	}
	for i, shape := range shapes {
		if shape.Size() == 0 {
			return nil, configErrorf("piece %d has zero area", i)
		}
	}

	board, err := NewBoard(grid)
	if err != nil {
		return nil, err
	}

	table := internal.BuildPlacementTable(internal.PlacementTableParams{
		BitIndex: board.bitIndex,
		NumCells: board.NumCells(),
		Shapes:   shapes,
	})

	return &Solver{
		board:  board,
		shapes: shapes,
		table:  table,
	}, nil
}

// NewDefaultSolver builds a solver for the reference calendar board and
// its fixed ten pieces.
func NewDefaultSolver() (*Solver, error) {
	return NewSolver(DefaultBoard(), DefaultPieces())
}

// Board returns the solver's board.
func (s *Solver) Board() *Board {
	return s.board
}

// Pieces returns the solver's piece set, indexed by piece id. The slice is
// shared; callers must not modify it.
func (s *Solver) Pieces() []primitives.Shape {
	return s.shapes
}

// Status is the outcome of a search.
type Status int

const (
	// StatusUnknown is the zero value, only seen alongside an error.
	StatusUnknown Status = iota
	StatusSolved
	StatusNoSolution
	StatusCancelled
)

func (st Status) String() string {
	switch st {
	case StatusSolved:
		return "solved"
	case StatusNoSolution:
		return "no solution"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// PiecePlacement pins one piece to the cells it covers.
type PiecePlacement struct {
	Piece int
	Cells primitives.Mask
}

// Solution is a full tiling: one placement per piece, pairwise disjoint,
// together covering everything except the target cells. Placements are
// ordered by piece id.
type Solution struct {
	Placements []PiecePlacement
}

// Stats counts the work one query did.
type Stats struct {
	Nodes    int
	MemoHits int
	Duration time.Duration
}

// Result is the outcome of a single-solution query.
type Result struct {
	Status   Status
	Solution *Solution
	Target   primitives.Mask
	Stats    Stats
}

// ResultSet is the outcome of an exhaustive query. Status is
// StatusCancelled when the search was cut short; Solutions then holds
// whatever was found before the cut, which need not be everything.
type ResultSet struct {
	Status    Status
	Solutions []Solution
	Target    primitives.Mask
	Stats     Stats
}

// searchState identifies a point in the search: which cells are covered
// and which pieces placed. Two paths reaching the same state have
// identical futures, which is what makes memoization sound.
type searchState struct {
	covered primitives.Mask
	used    uint16
}

// searchSession owns all mutable search state for exactly one query.
// Covered masks are only comparable under one target mask, so a session
// is never reused across queries.
type searchSession struct {
	table *internal.PlacementTable
	full  primitives.Mask

	// dead caches states whose whole subtree was explored and produced
	// nothing. Cancelled subtrees are never recorded here.
	dead map[searchState]bool

	chosen []internal.Placement

	nodes    int
	memoHits int
}

func (s *Solver) newSession() *searchSession {
	return &searchSession{
		table: s.table,
		full:  s.board.AllCells(),
		dead:  make(map[searchState]bool),
	}
}

// Solve finds one tiling for the query, or reports NoSolution/Cancelled.
// A QueryError is returned when the date labels do not resolve on the
// board; no search is attempted then.
func (s *Solver) Solve(ctx context.Context, q Query) (Result, error) {
	target, err := s.board.TargetMask(q)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	sess := s.newSession()
	outcome := sess.solveFirst(ctx, target, 0)

	result := Result{
		Target: target,
		Stats:  sess.stats(start),
	}
	switch outcome {
	case outcomeSolved:
		result.Status = StatusSolved
		result.Solution = solutionFromPlacements(sess.chosen)
	case outcomeCancelled:
		result.Status = StatusCancelled
	default:
		result.Status = StatusNoSolution
	}
	return result, nil
}

// Solutions enumerates every tiling for the query, in the deterministic
// order the search discovers them. The sequence stops early when the
// context is cancelled or the consumer breaks; use SolveAll to also learn
// whether the enumeration ran to completion.
func (s *Solver) Solutions(ctx context.Context, q Query) (iter.Seq[Solution], error) {
	target, err := s.board.TargetMask(q)
	if err != nil {
		return nil, err
	}

	return func(yield func(Solution) bool) {
		sess := s.newSession()
		sess.enumerate(ctx, target, 0, yield)
	}, nil
}

// SolveAll collects every tiling for the query.
func (s *Solver) SolveAll(ctx context.Context, q Query) (ResultSet, error) {
	target, err := s.board.TargetMask(q)
	if err != nil {
		return ResultSet{}, err
	}

	start := time.Now()
	sess := s.newSession()
	var solutions []Solution
	sess.enumerate(ctx, target, 0, func(sol Solution) bool {
		solutions = append(solutions, sol)
		return true
	})

	set := ResultSet{
		Solutions: solutions,
		Target:    target,
		Stats:     sess.stats(start),
	}
	switch {
	case ctx.Err() != nil:
		set.Status = StatusCancelled
	case len(solutions) == 0:
		set.Status = StatusNoSolution
	default:
		set.Status = StatusSolved
	}
	return set, nil
}

type outcome int

const (
	outcomeSolved outcome = iota
	outcomeExhausted
	outcomeCancelled
)

// solveFirst is the single-solution search. It always branches on the
// lowest uncovered cell and only over placements registered against that
// cell. On success the chosen placements accumulate on the unwind, in
// reverse search order.
func (ss *searchSession) solveFirst(ctx context.Context, covered primitives.Mask, used uint16) outcome {
	if ctx.Err() != nil {
		return outcomeCancelled
	}
	ss.nodes++

	if covered == ss.full {
		return outcomeSolved
	}

	state := searchState{covered: covered, used: used}
	if ss.dead[state] {
		ss.memoHits++
		return outcomeExhausted
	}

	cell := covered.LowestClear(ss.full)
	for _, cand := range ss.table.ByCell[cell] {
		if used&(1<<cand.Piece) != 0 {
			continue
		}
		if cand.Cells.Overlaps(covered) {
			continue
		}
		switch ss.solveFirst(ctx, covered|cand.Cells, used|(1<<cand.Piece)) {
		case outcomeSolved:
			ss.chosen = append(ss.chosen, cand)
			return outcomeSolved
		case outcomeCancelled:
			return outcomeCancelled
		}
	}

	ss.dead[state] = true
	return outcomeExhausted
}

// enumerate is the exhaustive search. It reuses the dead-subtree cache: a
// state is recorded only once its subtree was fully explored and yielded
// nothing, so re-arrivals skip it without losing solutions. Returns
// whether the subtree yielded anything and whether iteration should
// continue at all.
func (ss *searchSession) enumerate(ctx context.Context, covered primitives.Mask, used uint16, yield func(Solution) bool) (yielded, keepGoing bool) {
	if ctx.Err() != nil {
		return false, false
	}
	ss.nodes++

	if covered == ss.full {
		return true, yield(*solutionFromPlacements(ss.chosen))
	}

	state := searchState{covered: covered, used: used}
	if ss.dead[state] {
		ss.memoHits++
		return false, true
	}

	anyYielded := false
	cell := covered.LowestClear(ss.full)
	for _, cand := range ss.table.ByCell[cell] {
		if used&(1<<cand.Piece) != 0 {
			continue
		}
		if cand.Cells.Overlaps(covered) {
			continue
		}
		ss.chosen = append(ss.chosen, cand)
		subYielded, subKeepGoing := ss.enumerate(ctx, covered|cand.Cells, used|(1<<cand.Piece), yield)
		ss.chosen = ss.chosen[:len(ss.chosen)-1]
		anyYielded = anyYielded || subYielded
		if !subKeepGoing {
			return anyYielded, false
		}
	}

	if !anyYielded {
		ss.dead[state] = true
	}
	return anyYielded, true
}

func (ss *searchSession) stats(start time.Time) Stats {
	return Stats{
		Nodes:    ss.nodes,
		MemoHits: ss.memoHits,
		Duration: time.Since(start),
	}
}

func solutionFromPlacements(placements []internal.Placement) *Solution {
	out := make([]PiecePlacement, len(placements))
	for i, p := range placements {
		out[i] = PiecePlacement{Piece: p.Piece, Cells: p.Cells}
	}
	slices.SortFunc(out, func(a, b PiecePlacement) int {
		return a.Piece - b.Piece
	})
	return &Solution{Placements: out}
}
