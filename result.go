package calsolve

import (
	"fmt"
	"strings"

	"crosswarped.com/calsolve/pkg/primitives"
)

// CellKind classifies a rendered board position.
type CellKind int

const (
	CellBlank CellKind = iota
	CellTarget
	CellPiece
)

// RenderedCell is one board position of a materialized solution.
type RenderedCell struct {
	Kind  CellKind
	Piece int // valid only when Kind == CellPiece
}

// RenderedGrid is a 2D grid of rendered cells.
//
// It represents one definite solution laid out on the board.
type RenderedGrid struct {
	cells [][]RenderedCell
}

// Render materializes a solution onto the board: every position becomes
// blank, target, or the id of the piece covering it. Pure lookup, no
// search.
func (s *Solver) Render(sol *Solution, target primitives.Mask) RenderedGrid {
	coveredBy := make([]int, s.board.NumCells())
	for i := range coveredBy {
		coveredBy[i] = -1
	}
	for _, placement := range sol.Placements {
		for bit := range placement.Cells.Bits() {
			coveredBy[bit] = placement.Piece
		}
	}

	cells := make([][]RenderedCell, s.board.Height())
	for r := range cells {
		cells[r] = make([]RenderedCell, s.board.Width())
		for c := range cells[r] {
			bit, playable := s.board.BitAt(r, c)
			switch {
			case !playable:
				cells[r][c] = RenderedCell{Kind: CellBlank}
			case target.Has(bit):
				cells[r][c] = RenderedCell{Kind: CellTarget}
			default:
				cells[r][c] = RenderedCell{Kind: CellPiece, Piece: coveredBy[bit]}
			}
		}
	}
	return RenderedGrid{cells: cells}
}

func (g RenderedGrid) Width() int {
	return len(g.cells[0])
}

func (g RenderedGrid) Height() int {
	return len(g.cells)
}

func (g RenderedGrid) Get(x, y int) RenderedCell {
	return g.cells[y][x]
}

// Repr renders the grid as text: '.' for blanks, '*' for the date cells,
// and the covering piece id (0-9) everywhere else.
func (g RenderedGrid) Repr() string {
	lines := make([]string, g.Height())
	for y, row := range g.cells {
		var sb strings.Builder
		for _, cell := range row {
			switch cell.Kind {
			case CellBlank:
				sb.WriteByte('.')
			case CellTarget:
				sb.WriteByte('*')
			default:
				fmt.Fprintf(&sb, "%d", cell.Piece)
			}
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

func (g RenderedGrid) DebugString() string {
	return fmt.Sprintf("RenderedGrid{width: %d, height: %d, cells: %v}", g.Width(), g.Height(), g.cells)
}
