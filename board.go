package calsolve

import (
	"crosswarped.com/calsolve/pkg/primitives"
)

// Board is the static calendar grid. Every labeled cell is playable and
// gets a dense bit index; empty strings mark structurally blank cells that
// pieces can never cover.
//
// A Board is immutable after construction and safe for concurrent use.
type Board struct {
	labels   [][]string
	bitIndex [][]int           // -1 for blank cells
	cells    []primitives.Cell // bit index -> board position
	all      primitives.Mask   // every playable cell
}

// NewBoard validates a row-major grid of labels and assigns bit indexes.
func NewBoard(grid [][]string) (*Board, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, configErrorf("board has no rows")
	}
	width := len(grid[0])

	b := &Board{
		labels:   make([][]string, len(grid)),
		bitIndex: make([][]int, len(grid)),
	}

	bit := 0
	for r, row := range grid {
		if len(row) != width {
			return nil, configErrorf("row %d has %d cells, want %d", r, len(row), width)
		}
		b.labels[r] = make([]string, width)
		b.bitIndex[r] = make([]int, width)
		copy(b.labels[r], row)
		for c, label := range row {
			if label == "" {
				b.bitIndex[r][c] = -1
				continue
			}
			if bit >= primitives.MaxMaskBits {
				return nil, configErrorf("board has more than %d playable cells", primitives.MaxMaskBits)
			}
			b.bitIndex[r][c] = bit
			b.cells = append(b.cells, primitives.Cell{Row: r, Col: c})
			bit++
		}
	}

	if bit == 0 {
		return nil, configErrorf("board has no playable cells")
	}
	b.all = primitives.FullMask(bit)
	return b, nil
}

func (b *Board) Height() int {
	return len(b.labels)
}

func (b *Board) Width() int {
	return len(b.labels[0])
}

// NumCells returns the number of playable cells.
func (b *Board) NumCells() int {
	return len(b.cells)
}

// AllCells returns the mask with every playable cell set.
func (b *Board) AllCells() primitives.Mask {
	return b.all
}

// Label returns the label at a board position; blanks are "".
func (b *Board) Label(row, col int) string {
	return b.labels[row][col]
}

// BitAt returns the bit index of a playable position, or false for blanks.
func (b *Board) BitAt(row, col int) (int, bool) {
	idx := b.bitIndex[row][col]
	return idx, idx >= 0
}

// CellAt returns the board position of a bit index.
func (b *Board) CellAt(bit int) primitives.Cell {
	return b.cells[bit]
}
