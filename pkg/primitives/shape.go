package primitives

import (
	"fmt"
	"slices"
	"strings"
)

// Cell is a (row, column) offset inside a shape's bounding box.
type Cell struct {
	Row, Col int
}

// Shape is a polyomino held as its occupied cells, normalized so the
// bounding box starts at (0, 0) and the cells are in row-major order.
//
// Shapes are immutable once created; every transform returns a new Shape.
type Shape struct {
	cells []Cell
}

// NewShape builds a shape from a rows-of-flags matrix, where any nonzero
// entry marks an occupied cell. Rows may be ragged; trailing zeros are
// not required.
func NewShape(rows [][]int) Shape {
	var cells []Cell
	for r, row := range rows {
		for c, v := range row {
			if v != 0 {
				cells = append(cells, Cell{Row: r, Col: c})
			}
		}
	}
	return normalize(cells)
}

func normalize(cells []Cell) Shape {
	if len(cells) == 0 {
		return Shape{}
	}
	minR, minC := cells[0].Row, cells[0].Col
	for _, cell := range cells[1:] {
		minR = min(minR, cell.Row)
		minC = min(minC, cell.Col)
	}
	out := make([]Cell, len(cells))
	for i, cell := range cells {
		out[i] = Cell{Row: cell.Row - minR, Col: cell.Col - minC}
	}
	slices.SortFunc(out, func(a, b Cell) int {
		if a.Row != b.Row {
			return a.Row - b.Row
		}
		return a.Col - b.Col
	})
	return Shape{cells: out}
}

// Cells returns the occupied cells in row-major order. The slice is shared;
// callers must not modify it.
func (s Shape) Cells() []Cell {
	return s.cells
}

// Size returns the number of occupied cells.
func (s Shape) Size() int {
	return len(s.cells)
}

// Height returns the bounding-box height.
func (s Shape) Height() int {
	h := 0
	for _, cell := range s.cells {
		h = max(h, cell.Row+1)
	}
	return h
}

// Width returns the bounding-box width.
func (s Shape) Width() int {
	w := 0
	for _, cell := range s.cells {
		w = max(w, cell.Col+1)
	}
	return w
}

// Equal reports whether two shapes occupy the same normalized cell set.
func (s Shape) Equal(other Shape) bool {
	return slices.Equal(s.cells, other.cells)
}

func (s Shape) key() string {
	var sb strings.Builder
	for _, cell := range s.cells {
		fmt.Fprintf(&sb, "%d,%d;", cell.Row, cell.Col)
	}
	return sb.String()
}

func (s Shape) rotate90() Shape {
	h := s.Height()
	out := make([]Cell, len(s.cells))
	for i, cell := range s.cells {
		out[i] = Cell{Row: cell.Col, Col: h - 1 - cell.Row}
	}
	return normalize(out)
}

func (s Shape) flipHorizontal() Shape {
	w := s.Width()
	out := make([]Cell, len(s.cells))
	for i, cell := range s.cells {
		out[i] = Cell{Row: cell.Row, Col: w - 1 - cell.Col}
	}
	return normalize(out)
}

func (s Shape) flipVertical() Shape {
	h := s.Height()
	out := make([]Cell, len(s.cells))
	for i, cell := range s.cells {
		out[i] = Cell{Row: h - 1 - cell.Row, Col: cell.Col}
	}
	return normalize(out)
}

// Orientations returns every symmetrically distinct rotation/reflection of
// the shape: the dihedral group of order 8, deduplicated by exact cell
// pattern. A shape's own symmetry reduces the count (a straight line
// yields 2, a square block 1).
func (s Shape) Orientations() []Shape {
	seen := make(map[string]bool)
	var out []Shape

	cur := s
	for range 4 {
		for _, variant := range []Shape{
			cur,
			cur.flipHorizontal(),
			cur.flipVertical(),
			cur.flipVertical().flipHorizontal(),
		} {
			k := variant.key()
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, variant)
		}
		cur = cur.rotate90()
	}
	return out
}

func (s Shape) String() string {
	h, w := s.Height(), s.Width()
	grid := make([][]byte, h)
	for r := range grid {
		grid[r] = []byte(strings.Repeat(".", w))
	}
	for _, cell := range s.cells {
		grid[cell.Row][cell.Col] = '#'
	}
	lines := make([]string, h)
	for r := range grid {
		lines[r] = string(grid[r])
	}
	return strings.Join(lines, "\n")
}
