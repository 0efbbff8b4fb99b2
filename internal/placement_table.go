package internal

import (
	"crosswarped.com/calsolve/pkg/primitives"
)

// Placement is one piece orientation anchored at a board offset, reduced
// to the mask of cells it covers.
type Placement struct {
	Piece int
	Cells primitives.Mask
}

// PlacementTable holds every legal placement of every piece, precomputed
// once per board and shared read-only across all queries.
type PlacementTable struct {
	// ByPiece[p] lists every legal placement mask for piece p.
	ByPiece [][]primitives.Mask

	// ByCell[bit] lists every (piece, placement) covering that cell. The
	// search branches over exactly one of these lists per step, so this
	// inverted index is what keeps the branching factor down.
	ByCell [][]Placement
}

// PlacementTableParams describes the board geometry and piece set.
type PlacementTableParams struct {
	// BitIndex is the row-major grid of dense cell indexes, -1 for
	// structurally blank cells.
	BitIndex [][]int

	// NumCells is the number of playable cells (valid bit indexes).
	NumCells int

	Shapes []primitives.Shape
}

// BuildPlacementTable enumerates every orientation of every shape at every
// in-bounds offset and keeps the placements that land entirely on playable
// cells. Target cells are not considered here: which cells a query reserves
// varies per date, so that filtering happens at search time against the
// covered mask.
func BuildPlacementTable(params PlacementTableParams) *PlacementTable {
	height := len(params.BitIndex)
	width := 0
	if height > 0 {
		width = len(params.BitIndex[0])
	}

	table := &PlacementTable{
		ByPiece: make([][]primitives.Mask, len(params.Shapes)),
		ByCell:  make([][]Placement, params.NumCells),
	}

	for piece, shape := range params.Shapes {
		for _, orientation := range shape.Orientations() {
			oh, ow := orientation.Height(), orientation.Width()
			for baseRow := 0; baseRow+oh <= height; baseRow++ {
				for baseCol := 0; baseCol+ow <= width; baseCol++ {
					mask, ok := placementMask(params.BitIndex, orientation, baseRow, baseCol)
					if !ok {
						continue
					}
					table.ByPiece[piece] = append(table.ByPiece[piece], mask)
					for bit := range mask.Bits() {
						table.ByCell[bit] = append(table.ByCell[bit], Placement{Piece: piece, Cells: mask})
					}
				}
			}
		}
	}
	return table
}

func placementMask(bitIndex [][]int, orientation primitives.Shape, baseRow, baseCol int) (primitives.Mask, bool) {
	var mask primitives.Mask
	for _, cell := range orientation.Cells() {
		bit := bitIndex[baseRow+cell.Row][baseCol+cell.Col]
		if bit < 0 {
			return 0, false
		}
		mask = mask.Set(bit)
	}
	return mask, true
}
