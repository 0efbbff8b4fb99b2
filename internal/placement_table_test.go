package internal

import (
	"testing"

	"crosswarped.com/calsolve/pkg/primitives"
)

// grid23 is a fully playable 2x3 board with dense bit indexes:
//
//	0 1 2
//	3 4 5
func grid23() [][]int {
	return [][]int{
		{0, 1, 2},
		{3, 4, 5},
	}
}

func TestBuildPlacementTable_Domino(t *testing.T) {
	domino := primitives.NewShape([][]int{{1, 1}})

	table := BuildPlacementTable(PlacementTableParams{
		BitIndex: grid23(),
		NumCells: 6,
		Shapes:   []primitives.Shape{domino},
	})

	// Horizontal: 2 per row x 2 rows. Vertical: 3 columns.
	if got := len(table.ByPiece[0]); got != 7 {
		t.Errorf("Expected 7 domino placements, got %d", got)
	}

	for _, mask := range table.ByPiece[0] {
		if mask.Count() != 2 {
			t.Errorf("Expected every placement to cover 2 cells, got %s", mask.DebugString(6))
		}
	}
}

func TestBuildPlacementTable_BlankCellsRejectPlacements(t *testing.T) {
	// Center cell is blank; no placement may touch it.
	bitIndex := [][]int{
		{0, 1, 2},
		{3, -1, 4},
	}
	domino := primitives.NewShape([][]int{{1, 1}})

	table := BuildPlacementTable(PlacementTableParams{
		BitIndex: bitIndex,
		NumCells: 5,
		Shapes:   []primitives.Shape{domino},
	})

	// Top row: 2 horizontal. Bottom row: none. Vertical: only column 0 and 2.
	if got := len(table.ByPiece[0]); got != 4 {
		t.Errorf("Expected 4 placements around the blank, got %d", got)
	}
}

func TestBuildPlacementTable_InvertedIndex(t *testing.T) {
	ell := primitives.NewShape([][]int{
		{1, 0},
		{1, 1},
	})

	table := BuildPlacementTable(PlacementTableParams{
		BitIndex: grid23(),
		NumCells: 6,
		Shapes:   []primitives.Shape{ell},
	})

	// Every placement must be registered under exactly the cells it covers.
	counts := make(map[primitives.Mask]int)
	for bit, options := range table.ByCell {
		for _, opt := range options {
			if !opt.Cells.Has(bit) {
				t.Errorf("Cell %d lists placement %s that does not cover it", bit, opt.Cells.DebugString(6))
			}
			counts[opt.Cells]++
		}
	}
	for mask, n := range counts {
		if n != mask.Count() {
			t.Errorf("Placement %s registered %d times, want %d", mask.DebugString(6), n, mask.Count())
		}
	}

	total := 0
	for _, options := range table.ByCell {
		total += len(options)
	}
	want := 0
	for _, mask := range table.ByPiece[0] {
		want += mask.Count()
	}
	if total != want {
		t.Errorf("Inverted index holds %d entries, want %d", total, want)
	}
}

func TestBuildPlacementTable_MultiplePieces(t *testing.T) {
	shapes := []primitives.Shape{
		primitives.NewShape([][]int{{1}}),
		primitives.NewShape([][]int{{1, 1, 1}}),
	}

	table := BuildPlacementTable(PlacementTableParams{
		BitIndex: grid23(),
		NumCells: 6,
		Shapes:   shapes,
	})

	if got := len(table.ByPiece[0]); got != 6 {
		t.Errorf("Expected 6 single-cell placements, got %d", got)
	}
	// Tromino: horizontal 1 per row, vertical none (height 2).
	if got := len(table.ByPiece[1]); got != 2 {
		t.Errorf("Expected 2 tromino placements, got %d", got)
	}

	for _, options := range table.ByCell {
		for _, opt := range options {
			if opt.Piece < 0 || opt.Piece >= len(shapes) {
				t.Errorf("Placement names unknown piece %d", opt.Piece)
			}
		}
	}
}
