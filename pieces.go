package calsolve

import (
	"crosswarped.com/calsolve/pkg/primitives"
)

// DefaultBoard returns the reference 7x8 calendar grid: day numbers 1-31,
// Turkish month and weekday abbreviations, two decorative heart cells, and
// four structurally blank cells in the last row.
func DefaultBoard() [][]string {
	return [][]string{
		{"1", "2", "3", "4", "OCA", "♥", "PZT"},
		{"5", "6", "7", "8", "SUB", "MAR", "SAL"},
		{"9", "10", "11", "12", "NIS", "MAY", "CAR"},
		{"13", "14", "15", "16", "HAZ", "TEM", "PER"},
		{"17", "18", "19", "20", "AGU", "EYL", "CUM"},
		{"21", "22", "23", "24", "EKI", "KAS", "CMT"},
		{"25", "26", "27", "28", "ARA", "♥", "PAZ"},
		{"29", "30", "31", "", "", "", ""},
	}
}

// DefaultPieces returns the fixed ten-piece set of the calendar puzzle,
// 49 cells in total.
func DefaultPieces() []primitives.Shape {
	raw := [][][]int{
		// L pentomino
		{
			{1, 0},
			{1, 0},
			{1, 0},
			{1, 1},
		},
		// Z pentomino
		{
			{1, 1, 0},
			{0, 1, 0},
			{0, 1, 1},
		},
		// N pentomino
		{
			{0, 1},
			{0, 1},
			{1, 1},
			{1, 0},
		},
		// straight five
		{
			{1, 1, 1, 1, 1},
		},
		// Z tetromino
		{
			{0, 1, 1},
			{1, 1, 0},
		},
		// V pentomino
		{
			{0, 0, 1},
			{0, 0, 1},
			{1, 1, 1},
		},
		// T pentomino
		{
			{1, 1, 1},
			{0, 1, 0},
			{0, 1, 0},
		},
		// U pentomino
		{
			{1, 1, 1},
			{1, 0, 1},
		},
		// Y pentomino
		{
			{1, 1, 1, 1},
			{0, 0, 1, 0},
		},
		// P pentomino
		{
			{0, 1},
			{1, 1},
			{1, 1},
		},
	}

	pieces := make([]primitives.Shape, len(raw))
	for i, rows := range raw {
		pieces[i] = primitives.NewShape(rows)
	}
	return pieces
}
