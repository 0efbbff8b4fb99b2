package calsolve

import (
	"fmt"
	"strconv"

	"crosswarped.com/calsolve/pkg/primitives"
)

// targetCellCount is how many cells spell a date on the board: the day
// number, the month abbreviation, and the weekday abbreviation.
const targetCellCount = 3

// Query names the date to leave uncovered. Labels must exactly match the
// board's labels; resolving a calendar date to labels is the caller's job.
type Query struct {
	Day     int
	Month   string
	Weekday string
}

func (q Query) String() string {
	return fmt.Sprintf("%d %s %s", q.Day, q.Month, q.Weekday)
}

// TargetMask computes the mask of cells that must stay uncovered for the
// query. Blank cells carry no bit index, so the mask holds exactly the
// date cells. Returns a QueryError if the labels resolve to fewer than
// three cells on the board.
func (b *Board) TargetMask(q Query) (primitives.Mask, error) {
	dayLabel := strconv.Itoa(q.Day)

	var target primitives.Mask
	found := 0
	for bit, cell := range b.cells {
		label := b.labels[cell.Row][cell.Col]
		if label == dayLabel || label == q.Month || label == q.Weekday {
			target = target.Set(bit)
			found++
		}
	}

	if found < targetCellCount {
		return 0, &QueryError{
			Query:  q,
			Reason: fmt.Sprintf("labels resolve to %d cells, want %d", found, targetCellCount),
		}
	}
	return target, nil
}
