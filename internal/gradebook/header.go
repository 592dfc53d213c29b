package gradebook

import (
	"fmt"
)

// HeaderPosition locates the two header rows of the gradebook.
type HeaderPosition struct {
	// LabelRow holds the per-column variable names, including the block marker.
	LabelRow int
	// DateRow holds the session dates, one per block. It is -1 when the
	// label row is the first row of the sheet.
	DateRow int
}

// FirstDataRow is the first student row.
func (p HeaderPosition) FirstDataRow() int {
	return p.LabelRow + 1
}

// LocateHeader scans the top of the grid for the row whose first block
// column carries the layout's marker label.
func LocateHeader(g Grid, layout Layout) (HeaderPosition, error) {
	marker := foldText(layout.MarkerLabel)

	limit := len(g)
	if layout.HeaderScanRows > 0 && layout.HeaderScanRows < limit {
		limit = layout.HeaderScanRows
	}

	for i := 0; i < limit; i++ {
		if foldText(g.Cell(i, layout.FirstBlockColumn)) == marker {
			return HeaderPosition{LabelRow: i, DateRow: i - 1}, nil
		}
	}

	return HeaderPosition{}, fmt.Errorf("%w: no %q label in column %d of the first %d rows",
		ErrHeaderNotFound, layout.MarkerLabel, layout.FirstBlockColumn, limit)
}
