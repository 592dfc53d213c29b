package gradebook

import (
	"fmt"
)

// Layout fixes where things live in the gradebook. Column indexes are
// zero-based.
type Layout struct {
	MarkerLabel       string
	FeedbackColumn    int
	RoomColumn        int
	NumberColumn      int
	NameColumn        int
	FirstBlockColumn  int
	BlockWidth        int
	ExamAverageColumn int
	FinalGradeColumn  int
	StatusColumn      int
	HeaderScanRows    int
}

// DefaultLayout returns the layout of the school's attendance workbook.
func DefaultLayout() Layout {
	return Layout{
		MarkerLabel:       "Pre-Class",
		FeedbackColumn:    0,
		RoomColumn:        1,
		NumberColumn:      2,
		NameColumn:        3,
		FirstBlockColumn:  4,
		BlockWidth:        5,
		ExamAverageColumn: 83,
		FinalGradeColumn:  84,
		StatusColumn:      85,
		HeaderScanRows:    20,
	}
}

// Validate checks the layout can be used for extraction.
func (l Layout) Validate() error {
	if l.MarkerLabel == "" {
		return fmt.Errorf("%w: marker label is empty", ErrInvalidLayout)
	}
	if l.BlockWidth < 5 {
		return fmt.Errorf("%w: block width %d is smaller than the 5 session columns", ErrInvalidLayout, l.BlockWidth)
	}
	for name, col := range map[string]int{
		"feedback":     l.FeedbackColumn,
		"room":         l.RoomColumn,
		"number":       l.NumberColumn,
		"name":         l.NameColumn,
		"first block":  l.FirstBlockColumn,
		"exam average": l.ExamAverageColumn,
		"final grade":  l.FinalGradeColumn,
		"status":       l.StatusColumn,
	} {
		if col < 0 {
			return fmt.Errorf("%w: %s column is negative", ErrInvalidLayout, name)
		}
	}
	return nil
}

// maxFixedColumn is the right-most fixed column the cross-section reads.
func (l Layout) maxFixedColumn() int {
	return max(l.FeedbackColumn, l.RoomColumn, l.NumberColumn, l.NameColumn,
		l.ExamAverageColumn, l.FinalGradeColumn, l.StatusColumn)
}
