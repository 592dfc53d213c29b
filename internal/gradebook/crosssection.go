package gradebook

import (
	"fmt"
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
)

// ExtractStudents slices the fixed columns into one Student per data row.
// Rows without a name are skipped. A final grade that cannot be read
// counts as zero.
func ExtractStudents(g Grid, pos HeaderPosition, layout Layout) ([]domain.Student, error) {
	if w, need := g.Width(), layout.maxFixedColumn()+1; w < need {
		return nil, fmt.Errorf("%w: sheet has %d columns, layout needs %d", ErrLayoutMismatch, w, need)
	}

	var students []domain.Student
	for r := pos.FirstDataRow(); r < len(g); r++ {
		name := strings.TrimSpace(g.Cell(r, layout.NameColumn))
		if name == "" {
			continue
		}

		grade, _ := ParseNumber(g.Cell(r, layout.FinalGradeColumn))
		examRaw := strings.TrimSpace(g.Cell(r, layout.ExamAverageColumn))
		exam, examOK := ParseNumber(examRaw)

		students = append(students, domain.Student{
			Name:           name,
			Feedback:       strings.TrimSpace(g.Cell(r, layout.FeedbackColumn)),
			Room:           strings.TrimSpace(g.Cell(r, layout.RoomColumn)),
			Number:         strings.TrimSpace(g.Cell(r, layout.NumberColumn)),
			ExamAverage:    null.NewFloat64(exam, examOK),
			ExamAverageRaw: examRaw,
			FinalGrade:     grade,
			FinalStatus:    strings.TrimSpace(g.Cell(r, layout.StatusColumn)),
			SourceRow:      r,
		})
	}
	return students, nil
}
