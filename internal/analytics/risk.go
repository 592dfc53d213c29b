package analytics

import (
	"fmt"

	"github.com/volatiletech/null/v8"

	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
)

// Quadrant lays out already classified students on the presence ×
// homework plane.
func Quadrant(students []domain.StudentSummary, t domain.Thresholds) domain.Quadrant {
	points := make([]domain.QuadrantPoint, 0, len(students))
	for _, s := range students {
		points = append(points, domain.QuadrantPoint{
			Student:    s.Name,
			Presence:   s.PresenceScore,
			Homework:   s.HomeworkScore,
			FinalGrade: s.FinalGrade,
			MarkerSize: s.MarkerSize,
			Risk:       s.Risk,
			RiskLabel:  s.Risk.Label(),
		})
	}
	return domain.Quadrant{Thresholds: t, Points: points}
}

// RiskList is the call list of one category, in sheet order.
func RiskList(students []domain.StudentSummary, category domain.RiskCategory) domain.RiskList {
	list := domain.RiskList{
		Category: category,
		Label:    category.Label(),
		Entries:  []domain.RiskListEntry{},
	}
	for _, s := range students {
		if s.Risk != category {
			continue
		}
		list.Entries = append(list.Entries, domain.RiskListEntry{
			Student:      s.Name,
			FinalGrade:   s.FinalGrade,
			Presence:     s.PresenceScore,
			Homework:     s.HomeworkScore,
			FinalStatus:  s.FinalStatus,
			GradeText:    FormatGrade(s.FinalGrade),
			PresenceText: FormatPercent(s.PresenceScore),
			HomeworkText: FormatPercent(s.HomeworkScore),
		})
	}
	return list
}

// FormatGrade renders a grade with one decimal.
func FormatGrade(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// FormatPercent renders a [0,1] score as a whole percentage. Missing
// scores render as "-".
func FormatPercent(v null.Float64) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", v.Float64*100)
}

// Profile returns the summary and session history of one student.
func Profile(ds *domain.Dataset, name string) (domain.StudentProfile, bool) {
	summary, ok := ds.FindStudent(name)
	if !ok {
		return domain.StudentProfile{}, false
	}
	history := ds.StudentHistory(name)
	if history == nil {
		history = []domain.SessionRecord{}
	}
	return domain.StudentProfile{Summary: summary, History: history}, true
}
