package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
	"gonum.org/v1/gonum/stat"

	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
)

// Overview computes the headline KPIs. AtRisk counts critical students.
func Overview(ds *domain.Dataset) domain.Overview {
	grades := make([]null.Float64, 0, len(ds.Students))
	presence := make([]null.Float64, 0, len(ds.Students))
	homework := make([]null.Float64, 0, len(ds.Students))

	counts := make(map[domain.RiskCategory]int, 4)
	for _, c := range domain.RiskCategories() {
		counts[c] = 0
	}

	for _, s := range ds.Students {
		grades = append(grades, null.Float64From(s.FinalGrade))
		presence = append(presence, s.PresenceScore)
		homework = append(homework, s.HomeworkScore)
		if s.Risk.IsValid() {
			counts[s.Risk]++
		}
	}

	return domain.Overview{
		Students:       len(ds.Students),
		Sessions:       len(ds.Sessions),
		MeanFinalGrade: meanOf(grades),
		MeanPresence:   meanOf(presence),
		MeanHomework:   meanOf(homework),
		AtRisk:         counts[domain.RiskCritical],
		RiskCounts:     counts,
	}
}

// Trend is the class mean presence per session date, oldest first.
// Undated sessions and dates without any scored presence are left out.
func Trend(panel []domain.SessionRecord) []domain.TrendPoint {
	byDate := make(map[time.Time][]float64)
	for _, rec := range panel {
		if !rec.Date.Valid || !rec.PresenceScore.Valid {
			continue
		}
		day := rec.Date.Time.UTC().Truncate(24 * time.Hour)
		byDate[day] = append(byDate[day], rec.PresenceScore.Float64)
	}

	points := make([]domain.TrendPoint, 0, len(byDate))
	for day, scores := range byDate {
		points = append(points, domain.TrendPoint{
			Date:         day,
			Label:        day.Format("2006-01-02"),
			MeanPresence: stat.Mean(scores, nil),
			Students:     len(scores),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// Participation counts each participation code over the panel, most
// frequent first. Blank codes are not counted.
func Participation(panel []domain.SessionRecord) []domain.ParticipationCount {
	counts := make(map[string]int)
	for _, rec := range panel {
		code := strings.TrimSpace(rec.Participation)
		if code == "" {
			continue
		}
		counts[code]++
	}

	out := make([]domain.ParticipationCount, 0, len(counts))
	for code, n := range counts {
		out = append(out, domain.ParticipationCount{Code: code, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Code < out[j].Code
	})
	return out
}
