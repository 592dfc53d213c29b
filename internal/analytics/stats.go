package analytics

import (
	"sort"

	"github.com/volatiletech/null/v8"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
)

// Metric names used by Stats.
const (
	MetricFinalGrade    = "final_grade"
	MetricPresence      = "presence"
	MetricHomework      = "homework"
	MetricParticipation = "participation"
)

// Describe summarises values. StdDev is the sample standard deviation and
// is zero for fewer than two values.
func Describe(metric string, values []float64) domain.MetricStats {
	out := domain.MetricStats{Metric: metric, N: len(values)}
	if len(values) == 0 {
		return out
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	out.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		out.StdDev = stat.StdDev(sorted, nil)
	}
	out.Min = floats.Min(sorted)
	out.Max = floats.Max(sorted)
	out.Median = median(sorted)
	return out
}

// median of an ascending slice, averaging the middle pair.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Stats describes final grade, presence, homework and participation
// across students.
func Stats(students []domain.StudentSummary) []domain.MetricStats {
	grades := make([]float64, 0, len(students))
	var presence, homework, participation []float64
	for _, s := range students {
		grades = append(grades, s.FinalGrade)
		presence = appendValid(presence, s.PresenceScore)
		homework = appendValid(homework, s.HomeworkScore)
		participation = appendValid(participation, s.ParticipationScore)
	}

	return []domain.MetricStats{
		Describe(MetricFinalGrade, grades),
		Describe(MetricPresence, presence),
		Describe(MetricHomework, homework),
		Describe(MetricParticipation, participation),
	}
}

func appendValid(dst []float64, v null.Float64) []float64 {
	if v.Valid {
		return append(dst, v.Float64)
	}
	return dst
}

// meanOf is the mean of the valid values, null when there are none.
func meanOf(values []null.Float64) null.Float64 {
	var xs []float64
	for _, v := range values {
		xs = appendValid(xs, v)
	}
	if len(xs) == 0 {
		return null.Float64{}
	}
	return null.Float64From(stat.Mean(xs, nil))
}
