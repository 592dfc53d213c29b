package analytics

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
)

// OverallGroup names the fit over every point.
const OverallGroup = "all"

// Fit regresses y on x by ordinary least squares. With fewer than two
// points or no spread in x the fit is returned with Valid false.
func Fit(group string, x, y []float64) domain.RegressionFit {
	fit := domain.RegressionFit{Group: group, N: len(x)}
	if len(x) == 0 || len(x) != len(y) {
		return fit
	}

	fit.XMin = floats.Min(x)
	fit.XMax = floats.Max(x)
	if len(x) < 2 || fit.XMin == fit.XMax {
		return fit
	}

	fit.Intercept, fit.Slope = stat.LinearRegression(x, y, nil, false)
	fit.RSquared = stat.RSquared(x, y, nil, fit.Intercept, fit.Slope)
	fit.Valid = true
	return fit
}

// Correlate places every student with a presence mean on the presence ×
// final grade plane and fits one line overall and one per final status.
func Correlate(students []domain.StudentSummary) domain.Correlation {
	var (
		points []domain.CorrelationPoint
		xs, ys []float64
		groups = make(map[string][2][]float64)
	)

	for _, s := range students {
		if !s.PresenceScore.Valid {
			continue
		}
		points = append(points, domain.CorrelationPoint{
			Student:     s.Name,
			Presence:    s.PresenceScore.Float64,
			FinalGrade:  s.FinalGrade,
			FinalStatus: s.FinalStatus,
		})
		xs = append(xs, s.PresenceScore.Float64)
		ys = append(ys, s.FinalGrade)

		g := groups[s.FinalStatus]
		g[0] = append(g[0], s.PresenceScore.Float64)
		g[1] = append(g[1], s.FinalGrade)
		groups[s.FinalStatus] = g
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	fits := make([]domain.RegressionFit, 0, len(names))
	for _, name := range names {
		g := groups[name]
		fits = append(fits, Fit(name, g[0], g[1]))
	}

	return domain.Correlation{
		Points:  points,
		Overall: Fit(OverallGroup, xs, ys),
		Groups:  fits,
	}
}
