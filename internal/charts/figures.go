package charts

import (
	"fmt"
	"io"
	"sort"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
)

var participationColors = map[string]string{
	":-D": "#66c2a5",
	":-/": "#fc8d62",
	":-&": "#d53e4f",
}

// Trend draws the class mean presence per dated session.
func (r *Renderer) Trend(w io.Writer, points []domain.TrendPoint) error {
	if len(points) == 0 {
		return ErrNoData
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	labels := make([]string, len(points))
	for i, p := range points {
		xs[i] = float64(i + 1)
		ys[i] = p.MeanPresence
		labels[i] = p.Date.Format("02/01")
	}

	st := lineStyle(chart.ColorBlue, false)
	st.DotWidth = 4
	st.DotColor = chart.ColorBlue

	return r.render(w, chart.Chart{
		Title: "Evolução da Presença da Turma",
		XAxis: chart.XAxis{Name: "Data", Ticks: indexTicks(labels)},
		YAxis: chart.YAxis{
			Name:           "Presença média",
			Range:          unitRange(),
			ValueFormatter: percentFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Presença média", XValues: xs, YValues: ys, Style: st},
		},
	})
}

// Correlation draws presence against final grade, one colour per final
// status, with the least squares line of every valid fit.
func (r *Renderer) Correlation(w io.Writer, corr domain.Correlation) error {
	if len(corr.Points) == 0 {
		return ErrNoData
	}

	byStatus := make(map[string][]domain.CorrelationPoint)
	var grades []float64
	for _, p := range corr.Points {
		byStatus[p.FinalStatus] = append(byStatus[p.FinalStatus], p)
		grades = append(grades, p.FinalGrade)
	}
	statuses := make([]string, 0, len(byStatus))
	for s := range byStatus {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)

	colors := make(map[string]drawing.Color, len(statuses))
	var series []chart.Series
	for i, status := range statuses {
		col := chart.GetDefaultColor(i)
		colors[status] = col

		pts := byStatus[status]
		xs := make([]float64, len(pts))
		ys := make([]float64, len(pts))
		for j, p := range pts {
			xs[j], ys[j] = p.Presence, p.FinalGrade
		}
		series = append(series, chart.ContinuousSeries{Name: statusName(status), XValues: xs, YValues: ys, Style: pointStyle(col, 5)})
	}

	for _, fit := range corr.Groups {
		if fit.Valid {
			series = append(series, fitSeries(statusName(fit.Group), fit, lineStyle(colors[fit.Group], true)))
		}
	}
	if corr.Overall.Valid {
		series = append(series, fitSeries("geral", corr.Overall, lineStyle(chart.ColorBlack, false)))
	}

	return r.render(w, chart.Chart{
		Title:  "Presença x Nota Final",
		XAxis:  chart.XAxis{Name: "Presença", Range: unitRange(), ValueFormatter: percentFormatter},
		YAxis:  chart.YAxis{Name: "Nota Final", Range: gradeRange(grades), ValueFormatter: gradeFormatter},
		Series: series,
	})
}

func fitSeries(name string, fit domain.RegressionFit, st chart.Style) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name:    fmt.Sprintf("OLS %s (R² %.2f)", name, fit.RSquared),
		XValues: []float64{fit.XMin, fit.XMax},
		YValues: []float64{fit.Predict(fit.XMin), fit.Predict(fit.XMax)},
		Style:   st,
	}
}

func statusName(s string) string {
	if s == "" {
		return "(sem situação)"
	}
	return s
}

// Participation draws one bar per participation code.
func (r *Renderer) Participation(w io.Writer, counts []domain.ParticipationCount) error {
	if len(counts) == 0 {
		return ErrNoData
	}

	top := 1.0
	bars := make([]chart.Value, len(counts))
	for i, c := range counts {
		col := drawing.ColorFromHex("808080")
		if hex, ok := participationColors[c.Code]; ok {
			col = hexColor(hex)
		}
		bars[i] = chart.Value{
			Label: c.Code,
			Value: float64(c.Count),
			Style: chart.Style{FillColor: col, StrokeColor: col},
		}
		if v := float64(c.Count); v > top {
			top = v
		}
	}

	bc := chart.BarChart{
		Title:      "Clima de Participação",
		Width:      r.width,
		Height:     r.height,
		BarWidth:   60,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1}},
		Bars:       bars,
	}
	if err := bc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render %q: %w", bc.Title, err)
	}
	return nil
}

// Quadrant draws presence against homework, one colour per risk
// category, dot size following the final grade, with the thresholds as
// dashed lines.
func (r *Renderer) Quadrant(w io.Writer, q domain.Quadrant) error {
	byRisk := make(map[domain.RiskCategory][]domain.QuadrantPoint)
	plotted := 0
	for _, p := range q.Points {
		if !p.Presence.Valid || !p.Homework.Valid {
			continue
		}
		byRisk[p.Risk] = append(byRisk[p.Risk], p)
		plotted++
	}
	if plotted == 0 {
		return ErrNoData
	}

	var series []chart.Series
	for _, cat := range domain.RiskCategories() {
		pts := byRisk[cat]
		if len(pts) == 0 {
			continue
		}
		xs := make([]float64, len(pts))
		ys := make([]float64, len(pts))
		sizes := make([]float64, len(pts))
		for i, p := range pts {
			xs[i], ys[i], sizes[i] = p.Presence.Float64, p.Homework.Float64, p.MarkerSize
		}
		st := pointStyle(hexColor(cat.Color()), 5)
		st.DotWidthProvider = func(_, _ chart.Range, index int, _, _ float64) float64 {
			return 2 + sizes[index]/1.5
		}
		series = append(series, chart.ContinuousSeries{Name: cat.Label(), XValues: xs, YValues: ys, Style: st})
	}

	guide := lineStyle(chart.ColorAlternateGray, true)
	if t := q.Thresholds.Presence; t.Valid {
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("Presença média %.0f%%", t.Float64*100),
			XValues: []float64{t.Float64, t.Float64},
			YValues: []float64{0, 1},
			Style:   guide,
		})
	}
	if t := q.Thresholds.Homework; t.Valid {
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("Homework médio %.0f%%", t.Float64*100),
			XValues: []float64{0, 1},
			YValues: []float64{t.Float64, t.Float64},
			Style:   guide,
		})
	}

	return r.render(w, chart.Chart{
		Title:  "Matriz de Risco",
		XAxis:  chart.XAxis{Name: "Presença", Range: unitRange(), ValueFormatter: percentFormatter},
		YAxis:  chart.YAxis{Name: "Homework", Range: unitRange(), ValueFormatter: percentFormatter},
		Series: series,
	})
}

// Student draws the presence and homework scores of one student per
// session, in sheet order. Sessions without a score leave a gap.
func (r *Renderer) Student(w io.Writer, p domain.StudentProfile) error {
	if len(p.History) == 0 {
		return ErrNoData
	}

	labels := make([]string, len(p.History))
	var px, py, hx, hy []float64
	for i, rec := range p.History {
		x := float64(i + 1)
		labels[i] = rec.SessionLabel
		if rec.PresenceScore.Valid {
			px = append(px, x)
			py = append(py, rec.PresenceScore.Float64)
		}
		if rec.HomeworkScore.Valid {
			hx = append(hx, x)
			hy = append(hy, rec.HomeworkScore.Float64)
		}
	}
	if len(px) == 0 && len(hx) == 0 {
		return ErrNoData
	}

	var series []chart.Series
	if len(px) > 0 {
		series = append(series, chart.ContinuousSeries{Name: "Presença", XValues: px, YValues: py, Style: pointStyle(chart.ColorBlue, 6)})
	}
	if len(hx) > 0 {
		series = append(series, chart.ContinuousSeries{Name: "Homework", XValues: hx, YValues: hy, Style: pointStyle(chart.ColorOrange, 4)})
	}

	return r.render(w, chart.Chart{
		Title:  "Histórico de " + p.Summary.Name,
		XAxis:  chart.XAxis{Name: "Aula", Ticks: indexTicks(labels)},
		YAxis:  chart.YAxis{Range: unitRange(), ValueFormatter: percentFormatter},
		Series: series,
	})
}

// indexTicks labels the positions 1..n. Blank ticks half a step outside
// both ends keep the axis range open when n is 1.
func indexTicks(labels []string) []chart.Tick {
	ticks := make([]chart.Tick, 0, len(labels)+2)
	ticks = append(ticks, chart.Tick{Value: 0.5})
	for i, l := range labels {
		ticks = append(ticks, chart.Tick{Value: float64(i + 1), Label: l})
	}
	return append(ticks, chart.Tick{Value: float64(len(labels)) + 0.5})
}
