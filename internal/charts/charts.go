// Package charts renders the dashboard figures as SVG with go-chart.
package charts

import (
	"errors"
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Chart names accepted by Render.
const (
	ChartTrend         = "trend"
	ChartCorrelation   = "correlation"
	ChartParticipation = "participation"
	ChartQuadrant      = "quadrant"
	ChartStudent       = "student"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to plot")

// Names lists every chart in display order.
func Names() []string {
	return []string{ChartTrend, ChartCorrelation, ChartParticipation, ChartQuadrant, ChartStudent}
}

// Renderer draws charts at a fixed size.
type Renderer struct {
	width  int
	height int
}

// NewRenderer creates a renderer. Non-positive sizes fall back to 800x450.
func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 450
	}
	return &Renderer{width: width, height: height}
}

func (r *Renderer) render(w io.Writer, ch chart.Chart) error {
	ch.Width = r.width
	ch.Height = r.height
	ch.Background = chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}
	ch.Elements = []chart.Renderable{chart.LegendThin(&ch)}

	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render %q: %w", ch.Title, err)
	}
	return nil
}

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color, size float64) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    size,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color, dashed bool) chart.Style {
	st := chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
	}
	if dashed {
		st.StrokeDashArray = []float64{5, 5}
	}
	return st
}

// hexColor parses "#rrggbb".
func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(hex)
}

func percentFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f%%", f*100)
	}
	return ""
}

func gradeFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.1f", f)
	}
	return ""
}

// unitRange is the [0,1] axis of score means, with a little air.
func unitRange() *chart.ContinuousRange {
	return &chart.ContinuousRange{Min: -0.05, Max: 1.05}
}

// gradeRange spans 0 to the highest grade, at least 10.
func gradeRange(grades []float64) *chart.ContinuousRange {
	top := 10.0
	for _, g := range grades {
		if g > top {
			top = g
		}
	}
	return &chart.ContinuousRange{Min: 0, Max: top * 1.05}
}
