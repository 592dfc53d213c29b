package gradebook

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
)

// Extractor turns a gradebook grid into a Dataset.
type Extractor struct {
	layout Layout
	logger *slog.Logger
}

// NewExtractor creates an extractor for the given layout
func NewExtractor(layout Layout, logger *slog.Logger) (*Extractor, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		layout: layout,
		logger: logger.With(slog.String("component", "gradebook")),
	}, nil
}

// Layout returns the layout the extractor slices with.
func (e *Extractor) Layout() Layout {
	return e.layout
}

// Extract locates the header, slices the cross-section and the panel,
// and aggregates and classifies every student. The returned dataset has
// no ID, file name or load time; callers fill those in.
func (e *Extractor) Extract(ctx context.Context, g Grid) (*domain.Dataset, error) {
	pos, err := LocateHeader(g, e.layout)
	if err != nil {
		return nil, err
	}
	e.logger.DebugContext(ctx, "header located",
		slog.Int("label_row", pos.LabelRow),
		slog.Int("date_row", pos.DateRow))

	students, err := ExtractStudents(g, pos, e.layout)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sessions, panel := ExtractPanel(g, pos, e.layout)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summaries := Aggregate(students, panel)
	means := PopulationMeans(summaries)
	thresholds := DefaultThresholds(means)

	e.logger.InfoContext(ctx, "gradebook extracted",
		slog.Int("students", len(students)),
		slog.Int("sessions", len(sessions)),
		slog.Int("records", len(panel)))

	return &domain.Dataset{
		HeaderRow:  pos.LabelRow,
		Students:   ApplyRisk(summaries, thresholds),
		Sessions:   sessions,
		Panel:      panel,
		Means:      means,
		Thresholds: thresholds,
	}, nil
}

// Process loads and extracts an upload in one step.
func (e *Extractor) Process(ctx context.Context, name string, r io.Reader) (*domain.Dataset, error) {
	g, format, err := Load(name, r)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}

	ds, err := e.Extract(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", name, err)
	}
	ds.FileName = name
	ds.Format = format
	return ds, nil
}
