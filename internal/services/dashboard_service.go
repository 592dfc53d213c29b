package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/volatiletech/null/v8"
	"golang.org/x/sync/singleflight"

	"github.com/David1r20/painel-educacional/internal/analytics"
	"github.com/David1r20/painel-educacional/internal/charts"
	"github.com/David1r20/painel-educacional/internal/exporter"
	"github.com/David1r20/painel-educacional/internal/gradebook"
	"github.com/David1r20/painel-educacional/internal/infrastructure"
	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
	"github.com/David1r20/painel-educacional/pkg/contracts/events"
)

// DefaultMaxUploadBytes bounds an upload when no limit is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

// DatasetStore keeps extracted datasets by ID. Lookup is the counted
// read used for uploads; Get serves the dashboard queries.
type DatasetStore interface {
	Get(id string) (*domain.Dataset, bool)
	Lookup(id string) (*domain.Dataset, bool)
	Set(ds *domain.Dataset)
	List() []domain.DatasetInfo
}

// Notifier receives dataset lifecycle events. The websocket hub
// implements it.
type Notifier interface {
	BroadcastUpdate(updateType, subtype, action string, data interface{})
}

// ThresholdOverride replaces the class means as quadrant cut points.
// Nil fields keep the dataset default.
type ThresholdOverride struct {
	Presence *float64
	Homework *float64
}

func (o ThresholdOverride) isZero() bool {
	return o.Presence == nil && o.Homework == nil
}

func (o ThresholdOverride) apply(t domain.Thresholds) domain.Thresholds {
	if o.Presence != nil {
		t.Presence = null.Float64From(*o.Presence)
	}
	if o.Homework != nil {
		t.Homework = null.Float64From(*o.Homework)
	}
	return t
}

// PanelFilter narrows the panel. Zero values match everything.
type PanelFilter struct {
	Student string
	Session int
}

// ChartOptions selects one chart of a dataset.
type ChartOptions struct {
	Name       string
	Student    string
	Thresholds ThresholdOverride
}

// DashboardService ingests gradebook uploads and answers the dashboard
// queries over the datasets it keeps.
type DashboardService struct {
	extractor *gradebook.Extractor
	store     DatasetStore
	notifier  Notifier
	renderer  *charts.Renderer
	metrics   *infrastructure.BusinessMetrics
	maxUpload int64
	group     singleflight.Group
	now       func() time.Time
	logger    *slog.Logger
}

// NewDashboardService creates a dashboard service. notifier may be nil.
func NewDashboardService(extractor *gradebook.Extractor, store DatasetStore, notifier Notifier, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "dashboard_service"))

	logger.Info("DashboardService initialized",
		slog.String("marker_label", extractor.Layout().MarkerLabel),
		slog.Int64("max_upload_bytes", DefaultMaxUploadBytes))

	return &DashboardService{
		extractor: extractor,
		store:     store,
		notifier:  notifier,
		renderer:  charts.NewRenderer(0, 0),
		maxUpload: DefaultMaxUploadBytes,
		now:       time.Now,
		logger:    logger,
	}
}

// WithMaxUploadBytes sets the upload size limit. Non-positive values are
// ignored.
func (s *DashboardService) WithMaxUploadBytes(n int64) *DashboardService {
	if n > 0 {
		s.maxUpload = n
	}
	return s
}

// WithMetrics records extraction and cache metrics.
func (s *DashboardService) WithMetrics(m *infrastructure.BusinessMetrics) *DashboardService {
	s.metrics = m
	return s
}

// WithRenderer sets the chart renderer.
func (s *DashboardService) WithRenderer(r *charts.Renderer) *DashboardService {
	if r != nil {
		s.renderer = r
	}
	return s
}

// Ingest reads one upload and returns the dataset extracted from it. The
// dataset ID is the SHA-256 of the bytes, so re-uploading a file is a
// cache hit and concurrent uploads of the same file share one extraction.
func (s *DashboardService) Ingest(ctx context.Context, fileName string, r io.Reader) (domain.DatasetInfo, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxUpload+1))
	if err != nil {
		return domain.DatasetInfo{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return domain.DatasetInfo{}, ErrEmptyUpload
	}
	if int64(len(data)) > s.maxUpload {
		return domain.DatasetInfo{}, fmt.Errorf("%w: limit is %d bytes", ErrUploadTooLarge, s.maxUpload)
	}

	sum := sha256.Sum256(data)
	id := hex.EncodeToString(sum[:])
	logger := s.logger.With(slog.String("dataset_id", id), slog.String("file_name", fileName))

	if ds, ok := s.store.Lookup(id); ok {
		infrastructure.RecordCacheLookup(ctx, s.metrics, true)
		info := ds.Info()
		info.Cached = true
		logger.InfoContext(ctx, "Upload served from cache")
		s.publish(events.MessageTypeDatasetReady, readyEvent(info))
		return info, nil
	}
	infrastructure.RecordCacheLookup(ctx, s.metrics, false)

	v, err, shared := s.group.Do(id, func() (interface{}, error) {
		start := time.Now()
		// Shared callers wait on this extraction, so the first caller
		// going away must not cancel it.
		ds, err := s.extractor.Process(context.WithoutCancel(ctx), fileName, bytes.NewReader(data))
		format := "unknown"
		if ds != nil {
			format = string(ds.Format)
		}
		infrastructure.RecordExtraction(ctx, s.metrics, format, len(data), time.Since(start), err)
		if err != nil {
			s.publish(events.MessageTypeDatasetFailed, events.DatasetEvent{FileName: fileName, Error: err.Error()})
			return nil, err
		}

		ds.ID = id
		ds.LoadedAt = s.now().UTC()
		s.store.Set(ds)
		s.publish(events.MessageTypeDatasetReady, readyEvent(ds.Info()))
		return ds, nil
	})
	if err != nil {
		logger.WarnContext(ctx, "Upload could not be extracted", slog.String("error", err.Error()))
		return domain.DatasetInfo{}, err
	}

	ds := v.(*domain.Dataset)
	info := ds.Info()
	logger.InfoContext(ctx, "Dataset extracted",
		slog.Int("students", info.Students),
		slog.Int("sessions", info.Sessions),
		slog.Int("records", info.Records),
		slog.Bool("shared", shared))

	return info, nil
}

func readyEvent(info domain.DatasetInfo) events.DatasetEvent {
	return events.DatasetEvent{
		DatasetID: info.ID,
		FileName:  info.FileName,
		Students:  info.Students,
		Sessions:  info.Sessions,
		Cached:    info.Cached,
	}
}

func (s *DashboardService) publish(t events.MessageType, event events.DatasetEvent) {
	if s.notifier == nil {
		return
	}
	action := "ready"
	if t == events.MessageTypeDatasetFailed {
		action = "failed"
	}
	s.notifier.BroadcastUpdate(string(t), "dataset", action, event)
}

// List returns the datasets currently held, newest first.
func (s *DashboardService) List(ctx context.Context) []domain.DatasetInfo {
	return s.store.List()
}

// Dataset returns the full dataset with the given ID.
func (s *DashboardService) Dataset(ctx context.Context, id string) (*domain.Dataset, error) {
	ds, ok := s.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}
	return ds, nil
}

// Info describes a dataset.
func (s *DashboardService) Info(ctx context.Context, id string) (domain.DatasetInfo, error) {
	ds, err := s.Dataset(ctx, id)
	if err != nil {
		return domain.DatasetInfo{}, err
	}
	info := ds.Info()
	info.Cached = true
	return info, nil
}

// Overview returns the headline KPIs.
func (s *DashboardService) Overview(ctx context.Context, id string) (domain.Overview, error) {
	ds, err := s.Dataset(ctx, id)
	if err != nil {
		return domain.Overview{}, err
	}
	return analytics.Overview(ds), nil
}

// Stats returns the descriptive statistics of every metric.
func (s *DashboardService) Stats(ctx context.Context, id string) ([]domain.MetricStats, error) {
	ds, err := s.Dataset(ctx, id)
	if err != nil {
		return nil, err
	}
	return analytics.Stats(ds.Students), nil
}

// Students returns the cross-section table.
func (s *DashboardService) Students(ctx context.Context, id string) ([]domain.StudentSummary, error) {
	ds, err := s.Dataset(ctx, id)
	if err != nil {
		return nil, err
	}
	return ds.Students, nil
}

// Student returns the profile of one student.
func (s *DashboardService) Student(ctx context.Context, id, name string) (domain.StudentProfile, error) {
	ds, err := s.Dataset(ctx, id)
	if err != nil {
		return domain.StudentProfile{}, err
	}
	profile, ok := analytics.Profile(ds, name)
	if !ok {
		return domain.StudentProfile{}, fmt.Errorf("%w: %s", ErrStudentNotFound, name)
	}
	return profile, nil
}

// Panel returns the panel rows that match the filter, in panel order.
func (s *DashboardService) Panel(ctx context.Context, id string, filter PanelFilter) ([]domain.SessionRecord, error) {
	ds, err := s.Dataset(ctx, id)
	if err != nil {
		return nil, err
	}
	if filter.Student == "" && filter.Session == 0 {
		return ds.Panel, nil
	}

	out := []domain.SessionRecord{}
	for _, r := range ds.Panel {
		if filter.Student != "" && r.Student != filter.Student {
			continue
		}
		if filter.Session != 0 && r.SessionIndex != filter.Session {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Trend returns the class presence per dated session.
func (s *DashboardService) Trend(ctx context.Context, id string) ([]domain.TrendPoint, error) {
	ds, err := s.Dataset(ctx, id)
	if err != nil {
		return nil, err
	}
	return analytics.Trend(ds.Panel), nil
}

// Correlation returns the presence × final grade view.
func (s *DashboardService) Correlation(ctx context.Context, id string) (domain.Correlation, error) {
	ds, err := s.Dataset(ctx, id)
	if err != nil {
		return domain.Correlation{}, err
	}
	return analytics.Correlate(ds.Students), nil
}

// Participation returns the participation code counts.
func (s *DashboardService) Participation(ctx context.Context, id string) ([]domain.ParticipationCount, error) {
	ds, err := s.Dataset(ctx, id)
	if err != nil {
		return nil, err
	}
	return analytics.Participation(ds.Panel), nil
}

// classified returns the students classified against the effective
// thresholds. Without an override the stored classification is used.
func (s *DashboardService) classified(ds *domain.Dataset, o ThresholdOverride) ([]domain.StudentSummary, domain.Thresholds) {
	if o.isZero() {
		return ds.Students, ds.Thresholds
	}
	t := o.apply(ds.Thresholds)
	return gradebook.ApplyRisk(ds.Students, t), t
}

// Quadrant returns the risk matrix.
func (s *DashboardService) Quadrant(ctx context.Context, id string, o ThresholdOverride) (domain.Quadrant, error) {
	ds, err := s.Dataset(ctx, id)
	if err != nil {
		return domain.Quadrant{}, err
	}
	students, t := s.classified(ds, o)
	return analytics.Quadrant(students, t), nil
}

// RiskList returns the call list of one category.
func (s *DashboardService) RiskList(ctx context.Context, id string, category domain.RiskCategory, o ThresholdOverride) (domain.RiskList, error) {
	if !category.IsValid() {
		return domain.RiskList{}, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	ds, err := s.Dataset(ctx, id)
	if err != nil {
		return domain.RiskList{}, err
	}
	students, _ := s.classified(ds, o)
	return analytics.RiskList(students, category), nil
}

// ExportStudents writes the student table as CSV.
func (s *DashboardService) ExportStudents(ctx context.Context, id string, w io.Writer) error {
	ds, err := s.Dataset(ctx, id)
	if err != nil {
		return err
	}
	headers, records := exporter.Students(ds.Students)
	return s.writeCSV(w, headers, records)
}

// ExportPanel writes the panel as CSV.
func (s *DashboardService) ExportPanel(ctx context.Context, id string, w io.Writer) error {
	ds, err := s.Dataset(ctx, id)
	if err != nil {
		return err
	}
	headers, records := exporter.Panel(ds.Panel)
	return s.writeCSV(w, headers, records)
}

func (s *DashboardService) writeCSV(w io.Writer, headers []string, records [][]string) error {
	err := exporter.NewCSVWriter().WithLogger(s.logger).WriteCSV(w, exporter.WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
	if err != nil {
		return fmt.Errorf("failed to export csv: %w", err)
	}
	return nil
}

// ExportRisk writes the call list of one category as an Excel workbook.
func (s *DashboardService) ExportRisk(ctx context.Context, id string, category domain.RiskCategory, o ThresholdOverride, w io.Writer) error {
	list, err := s.RiskList(ctx, id, category, o)
	if err != nil {
		return err
	}
	if err := exporter.WriteRiskXLSX(w, list); err != nil {
		return fmt.Errorf("failed to export risk list: %w", err)
	}
	return nil
}

// RenderChart draws one chart of a dataset as SVG.
func (s *DashboardService) RenderChart(ctx context.Context, id string, opts ChartOptions, w io.Writer) error {
	ds, err := s.Dataset(ctx, id)
	if err != nil {
		return err
	}

	switch opts.Name {
	case charts.ChartTrend:
		err = s.renderer.Trend(w, analytics.Trend(ds.Panel))
	case charts.ChartCorrelation:
		err = s.renderer.Correlation(w, analytics.Correlate(ds.Students))
	case charts.ChartParticipation:
		err = s.renderer.Participation(w, analytics.Participation(ds.Panel))
	case charts.ChartQuadrant:
		students, t := s.classified(ds, opts.Thresholds)
		err = s.renderer.Quadrant(w, analytics.Quadrant(students, t))
	case charts.ChartStudent:
		profile, ok := analytics.Profile(ds, opts.Student)
		if !ok {
			return fmt.Errorf("%w: %s", ErrStudentNotFound, opts.Student)
		}
		err = s.renderer.Student(w, profile)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChart, opts.Name)
	}

	if err != nil && !errors.Is(err, charts.ErrNoData) {
		s.logger.ErrorContext(ctx, "Chart rendering failed",
			slog.String("dataset_id", id),
			slog.String("chart", opts.Name),
			slog.String("error", err.Error()))
	}
	return err
}
