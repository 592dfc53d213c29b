package http

import (
	"context"
	"io"

	"github.com/David1r20/painel-educacional/internal/services"
	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
)

// DashboardServiceInterface is what the dashboard handlers need from the
// service layer.
type DashboardServiceInterface interface {
	Ingest(ctx context.Context, fileName string, r io.Reader) (domain.DatasetInfo, error)
	List(ctx context.Context) []domain.DatasetInfo
	Info(ctx context.Context, id string) (domain.DatasetInfo, error)
	Overview(ctx context.Context, id string) (domain.Overview, error)
	Stats(ctx context.Context, id string) ([]domain.MetricStats, error)
	Students(ctx context.Context, id string) ([]domain.StudentSummary, error)
	Student(ctx context.Context, id, name string) (domain.StudentProfile, error)
	Panel(ctx context.Context, id string, filter services.PanelFilter) ([]domain.SessionRecord, error)
	Trend(ctx context.Context, id string) ([]domain.TrendPoint, error)
	Correlation(ctx context.Context, id string) (domain.Correlation, error)
	Participation(ctx context.Context, id string) ([]domain.ParticipationCount, error)
	Quadrant(ctx context.Context, id string, o services.ThresholdOverride) (domain.Quadrant, error)
	RiskList(ctx context.Context, id string, category domain.RiskCategory, o services.ThresholdOverride) (domain.RiskList, error)
	ExportStudents(ctx context.Context, id string, w io.Writer) error
	ExportPanel(ctx context.Context, id string, w io.Writer) error
	ExportRisk(ctx context.Context, id string, category domain.RiskCategory, o services.ThresholdOverride, w io.Writer) error
	RenderChart(ctx context.Context, id string, opts services.ChartOptions, w io.Writer) error
}

var _ DashboardServiceInterface = (*services.DashboardService)(nil)
