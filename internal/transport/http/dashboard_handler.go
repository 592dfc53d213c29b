package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "github.com/David1r20/painel-educacional/internal/errors"
	customMiddleware "github.com/David1r20/painel-educacional/internal/middleware"
	"github.com/David1r20/painel-educacional/internal/services"
	api "github.com/David1r20/painel-educacional/pkg/contracts/api/v1"
	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
)

const (
	// UploadField is the multipart field carrying the gradebook.
	UploadField = "file"

	// multipartOverhead is the slack allowed on top of the upload limit
	// for multipart boundaries and headers.
	multipartOverhead = 64 << 10

	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeSVG  = "image/svg+xml"
)

// envelope is the JSON body of every successful API response.
type envelope struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
	Count  *int        `json:"count,omitempty"`
}

func success(data interface{}) envelope {
	return envelope{Status: "success", Data: data}
}

func successList(data interface{}, n int) envelope {
	return envelope{Status: "success", Data: data, Count: &n}
}

// DashboardHandler serves the dataset API.
type DashboardHandler struct {
	service        DashboardServiceInterface
	validator      *customMiddleware.Validator
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewDashboardHandler creates the dataset API handler. maxUploadBytes
// bounds request bodies on upload.
func NewDashboardHandler(service DashboardServiceInterface, validator *customMiddleware.Validator, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service:        service,
		validator:      validator,
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "dashboard_handler")),
	}
}

// Routes returns the dataset routes, mounted under /api/datasets.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListDatasets)
	r.With(
		customMiddleware.MaxBodySize(h.maxUploadBytes+multipartOverhead),
		customMiddleware.ContentTypeValidator(h.errorHandler, "multipart/form-data"),
		customMiddleware.TraceMiddleware("dataset.upload"),
	).Post("/", h.Upload)

	r.Route("/{datasetID}", func(r chi.Router) {
		r.Get("/", h.GetDataset)
		r.Get("/overview", h.GetOverview)
		r.Get("/stats", h.GetStats)
		r.Get("/students", h.GetStudents)
		r.Get("/students/{name}", h.GetStudent)
		r.Get("/panel", h.GetPanel)
		r.Get("/trend", h.GetTrend)
		r.Get("/correlation", h.GetCorrelation)
		r.Get("/participation", h.GetParticipation)
		r.Get("/quadrant", h.GetQuadrant)
		r.Get("/risk/{category}", h.GetRiskList)

		r.Route("/export", func(r chi.Router) {
			r.Get("/students.csv", h.ExportStudents)
			r.Get("/panel.csv", h.ExportPanel)
			r.Get("/risk.xlsx", h.ExportRisk)
		})

		r.With(customMiddleware.TraceMiddleware("dataset.chart")).Get("/charts/{chart}.svg", h.GetChart)
	})

	return r
}

// ListDatasets handles GET /api/datasets
func (h *DashboardHandler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	list := h.service.List(r.Context())
	render.JSON(w, r, successList(list, len(list)))
}

// Upload handles POST /api/datasets. A new dataset answers 201, a file
// that was already loaded answers 200 with the cached dataset.
func (h *DashboardHandler) Upload(w http.ResponseWriter, r *http.Request) {
	info, err := h.ingest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	status := http.StatusCreated
	if info.Cached {
		status = http.StatusOK
	}
	w.Header().Set("Location", "/api/datasets/"+info.ID)
	render.Status(r, status)
	render.JSON(w, r, success(info))
}

// ingest reads the multipart upload and hands it to the service. It is
// shared by the API and the HTML form.
func (h *DashboardHandler) ingest(r *http.Request) (domain.DatasetInfo, error) {
	file, header, err := r.FormFile(UploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return domain.DatasetInfo{}, err
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			return domain.DatasetInfo{}, apierrors.ErrMissingFile
		default:
			return domain.DatasetInfo{}, apierrors.InvalidRequestWithError(err)
		}
	}
	defer file.Close()

	req := api.UploadRequest{FileName: header.Filename}
	if err := h.validator.ValidateStruct(req); err != nil {
		return domain.DatasetInfo{}, err
	}

	h.logger.InfoContext(r.Context(), "gradebook upload received",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("file_name", req.FileName),
		slog.Int64("size", header.Size))

	return h.service.Ingest(r.Context(), req.FileName, file)
}

// GetDataset handles GET /api/datasets/{datasetID}
func (h *DashboardHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Info(r.Context(), chi.URLParam(r, "datasetID"))
	h.respond(w, r, info, err)
}

// GetOverview handles GET /api/datasets/{datasetID}/overview
func (h *DashboardHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context(), chi.URLParam(r, "datasetID"))
	h.respond(w, r, overview, err)
}

// GetStats handles GET /api/datasets/{datasetID}/stats
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), chi.URLParam(r, "datasetID"))
	h.respondList(w, r, stats, len(stats), err)
}

// GetStudents handles GET /api/datasets/{datasetID}/students
func (h *DashboardHandler) GetStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.service.Students(r.Context(), chi.URLParam(r, "datasetID"))
	h.respondList(w, r, students, len(students), err)
}

// GetStudent handles GET /api/datasets/{datasetID}/students/{name}
func (h *DashboardHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || strings.TrimSpace(name) == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("name", "name must be a student name"))
		return
	}
	profile, err := h.service.Student(r.Context(), chi.URLParam(r, "datasetID"), name)
	h.respond(w, r, profile, err)
}

// GetPanel handles GET /api/datasets/{datasetID}/panel?student=&session=
func (h *DashboardHandler) GetPanel(w http.ResponseWriter, r *http.Request) {
	req := api.PanelRequest{Student: strings.TrimSpace(r.URL.Query().Get("student"))}
	if raw := strings.TrimSpace(r.URL.Query().Get("session")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("session", "session must be at least 1"))
			return
		}
		req.Session = n
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rows, err := h.service.Panel(r.Context(), chi.URLParam(r, "datasetID"), services.PanelFilter{
		Student: req.Student,
		Session: req.Session,
	})
	h.respondList(w, r, rows, len(rows), err)
}

// GetTrend handles GET /api/datasets/{datasetID}/trend
func (h *DashboardHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.Trend(r.Context(), chi.URLParam(r, "datasetID"))
	h.respondList(w, r, points, len(points), err)
}

// GetCorrelation handles GET /api/datasets/{datasetID}/correlation
func (h *DashboardHandler) GetCorrelation(w http.ResponseWriter, r *http.Request) {
	corr, err := h.service.Correlation(r.Context(), chi.URLParam(r, "datasetID"))
	h.respond(w, r, corr, err)
}

// GetParticipation handles GET /api/datasets/{datasetID}/participation
func (h *DashboardHandler) GetParticipation(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.Participation(r.Context(), chi.URLParam(r, "datasetID"))
	h.respondList(w, r, counts, len(counts), err)
}

// GetQuadrant handles GET /api/datasets/{datasetID}/quadrant?presence=&homework=
func (h *DashboardHandler) GetQuadrant(w http.ResponseWriter, r *http.Request) {
	override, err := h.thresholds(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	quadrant, err := h.service.Quadrant(r.Context(), chi.URLParam(r, "datasetID"), override)
	h.respond(w, r, quadrant, err)
}

// GetRiskList handles GET /api/datasets/{datasetID}/risk/{category}
func (h *DashboardHandler) GetRiskList(w http.ResponseWriter, r *http.Request) {
	category, override, err := h.riskRequest(r, chi.URLParam(r, "category"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	list, err := h.service.RiskList(r.Context(), chi.URLParam(r, "datasetID"), category, override)
	h.respond(w, r, list, err)
}

// ExportStudents handles GET /api/datasets/{datasetID}/export/students.csv
func (h *DashboardHandler) ExportStudents(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := h.service.ExportStudents(r.Context(), chi.URLParam(r, "datasetID"), &buf)
	h.attachment(w, r, &buf, contentTypeCSV, "students.csv", err)
}

// ExportPanel handles GET /api/datasets/{datasetID}/export/panel.csv
func (h *DashboardHandler) ExportPanel(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := h.service.ExportPanel(r.Context(), chi.URLParam(r, "datasetID"), &buf)
	h.attachment(w, r, &buf, contentTypeCSV, "panel.csv", err)
}

// ExportRisk handles GET /api/datasets/{datasetID}/export/risk.xlsx?category=
func (h *DashboardHandler) ExportRisk(w http.ResponseWriter, r *http.Request) {
	category, override, err := h.riskRequest(r, r.URL.Query().Get("category"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	var buf bytes.Buffer
	err = h.service.ExportRisk(r.Context(), chi.URLParam(r, "datasetID"), category, override, &buf)
	h.attachment(w, r, &buf, contentTypeXLSX, fmt.Sprintf("risk-%s.xlsx", category), err)
}

// GetChart handles GET /api/datasets/{datasetID}/charts/{chart}.svg
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	thresholds, err := parseThresholds(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	req := api.ChartRequest{
		ThresholdsRequest: thresholds,
		Chart:             chi.URLParam(r, "chart"),
		Student:           strings.TrimSpace(r.URL.Query().Get("student")),
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	err = h.service.RenderChart(r.Context(), chi.URLParam(r, "datasetID"), services.ChartOptions{
		Name:       req.Chart,
		Student:    req.Student,
		Thresholds: override(thresholds),
	}, &buf)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeSVG)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *DashboardHandler) respond(w http.ResponseWriter, r *http.Request, data interface{}, err error) {
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, success(data))
}

func (h *DashboardHandler) respondList(w http.ResponseWriter, r *http.Request, data interface{}, n int, err error) {
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, successList(data, n))
}

// attachment sends a fully rendered export. Exports are buffered so a
// failure can still become a problem response.
func (h *DashboardHandler) attachment(w http.ResponseWriter, r *http.Request, buf *bytes.Buffer, contentType, fileName string, err error) {
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (h *DashboardHandler) thresholds(r *http.Request) (services.ThresholdOverride, error) {
	req, err := parseThresholds(r)
	if err != nil {
		return services.ThresholdOverride{}, err
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return services.ThresholdOverride{}, err
	}
	return override(req), nil
}

func (h *DashboardHandler) riskRequest(r *http.Request, category string) (domain.RiskCategory, services.ThresholdOverride, error) {
	thresholds, err := parseThresholds(r)
	if err != nil {
		return "", services.ThresholdOverride{}, err
	}
	req := api.RiskListRequest{ThresholdsRequest: thresholds, Category: strings.TrimSpace(category)}
	if err := h.validator.ValidateStruct(req); err != nil {
		return "", services.ThresholdOverride{}, err
	}
	return domain.RiskCategory(req.Category), override(thresholds), nil
}

// parseThresholds reads the presence and homework query parameters.
// Decimal commas are accepted.
func parseThresholds(r *http.Request) (api.ThresholdsRequest, error) {
	var req api.ThresholdsRequest
	q := r.URL.Query()

	parse := func(key string) (*float64, error) {
		raw := strings.TrimSpace(q.Get(key))
		if raw == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, apierrors.ErrValidation(key, key+" must be a number between 0 and 1")
		}
		return &v, nil
	}

	var err error
	if req.Presence, err = parse("presence"); err != nil {
		return req, err
	}
	if req.Homework, err = parse("homework"); err != nil {
		return req, err
	}
	return req, nil
}

func override(req api.ThresholdsRequest) services.ThresholdOverride {
	return services.ThresholdOverride{Presence: req.Presence, Homework: req.Homework}
}
