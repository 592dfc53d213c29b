package http

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/volatiletech/null/v8"

	"github.com/David1r20/painel-educacional/internal/charts"
	apierrors "github.com/David1r20/painel-educacional/internal/errors"
	customMiddleware "github.com/David1r20/painel-educacional/internal/middleware"
	"github.com/David1r20/painel-educacional/internal/services"
	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"pct": func(v null.Float64) string {
		if !v.Valid {
			return "—"
		}
		return fmt.Sprintf("%.0f%%", v.Float64*100)
	},
	"grade": func(v null.Float64) string {
		if !v.Valid {
			return "—"
		}
		return fmt.Sprintf("%.1f", v.Float64)
	},
	"riskLabel": func(c domain.RiskCategory) string { return c.Label() },
}

func parsePage(name string) *template.Template {
	return template.Must(template.New(name).Funcs(templateFuncs).
		ParseFS(templateFS, "templates/layout.html", "templates/"+name))
}

type uploadPage struct {
	Title       string
	Error       string
	Datasets    []domain.DatasetInfo
	MaxUploadMB int64
}

type riskRow struct {
	Category domain.RiskCategory
	Label    string
	Color    string
	Count    int
}

type dashboardPage struct {
	Title      string
	Info       domain.DatasetInfo
	Overview   domain.Overview
	Students   []domain.StudentSummary
	Categories []riskRow
	Charts     []string
}

// HTMLHandler serves the server-rendered upload page and dashboard.
type HTMLHandler struct {
	service      DashboardServiceInterface
	dashboard    *DashboardHandler
	errorHandler *apierrors.ErrorHandler
	upload       *template.Template
	page         *template.Template
	logger       *slog.Logger
}

// NewHTMLHandler creates the page handler. Uploads go through dashboard so
// the form and the API validate files the same way.
func NewHTMLHandler(service DashboardServiceInterface, dashboard *DashboardHandler, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *HTMLHandler {
	return &HTMLHandler{
		service:      service,
		dashboard:    dashboard,
		errorHandler: errorHandler,
		upload:       parsePage("upload.html"),
		page:         parsePage("dashboard.html"),
		logger:       logger.With(slog.String("component", "html_handler")),
	}
}

// Routes registers the page routes on r.
func (h *HTMLHandler) Routes(r chi.Router) {
	r.Get("/", h.Index)
	r.With(customMiddleware.MaxBodySize(h.dashboard.maxUploadBytes+multipartOverhead)).
		Post("/upload", h.Upload)
}

// Index handles GET /. With ?dataset= it shows that dataset's dashboard,
// otherwise the upload page.
func (h *HTMLHandler) Index(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("dataset"))
	if id == "" {
		h.renderUpload(w, r, http.StatusOK, "")
		return
	}

	page, err := h.dashboardPage(r, id)
	if err != nil {
		if errors.Is(err, services.ErrDatasetNotFound) {
			h.renderUpload(w, r, http.StatusNotFound, "Planilha não encontrada. Envie o arquivo novamente.")
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.render(w, r, h.page, http.StatusOK, page)
}

// Upload handles POST /upload from the form and redirects to the
// dashboard of the new dataset.
func (h *HTMLHandler) Upload(w http.ResponseWriter, r *http.Request) {
	info, err := h.dashboard.ingest(r)
	if err != nil {
		problem := h.errorHandler.ErrorToProblem(err, r)
		h.logger.WarnContext(r.Context(), "form upload rejected",
			slog.Int("status", problem.Status),
			slog.String("error", err.Error()))
		h.renderUpload(w, r, problem.Status, problem.Detail)
		return
	}
	http.Redirect(w, r, "/?dataset="+info.ID, http.StatusSeeOther)
}

func (h *HTMLHandler) dashboardPage(r *http.Request, id string) (dashboardPage, error) {
	ctx := r.Context()
	info, err := h.service.Info(ctx, id)
	if err != nil {
		return dashboardPage{}, err
	}
	overview, err := h.service.Overview(ctx, id)
	if err != nil {
		return dashboardPage{}, err
	}
	students, err := h.service.Students(ctx, id)
	if err != nil {
		return dashboardPage{}, err
	}

	page := dashboardPage{
		Title:    info.FileName,
		Info:     info,
		Overview: overview,
		Students: students,
		Charts: []string{
			charts.ChartTrend,
			charts.ChartCorrelation,
			charts.ChartParticipation,
			charts.ChartQuadrant,
		},
	}
	for _, c := range domain.RiskCategories() {
		page.Categories = append(page.Categories, riskRow{
			Category: c,
			Label:    c.Label(),
			Color:    c.Color(),
			Count:    overview.RiskCounts[c],
		})
	}
	return page, nil
}

func (h *HTMLHandler) renderUpload(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, r, h.upload, status, uploadPage{
		Title:       "Carregar planilha",
		Error:       message,
		Datasets:    h.service.List(r.Context()),
		MaxUploadMB: h.dashboard.maxUploadBytes >> 20,
	})
}

func (h *HTMLHandler) render(w http.ResponseWriter, r *http.Request, tmpl *template.Template, status int, data interface{}) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.errorHandler.HandleError(w, r, fmt.Errorf("failed to render page: %w", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
