package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/go-chi/render"

	"github.com/David1r20/painel-educacional/internal/charts"
	"github.com/David1r20/painel-educacional/internal/gradebook"
	"github.com/David1r20/painel-educacional/internal/infrastructure"
	"github.com/David1r20/painel-educacional/internal/services"
)

// Common error types following RFC 7807
const (
	TypeValidation       = "/errors/validation"
	TypeNotFound         = "/errors/not-found"
	TypeRateLimit        = "/errors/rate-limit"
	TypeInternal         = "/errors/internal"
	TypeTimeout          = "/errors/timeout"
	TypePayloadTooLarge  = "/errors/payload-too-large"
	TypeMethodNotAllowed = "/errors/method-not-allowed"
)

// Domain-specific error types
const (
	TypeDatasetNotFound   = "/errors/dataset/not-found"
	TypeStudentNotFound   = "/errors/student/not-found"
	TypeEmptyUpload       = "/errors/upload/empty"
	TypeUnsupportedFormat = "/errors/gradebook/unsupported-format"
	TypeUnreadableFile    = "/errors/gradebook/unreadable"
	TypeLayoutMismatch    = "/errors/gradebook/layout-mismatch"
	TypeNoChartData       = "/errors/chart/no-data"
)

type domainError struct {
	target      error
	status      int
	problemType string
	title       string
	code        string
}

// domainErrors is checked in order with errors.Is.
var domainErrors = []domainError{
	{services.ErrDatasetNotFound, http.StatusNotFound, TypeDatasetNotFound, "Dataset Not Found", "DATASET_NOT_FOUND"},
	{services.ErrStudentNotFound, http.StatusNotFound, TypeStudentNotFound, "Student Not Found", "STUDENT_NOT_FOUND"},
	{services.ErrEmptyUpload, http.StatusBadRequest, TypeEmptyUpload, "Empty Upload", "EMPTY_UPLOAD"},
	{gradebook.ErrEmptyFile, http.StatusBadRequest, TypeEmptyUpload, "Empty Upload", "EMPTY_UPLOAD"},
	{services.ErrUploadTooLarge, http.StatusRequestEntityTooLarge, TypePayloadTooLarge, "Payload Too Large", "PAYLOAD_TOO_LARGE"},
	{gradebook.ErrUnsupportedFormat, http.StatusUnprocessableEntity, TypeUnsupportedFormat, "Unsupported File Format", "UNSUPPORTED_FORMAT"},
	{gradebook.ErrUnreadableFile, http.StatusUnprocessableEntity, TypeUnreadableFile, "Unreadable File", "UNREADABLE_FILE"},
	{gradebook.ErrHeaderNotFound, http.StatusUnprocessableEntity, TypeLayoutMismatch, "Gradebook Layout Mismatch", "HEADER_NOT_FOUND"},
	{gradebook.ErrLayoutMismatch, http.StatusUnprocessableEntity, TypeLayoutMismatch, "Gradebook Layout Mismatch", "LAYOUT_MISMATCH"},
	{services.ErrInvalidCategory, http.StatusBadRequest, TypeValidation, "Invalid Risk Category", "INVALID_CATEGORY"},
	{services.ErrUnknownChart, http.StatusBadRequest, TypeValidation, "Unknown Chart", "UNKNOWN_CHART"},
	{charts.ErrNoData, http.StatusUnprocessableEntity, TypeNoChartData, "No Chart Data", "NO_CHART_DATA"},
}

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	ctx := r.Context()
	traceID := infrastructure.GetTraceID(ctx)

	problem := h.ErrorToProblem(err, r)
	problem.WithExtension("trace_id", traceID)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("remote_addr", r.RemoteAddr),
	)

	if h.includeStack && problem.Status >= http.StatusInternalServerError {
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			r.URL.Path,
		)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return h.apiErrorToProblem(apiErr, r)
	}

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return NewProblemDetails(
			http.StatusRequestEntityTooLarge,
			TypePayloadTooLarge,
			"Payload Too Large",
			fmt.Sprintf("The request body exceeds the limit of %d bytes", maxBytes.Limit),
			r.URL.Path,
		).WithExtension("error_code", "PAYLOAD_TOO_LARGE")
	}

	for _, d := range domainErrors {
		if errors.Is(err, d.target) {
			return NewProblemDetails(d.status, d.problemType, d.title, err.Error(), r.URL.Path).
				WithExtension("error_code", d.code)
		}
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return h.appErrorToProblem(appErr, r)
	}

	return NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred while processing your request",
		r.URL.Path,
	)
}

// apiErrorToProblem converts APIError to ProblemDetails
func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case "VALIDATION_FAILED", "INVALID_REQUEST", "MISSING_FILE":
		problemType = TypeValidation
	case "RATE_LIMIT_EXCEEDED":
		problemType = TypeRateLimit
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		r.URL.Path,
	).WithExtension("error_code", apiErr.ErrorCode)

	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}

	return problem
}

func (h *ErrorHandler) appErrorToProblem(appErr *AppError, r *http.Request) *ProblemDetails {
	var problem *ProblemDetails
	switch appErr.Type {
	case ErrTypeValidation:
		problem = NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", appErr.Message, r.URL.Path)
	case ErrTypeParsing:
		problem = NewProblemDetails(http.StatusUnprocessableEntity, TypeUnreadableFile, "Unreadable File", appErr.Message, r.URL.Path)
	case ErrTypeLayout:
		problem = NewProblemDetails(http.StatusUnprocessableEntity, TypeLayoutMismatch, "Gradebook Layout Mismatch", appErr.Message, r.URL.Path)
	default:
		return NewProblemDetails(
			http.StatusInternalServerError,
			TypeInternal,
			"Internal Server Error",
			"An unexpected error occurred while processing your request",
			r.URL.Path,
		)
	}

	if len(appErr.Context) > 0 {
		problem.WithExtension("context", appErr.Context)
	}
	return problem
}

// HandlePanic recovers from panics and returns RFC 7807 error
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	traceID := infrastructure.GetTraceID(r.Context())

	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	problem := NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		r.URL.Path,
	).WithExtension("trace_id", traceID)

	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusNotFound,
		TypeNotFound,
		"Not Found",
		"The requested resource was not found",
		r.URL.Path,
	).WithExtension("trace_id", infrastructure.GetTraceID(r.Context()))

	render.Render(w, r, problem)
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusMethodNotAllowed,
		TypeMethodNotAllowed,
		"Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method),
		r.URL.Path,
	).WithExtension("trace_id", infrastructure.GetTraceID(r.Context()))

	render.Render(w, r, problem)
}

func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
