package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/David1r20/painel-educacional/internal/infrastructure"
)

func newTestProviders(t *testing.T) (*infrastructure.OTelProviders, *sdkmetric.ManualReader, *tracetest.SpanRecorder) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() {
		mp.Shutdown(context.Background())
		tp.Shutdown(context.Background())
	})

	return &infrastructure.OTelProviders{
		TracerProvider: tp,
		MeterProvider:  mp,
		Tracer:         tp.Tracer("test"),
		Meter:          mp.Meter("test"),
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, reader, recorder
}

func TestOTelMiddleware_Handler(t *testing.T) {
	providers, reader, recorder := newTestProviders(t)
	m, err := NewOTelMiddleware(providers, nil)
	require.NoError(t, err)

	var traceID string
	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/api/datasets/{id}/overview", func(w http.ResponseWriter, r *http.Request) {
		traceID = infrastructure.GetTraceID(r.Context())
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	for _, path := range []string{"/api/datasets/abc/overview", "/api/datasets/def/overview", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "GET /api/datasets/{id}/overview", spans[0].Name())
	// traceID holds the last overview request's span
	assert.Equal(t, spans[1].SpanContext().TraceID().String(), traceID)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	requests := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			sum, ok := metric.Data.(metricdata.Sum[int64])
			if !ok || metric.Name != "http_requests_total" {
				continue
			}
			for _, dp := range sum.DataPoints {
				route, _ := dp.Attributes.Value("route")
				requests[route.AsString()] += dp.Value
			}
		}
	}
	assert.Equal(t, int64(2), requests["/api/datasets/{id}/overview"], "routes must be aggregated by pattern")
	assert.Equal(t, int64(1), requests["/boom"])
}

func TestOTelMiddleware_SharedMetrics(t *testing.T) {
	providers, _, _ := newTestProviders(t)
	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	m, err := NewOTelMiddleware(providers, metrics)
	require.NoError(t, err)
	assert.Same(t, metrics, m.businessMetrics)
}

func TestResponseWriter_Hijack(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder()}
	_, _, err := rw.Hijack()
	assert.Error(t, err, "recorder cannot be hijacked")

	rw.WriteHeader(http.StatusAccepted)
	rw.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusAccepted, rw.statusCode)
}

func TestTraceMiddleware(t *testing.T) {
	var called bool
	h := TraceMiddleware("dataset.upload")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/datasets", nil))
	assert.True(t, called)
}
