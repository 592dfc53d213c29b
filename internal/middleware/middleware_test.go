package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/David1r20/painel-educacional/internal/errors"
	"github.com/David1r20/painel-educacional/internal/infrastructure"
	"github.com/David1r20/painel-educacional/internal/shared/testutil"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"generated", ""},
		{"propagated", "client-supplied-id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromCtx, traceID string
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fromCtx = chimw.GetReqID(r.Context())
				traceID = infrastructure.GetTraceID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			require.NotEmpty(t, fromCtx)
			assert.Equal(t, fromCtx, w.Header().Get(RequestIDHeader))
			assert.Equal(t, fromCtx, traceID)
			if tt.header != "" {
				assert.Equal(t, tt.header, fromCtx)
			} else {
				assert.Len(t, fromCtx, 36)
			}
		})
	}
}

func TestStructuredLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"success", http.StatusOK, "INFO"},
		{"client error", http.StatusNotFound, "WARN"},
		{"server error", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			h := StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/datasets?x=1", nil))

			records := logs.GetRecords()
			require.Len(t, records, 1)
			assert.Equal(t, "request completed", records[0].Message)
			assert.Equal(t, tt.wantLevel, records[0].Level.String())
			assert.Equal(t, int64(tt.status), records[0].Attrs["status"])
			assert.Equal(t, "x=1", records[0].Attrs["query"])
			assert.Equal(t, "http", records[0].Attrs["component"])
		})
	}
}

func TestRecoverer(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)

	h := Recoverer(errorHandler)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("chart renderer exploded")
	}))

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/datasets/x/charts/trend.svg", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, logs.ContainsMessage("panic recovered"))

	aborting := Recoverer(errorHandler)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		aborting.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestRateLimiter(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	limiter := NewRateLimiter(0.001, 2, apierrors.NewErrorHandler(logger, false), logger)
	h := limiter.Handler(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		h.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(last.Body).Decode(&body))
	assert.Equal(t, apierrors.TypeRateLimit, body["type"])
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body["error_code"])
	assert.Equal(t, float64(http.StatusTooManyRequests), body["status"])
	assert.True(t, logs.ContainsMessage("rate limit exceeded"))
}

func TestTimeout(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	t.Run("slow handler gets 504", func(t *testing.T) {
		h := Timeout(10*time.Millisecond, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	})

	t.Run("fast handler untouched", func(t *testing.T) {
		h := Timeout(time.Second, logger)(http.HandlerFunc(okHandler))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("deadline is set", func(t *testing.T) {
		var hasDeadline bool
		h := Timeout(time.Second, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, hasDeadline = r.Context().Deadline()
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.True(t, hasDeadline)
	})
}

func TestGetRealIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:5000", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.2:5000", "198.51.100.4"},
		{"remote addr", nil, "192.0.2.10:41234", "192.0.2.10"},
		{"remote without port", nil, "192.0.2.10", "192.0.2.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetRealIP(req))
		})
	}
}

func TestStripSlashesWithChi(t *testing.T) {
	r := chi.NewRouter()
	r.Use(StripSlashes)
	r.Get("/api/datasets", okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/datasets/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTimeout_ContextCanceledByClient(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := Timeout(time.Second, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
	assert.Equal(t, http.StatusOK, w.Code, "client cancellation must not produce a 504")
}
