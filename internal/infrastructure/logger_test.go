package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David1r20/painel-educacional/internal/config"
)

func decodeLastLine(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "painel.log")
	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	// second call keeps the first logger
	again, err := InitializeLogger(config.LoggingConfig{Level: "debug"})
	require.NoError(t, err)
	assert.Same(t, logger, again)

	logger.Info("test message", "key", "value")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	entry := decodeLastLine(t, content)
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Contains(t, entry, "source")
}

func TestNewLogger_Outputs(t *testing.T) {
	defer CloseLogFile()

	t.Run("console", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewLogger(config.LoggingConfig{Level: "info", Output: "console"}, &buf)
		require.NoError(t, err)

		logger.Info("to console")
		assert.Equal(t, "to console", decodeLastLine(t, buf.Bytes())["msg"])
	})

	t.Run("both", func(t *testing.T) {
		var buf bytes.Buffer
		logFile := filepath.Join(t.TempDir(), "both.log")
		logger, err := NewLogger(config.LoggingConfig{Level: "info", Output: "both", FilePath: logFile}, &buf)
		require.NoError(t, err)

		logger.Warn("to both")
		require.NoError(t, CloseLogFile())

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Equal(t, "to both", decodeLastLine(t, content)["msg"])
		assert.Equal(t, "to both", decodeLastLine(t, buf.Bytes())["msg"])
	})

	t.Run("unwritable file", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0o644))

		_, err := NewLogger(config.LoggingConfig{Output: "file", FilePath: filepath.Join(blocker, "x.log")}, &bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		logged   slog.Level
		expected bool
	}{
		{"debug", slog.LevelDebug, true},
		{"info", slog.LevelDebug, false},
		{"info", slog.LevelInfo, true},
		{"warning", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelWarn, false},
		{"unknown", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.logged.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(config.LoggingConfig{Level: tt.level}, &buf)
			require.NoError(t, err)

			logger.Log(context.Background(), tt.logged, "level check")
			assert.Equal(t, tt.expected, buf.Len() > 0)
		})
	}
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "debug"}, &buf)
	require.NoError(t, err)

	ctx := WithTraceID(context.Background(), "test-trace-123")
	logger.InfoContext(ctx, "test with trace")
	assert.Equal(t, "test-trace-123", decodeLastLine(t, buf.Bytes())["trace_id"])

	buf.Reset()
	logger.InfoContext(context.Background(), "no trace")
	assert.NotContains(t, decodeLastLine(t, buf.Bytes()), "trace_id")
}

func TestGetTraceID_FallsBackToRequestID(t *testing.T) {
	var seen string
	handler := chimw.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetTraceID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(chimw.RequestIDHeader, "req-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-42", seen)
}

func TestContextHelpers(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	traceID := GetTraceID(ctx)
	assert.Len(t, traceID, 36)

	assert.Equal(t, traceID, GetTraceID(EnsureTraceID(ctx)), "existing trace ID must be kept")
	assert.NotEqual(t, traceID, GenerateTraceID())
}

func TestLoggerHelpers(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	globalLogger = logger

	WithComponent(logger, "dashboard").Info("component test")
	assert.Equal(t, "dashboard", decodeLastLine(t, buf.Bytes())["component"])

	buf.Reset()
	WithError(logger, os.ErrNotExist).Info("error test")
	assert.Contains(t, decodeLastLine(t, buf.Bytes())["error"], "file does not exist")

	assert.Same(t, logger, WithError(logger, nil))

	buf.Reset()
	LoggerWithContext(WithTraceID(context.Background(), "abc")).Info("bound")
	assert.Equal(t, "abc", decodeLastLine(t, buf.Bytes())["trace_id"])
}
