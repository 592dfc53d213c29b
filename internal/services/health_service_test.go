package services

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David1r20/painel-educacional/internal/cache"
	"github.com/David1r20/painel-educacional/pkg/contracts"
)

type fixedClients int

func (f fixedClients) ClientCount() int { return int(f) }

func TestHealthService(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	datasets := cache.NewDatasetCache(time.Hour, 5, time.Minute)
	defer datasets.Stop()

	hs := NewHealthServiceWithBuildInfo("1.0.0", "https://example.com/repo", "2025-02-11", "abc123", datasets, fixedClients(3), logger)
	ctx := context.Background()

	t.Run("HealthCheck", func(t *testing.T) {
		status := hs.HealthCheck(ctx)
		assert.Equal(t, "ok", status.Status)
		assert.Equal(t, "1.0.0", status.Version)
		assert.WithinDuration(t, time.Now(), status.Timestamp, time.Second)
	})

	t.Run("ReadinessCheck", func(t *testing.T) {
		status := hs.ReadinessCheck(ctx)
		assert.Equal(t, "ready", status.Status)
		require.Contains(t, status.Services, "cache")
		require.Contains(t, status.Services, "websocket")
		assert.Equal(t, "0 of 5 datasets cached", status.Services["cache"].(ServiceHealth).Message)
		assert.Equal(t, "3 clients connected", status.Services["websocket"].(ServiceHealth).Message)
	})

	t.Run("LivenessCheck", func(t *testing.T) {
		status := hs.LivenessCheck(ctx)
		assert.Equal(t, "alive", status.Status)
		assert.Equal(t, runtime.Version(), status.Runtime["go_version"])
		assert.Contains(t, status.Runtime, "goroutines")
	})

	t.Run("Version", func(t *testing.T) {
		v := hs.Version()
		assert.Equal(t, "1.0.0", v["version"])
		assert.Equal(t, "2025-02-11", v["build_time"])
		assert.Equal(t, "abc123", v["build_id"])
		assert.Equal(t, runtime.GOOS, v["os"])
		assert.Equal(t, contracts.APIVersion, v["api_version"])
		assert.Equal(t, contracts.DataFormatVersion, v["data_format"])
	})

	t.Run("SystemStats", func(t *testing.T) {
		stats := hs.SystemStats(ctx)
		assert.Equal(t, 3, stats.WebSocketClients)
		assert.Equal(t, 5, stats.Cache.MaxSize)
		assert.Equal(t, float64(3600), stats.Cache.TTLSeconds)
	})

	t.Run("GetDetailedHealth", func(t *testing.T) {
		detail := hs.GetDetailedHealth(ctx)
		for _, key := range []string{"health", "readiness", "liveness", "stats"} {
			assert.Contains(t, detail, key)
		}
	})
}

func TestHealthService_NotReady(t *testing.T) {
	hs := NewHealthService("1.0.0", "", nil, nil, nil)

	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)
	assert.Equal(t, "not_ready", status.Services["cache"].(ServiceHealth).Status)
	assert.Equal(t, "not_ready", status.Services["websocket"].(ServiceHealth).Status)

	_, hasBuild := hs.Version()["build_time"]
	assert.False(t, hasBuild)

	stats := hs.SystemStats(context.Background())
	assert.Zero(t, stats.WebSocketClients)
}
