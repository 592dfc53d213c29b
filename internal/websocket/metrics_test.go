package websocket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	m.RecordConnection()
	m.RecordConnection()
	m.RecordDisconnection(2 * time.Second)
	m.RecordDisconnection(4 * time.Second)
	m.RecordDisconnection(time.Second) // never below zero
	m.RecordMessage("sent", 100)
	m.RecordMessage("received", 10)
	m.RecordMessage("unknown", 999)
	m.RecordDroppedMessage()
	m.RecordQueueDepth(7)
	m.RecordQueueDepth(3)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.TotalConnections)
	assert.Zero(t, snap.ActiveConnections)
	assert.Equal(t, int64(2), snap.MaxConcurrent)
	assert.Equal(t, int64(1), snap.MessagesSent)
	assert.Equal(t, int64(100), snap.BytesSent)
	assert.Equal(t, int64(1), snap.MessagesReceived)
	assert.Equal(t, int64(10), snap.BytesReceived)
	assert.Equal(t, int64(1), snap.DroppedMessages)
	assert.Equal(t, int64(7), snap.MaxQueueDepth)
	assert.Equal(t, 7*time.Second/3, snap.AvgConnectionTime)
}

func TestMetrics_KeepsLastHundredDurations(t *testing.T) {
	m := NewMetrics()
	m.RecordDisconnection(time.Hour)
	for i := 0; i < 100; i++ {
		m.RecordDisconnection(time.Second)
	}
	assert.Equal(t, time.Second, m.Snapshot().AvgConnectionTime)
}

func TestMetrics_Concurrent(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				m.RecordConnection()
				m.RecordMessage("sent", 1)
				_ = m.Snapshot()
			}
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	assert.Equal(t, int64(1000), snap.TotalConnections)
	assert.Equal(t, int64(1000), snap.BytesSent)
}

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 sum", name)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestOTelMetrics_HubActivity(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	otelMetrics, err := NewOTelMetrics(provider.Meter("test"))
	require.NoError(t, err)

	hub := NewHub(testLogger(t), WithOTelMetrics(otelMetrics))
	hub.Start()
	defer hub.Stop()

	conn := newMockConnection()
	connect(t, hub, conn, "")
	waitForClients(t, hub, 1)

	hub.BroadcastUpdate("dataset:ready", "dataset", "ready", nil)
	require.Eventually(t, func() bool { return hub.Stats().MessagesSent == 2 },
		2*time.Second, 5*time.Millisecond)

	conn.Close()
	waitForClients(t, hub, 0)

	assert.Equal(t, int64(1), collectSum(t, reader, "websocket_connections_total"))
	require.Eventually(t, func() bool {
		return collectSum(t, reader, "websocket_connections_active") == 0
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(2), collectSum(t, reader, "websocket_messages_total"))
	assert.Equal(t, int64(1), collectSum(t, reader, "websocket_broadcast_operations_total"))
}

func TestOTelMetrics_NilIsNoop(t *testing.T) {
	var m *OTelMetrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordConnection(ctx)
		m.RecordDisconnection(ctx, time.Second, "normal")
		m.RecordUpgradeError(ctx)
		m.RecordMessage(ctx, "outbound", 10)
		m.RecordDroppedMessage(ctx, "queue_full")
		m.RecordBroadcast(ctx, "dataset:ready", false)
		m.RecordQueueDepth(ctx, 1)
	})
}
