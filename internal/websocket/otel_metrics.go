package websocket

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics holds the hub's OpenTelemetry instruments. A nil
// *OTelMetrics records nothing.
type OTelMetrics struct {
	connectionsTotal   metric.Int64Counter
	connectionsActive  metric.Int64UpDownCounter
	connectionDuration metric.Float64Histogram
	upgradeErrors      metric.Int64Counter
	messagesTotal      metric.Int64Counter
	messageBytes       metric.Int64Counter
	droppedMessages    metric.Int64Counter
	broadcasts         metric.Int64Counter
	queueDepth         metric.Int64Gauge
}

// NewOTelMetrics registers the websocket instruments on meter.
func NewOTelMetrics(meter metric.Meter) (*OTelMetrics, error) {
	var errs []error
	m := &OTelMetrics{}
	var err error

	m.connectionsTotal, err = meter.Int64Counter(
		"websocket_connections_total",
		metric.WithDescription("Total number of WebSocket connections"),
	)
	errs = append(errs, err)

	m.connectionsActive, err = meter.Int64UpDownCounter(
		"websocket_connections_active",
		metric.WithDescription("Number of active WebSocket connections"),
	)
	errs = append(errs, err)

	m.connectionDuration, err = meter.Float64Histogram(
		"websocket_connection_duration_seconds",
		metric.WithDescription("Duration of WebSocket connections"),
		metric.WithUnit("s"),
	)
	errs = append(errs, err)

	m.upgradeErrors, err = meter.Int64Counter(
		"websocket_upgrade_errors_total",
		metric.WithDescription("Total number of failed WebSocket upgrades"),
	)
	errs = append(errs, err)

	m.messagesTotal, err = meter.Int64Counter(
		"websocket_messages_total",
		metric.WithDescription("Total number of WebSocket messages"),
	)
	errs = append(errs, err)

	m.messageBytes, err = meter.Int64Counter(
		"websocket_message_bytes_total",
		metric.WithDescription("Total bytes of WebSocket messages"),
		metric.WithUnit("By"),
	)
	errs = append(errs, err)

	m.droppedMessages, err = meter.Int64Counter(
		"websocket_dropped_messages_total",
		metric.WithDescription("Total number of dropped WebSocket messages"),
	)
	errs = append(errs, err)

	m.broadcasts, err = meter.Int64Counter(
		"websocket_broadcast_operations_total",
		metric.WithDescription("Total number of WebSocket broadcast operations"),
	)
	errs = append(errs, err)

	m.queueDepth, err = meter.Int64Gauge(
		"websocket_queue_depth",
		metric.WithDescription("Current depth of the broadcast queue"),
	)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordConnection records a registered client.
func (m *OTelMetrics) RecordConnection(ctx context.Context) {
	if m == nil {
		return
	}
	m.connectionsTotal.Add(ctx, 1)
	m.connectionsActive.Add(ctx, 1)
}

// RecordDisconnection records a client leaving. reason is "normal" or
// "slow_consumer".
func (m *OTelMetrics) RecordDisconnection(ctx context.Context, duration time.Duration, reason string) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("disconnect_reason", reason))
	m.connectionsActive.Add(ctx, -1)
	m.connectionDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordUpgradeError records a rejected handshake.
func (m *OTelMetrics) RecordUpgradeError(ctx context.Context) {
	if m == nil {
		return
	}
	m.upgradeErrors.Add(ctx, 1)
}

// RecordMessage records one message. direction is "inbound" or "outbound".
func (m *OTelMetrics) RecordMessage(ctx context.Context, direction string, size int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("direction", direction))
	m.messagesTotal.Add(ctx, 1, attrs)
	m.messageBytes.Add(ctx, int64(size), attrs)
}

// RecordDroppedMessage records a message discarded for reason.
func (m *OTelMetrics) RecordDroppedMessage(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.droppedMessages.Add(ctx, 1, metric.WithAttributes(attribute.String("drop_reason", reason)))
}

// RecordBroadcast records one fan-out. partial marks a broadcast that
// had to drop at least one slow client.
func (m *OTelMetrics) RecordBroadcast(ctx context.Context, messageType string, partial bool) {
	if m == nil {
		return
	}
	m.broadcasts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("message_type", messageType),
		attribute.Bool("partial", partial),
	))
}

// RecordQueueDepth records the current broadcast queue length.
func (m *OTelMetrics) RecordQueueDepth(ctx context.Context, depth int) {
	if m == nil {
		return
	}
	m.queueDepth.Record(ctx, int64(depth))
}
