package websocket

import (
	"sync"
	"time"
)

// Metrics keeps in-process counters for the hub. They back the periodic
// hub log line and Hub.Stats; the exported instruments live in OTelMetrics.
type Metrics struct {
	mu sync.RWMutex

	totalConnections  int64
	activeConnections int64
	maxConcurrent     int64
	messagesSent      int64
	messagesReceived  int64
	bytesSent         int64
	bytesReceived     int64
	droppedMessages   int64
	maxQueueDepth     int64

	// last 100 connection durations
	connectionTimes []time.Duration
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	TotalConnections  int64         `json:"total_connections"`
	ActiveConnections int64         `json:"active_connections"`
	MaxConcurrent     int64         `json:"max_concurrent"`
	MessagesSent      int64         `json:"messages_sent"`
	MessagesReceived  int64         `json:"messages_received"`
	BytesSent         int64         `json:"bytes_sent"`
	BytesReceived     int64         `json:"bytes_received"`
	DroppedMessages   int64         `json:"dropped_messages"`
	MaxQueueDepth     int64         `json:"max_queue_depth"`
	AvgConnectionTime time.Duration `json:"avg_connection_time"`
}

// NewMetrics creates an empty metrics set.
func NewMetrics() *Metrics {
	return &Metrics{connectionTimes: make([]time.Duration, 0, 100)}
}

// RecordConnection counts a registered client.
func (m *Metrics) RecordConnection() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalConnections++
	m.activeConnections++
	if m.activeConnections > m.maxConcurrent {
		m.maxConcurrent = m.activeConnections
	}
}

// RecordDisconnection counts a client leaving after duration.
func (m *Metrics) RecordDisconnection(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activeConnections > 0 {
		m.activeConnections--
	}
	m.connectionTimes = append(m.connectionTimes, duration)
	if len(m.connectionTimes) > 100 {
		m.connectionTimes = m.connectionTimes[1:]
	}
}

// RecordMessage counts one message in direction "sent" or "received".
func (m *Metrics) RecordMessage(direction string, size int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch direction {
	case "sent":
		m.messagesSent++
		m.bytesSent += size
	case "received":
		m.messagesReceived++
		m.bytesReceived += size
	}
}

// RecordDroppedMessage counts a message that never reached a client.
func (m *Metrics) RecordDroppedMessage() {
	m.mu.Lock()
	m.droppedMessages++
	m.mu.Unlock()
}

// RecordQueueDepth tracks the high-water mark of the broadcast queue.
func (m *Metrics) RecordQueueDepth(depth int64) {
	m.mu.Lock()
	if depth > m.maxQueueDepth {
		m.maxQueueDepth = depth
	}
	m.mu.Unlock()
}

// Snapshot returns a copy of the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var avg time.Duration
	if n := len(m.connectionTimes); n > 0 {
		var total time.Duration
		for _, d := range m.connectionTimes {
			total += d
		}
		avg = total / time.Duration(n)
	}

	return MetricsSnapshot{
		TotalConnections:  m.totalConnections,
		ActiveConnections: m.activeConnections,
		MaxConcurrent:     m.maxConcurrent,
		MessagesSent:      m.messagesSent,
		MessagesReceived:  m.messagesReceived,
		BytesSent:         m.bytesSent,
		BytesReceived:     m.bytesReceived,
		DroppedMessages:   m.droppedMessages,
		MaxQueueDepth:     m.maxQueueDepth,
		AvgConnectionTime: avg,
	}
}
