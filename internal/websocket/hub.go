package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/David1r20/painel-educacional/internal/config"
	"github.com/David1r20/painel-educacional/internal/infrastructure"
	"github.com/David1r20/painel-educacional/pkg/contracts/events"
)

const (
	// broadcastQueueSize bounds events waiting for the hub loop.
	broadcastQueueSize = 256
	// clientQueueSize bounds messages waiting for one client's writer.
	clientQueueSize = 64

	connectMessage = "Connected to painel-educacional"
)

// Settings are the per-connection timings shared by every client.
type Settings struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxMessageSize int64
}

// DefaultSettings returns the timings used when none are configured.
func DefaultSettings() Settings {
	return Settings{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     54 * time.Second,
		MaxMessageSize: 512,
	}
}

// SettingsFrom converts the websocket section of the configuration.
// Zero values keep the defaults.
func SettingsFrom(cfg config.WebSocketConfig) Settings {
	s := DefaultSettings()
	if cfg.WriteWait > 0 {
		s.WriteWait = cfg.WriteWait
	}
	if cfg.PongWait > 0 {
		s.PongWait = cfg.PongWait
	}
	if cfg.PingPeriod > 0 && cfg.PingPeriod < s.PongWait {
		s.PingPeriod = cfg.PingPeriod
	} else if s.PingPeriod >= s.PongWait {
		s.PingPeriod = s.PongWait * 9 / 10
	}
	if cfg.MaxMessageSize > 0 {
		s.MaxMessageSize = cfg.MaxMessageSize
	}
	return s
}

// updateMessage is the envelope of every broadcast event.
type updateMessage struct {
	events.WebSocketMessage
	Subtype string `json:"subtype,omitempty"`
	Action  string `json:"action,omitempty"`
}

type outbound struct {
	messageType string
	payload     []byte
}

// Hub keeps the set of connected dashboards and fans dataset events out
// to them. All membership changes go through the Run loop.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	running bool
	quit    chan struct{}
	wg      sync.WaitGroup

	logger          *slog.Logger
	settings        Settings
	metrics         *Metrics
	otel            *OTelMetrics
	metricsInterval time.Duration
}

// Option configures a Hub.
type Option func(*Hub)

// WithSettings overrides the connection timings.
func WithSettings(s Settings) Option {
	return func(h *Hub) { h.settings = s }
}

// WithOTelMetrics exports hub activity through m.
func WithOTelMetrics(m *OTelMetrics) Option {
	return func(h *Hub) { h.otel = m }
}

// WithMetricsInterval sets how often the hub logs its counters.
func WithMetricsInterval(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.metricsInterval = d
		}
	}
}

// NewHub creates a hub. Call Start before registering clients.
func NewHub(logger *slog.Logger, opts ...Option) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	h := &Hub{
		clients:         make(map[*Client]bool),
		broadcast:       make(chan outbound, broadcastQueueSize),
		register:        make(chan *Client),
		unregister:      make(chan *Client),
		quit:            make(chan struct{}),
		logger:          logger.With(slog.String("component", "websocket.hub")),
		settings:        DefaultSettings(),
		metrics:         NewMetrics(),
		metricsInterval: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start launches the hub loop and the metrics reporter.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		h.run()
	}()
	go func() {
		defer h.wg.Done()
		h.reportMetrics()
	}()
	h.logger.Info("websocket hub started")
}

// Stop ends the hub loop and closes every client's queue, which makes
// the write pumps send a close frame. Safe to call more than once.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
	h.wg.Wait()

	h.mu.Lock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()
	h.logger.Info("websocket hub stopped")
}

// Register hands a client to the hub loop. It returns false when the hub
// has been stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.quit:
		return false
	}
}

// Unregister removes a client. It never blocks after Stop.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats returns the hub counters.
func (h *Hub) Stats() MetricsSnapshot {
	return h.metrics.Snapshot()
}

// BroadcastUpdate queues an event for every connected client. It never
// blocks the caller: when the queue is full the event is dropped.
func (h *Hub) BroadcastUpdate(updateType, subtype, action string, data interface{}) {
	msg := updateMessage{
		WebSocketMessage: events.WebSocketMessage{
			BaseMessage: events.BaseMessage{
				ID:        uuid.NewString(),
				Type:      events.MessageType(updateType),
				Timestamp: time.Now().UTC(),
			},
			Data: data,
		},
		Subtype: subtype,
		Action:  action,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal websocket event",
			slog.String("message_type", updateType),
			slog.String("error", err.Error()))
		return
	}

	select {
	case h.broadcast <- outbound{messageType: updateType, payload: payload}:
		depth := len(h.broadcast)
		h.metrics.RecordQueueDepth(int64(depth))
		h.otel.RecordQueueDepth(context.Background(), depth)
	default:
		h.metrics.RecordDroppedMessage()
		h.otel.RecordDroppedMessage(context.Background(), "queue_full")
		h.logger.Warn("broadcast queue full, dropping event",
			slog.String("message_type", updateType))
	}
}

func (h *Hub) run() {
	for {
		select {
		case <-h.quit:
			return

		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client, "normal")

		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()

	ctx := client.context()
	h.metrics.RecordConnection()
	h.otel.RecordConnection(ctx)

	h.logger.InfoContext(ctx, "client registered",
		slog.String("client_id", client.id),
		slog.String("remote_addr", client.remoteAddr),
		slog.Int("total_clients", count))

	hello := events.WebSocketMessage{
		BaseMessage: events.BaseMessage{
			ID:        uuid.NewString(),
			Type:      events.MessageTypeConnect,
			Timestamp: time.Now().UTC(),
			TraceID:   client.traceID,
		},
		Data: events.ConnectEvent{ClientID: client.id, Message: connectMessage},
	}
	payload, err := json.Marshal(hello)
	if err != nil {
		return
	}
	select {
	case client.send <- payload:
	default:
		h.logger.WarnContext(ctx, "failed to send connection message, client buffer full",
			slog.String("client_id", client.id))
	}
}

func (h *Hub) removeClient(client *Client, reason string) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	close(client.send)
	count := len(h.clients)
	h.mu.Unlock()

	ctx := client.context()
	duration := time.Since(client.connectedAt)
	h.metrics.RecordDisconnection(duration)
	h.otel.RecordDisconnection(ctx, duration, reason)

	h.logger.InfoContext(ctx, "client unregistered",
		slog.String("client_id", client.id),
		slog.String("reason", reason),
		slog.Int("total_clients", count),
		slog.Duration("connection_duration", duration))
}

func (h *Hub) fanOut(msg outbound) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	var slow []*Client
	for _, client := range clients {
		select {
		case client.send <- msg.payload:
		default:
			slow = append(slow, client)
		}
	}
	for _, client := range slow {
		h.metrics.RecordDroppedMessage()
		h.otel.RecordDroppedMessage(client.context(), "slow_consumer")
		h.removeClient(client, "slow_consumer")
	}

	h.otel.RecordBroadcast(context.Background(), msg.messageType, len(slow) > 0)
	h.logger.Debug("event broadcast",
		slog.String("message_type", msg.messageType),
		slog.Int("delivered", len(clients)-len(slow)),
		slog.Int("dropped", len(slow)),
		slog.Int("payload_size", len(msg.payload)))
}

func (h *Hub) reportMetrics() {
	ticker := time.NewTicker(h.metricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.quit:
			return
		case <-ticker.C:
			snap := h.metrics.Snapshot()
			h.logger.Info("websocket hub metrics",
				slog.Int("active_clients", h.ClientCount()),
				slog.Int64("total_connections", snap.TotalConnections),
				slog.Int64("messages_sent", snap.MessagesSent),
				slog.Int64("messages_received", snap.MessagesReceived),
				slog.Int64("dropped_messages", snap.DroppedMessages),
				slog.Int("broadcast_queue", len(h.broadcast)))
		}
	}
}
