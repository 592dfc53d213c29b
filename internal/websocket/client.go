package websocket

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/David1r20/painel-educacional/internal/infrastructure"
)

var heartbeat = []byte(`{"type":"heartbeat"}`)

// Client is a middleman between one websocket connection and the hub.
// The dashboard only listens; inbound messages are heartbeats.
type Client struct {
	hub  *Hub
	conn Connection

	// Buffered channel of outbound messages. Closed by the hub.
	send chan []byte

	id          string
	traceID     string
	remoteAddr  string
	connectedAt time.Time
	logger      *slog.Logger

	messagesSent     int64
	messagesReceived int64
}

// NewClient creates a client for conn. traceID is the trace of the
// upgrade request and may be empty.
func NewClient(hub *Hub, conn Connection, traceID string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	id := uuid.NewString()
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, clientQueueSize),
		id:          id,
		traceID:     traceID,
		remoteAddr:  conn.RemoteAddr(),
		connectedAt: time.Now(),
		logger: logger.With(
			slog.String("component", "websocket.client"),
			slog.String("client_id", id),
		),
	}
}

// ID returns the client identifier sent in the connect event.
func (c *Client) ID() string { return c.id }

func (c *Client) context() context.Context {
	ctx := context.Background()
	if c.traceID != "" {
		ctx = infrastructure.WithTraceID(ctx, c.traceID)
	}
	return ctx
}

// ReadPump consumes inbound frames until the connection fails, then
// unregisters the client.
func (c *Client) ReadPump() {
	settings := c.hub.settings
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
		c.logger.DebugContext(c.context(), "read pump stopped",
			slog.Int64("messages_received", c.messagesReceived))
	}()

	c.conn.SetReadLimit(settings.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(settings.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(settings.PongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.WarnContext(c.context(), "unexpected websocket close",
					slog.String("error", err.Error()))
			}
			return
		}
		message = bytes.TrimSpace(message)
		c.messagesReceived++
		c.hub.metrics.RecordMessage("received", int64(len(message)))
		c.hub.otel.RecordMessage(c.context(), "inbound", len(message))

		if bytes.Equal(message, heartbeat) {
			c.conn.SetReadDeadline(time.Now().Add(settings.PongWait))
			continue
		}
		c.logger.DebugContext(c.context(), "ignoring client message",
			slog.Int("size", len(message)))
	}
}

// WritePump delivers queued messages and keeps the connection alive with
// pings. It returns when the hub closes the queue or a write fails.
func (c *Client) WritePump() {
	settings := c.hub.settings
	ticker := time.NewTicker(settings.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.logger.DebugContext(c.context(), "write pump stopped",
			slog.Int64("messages_sent", c.messagesSent))
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(settings.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(message); err != nil {
				return
			}

			// drain whatever queued up meanwhile, one frame per event
			n := len(c.send)
			for i := 0; i < n; i++ {
				queued, ok := <-c.send
				if !ok {
					c.conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := c.write(queued); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(settings.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.DebugContext(c.context(), "ping failed", slog.String("error", err.Error()))
				return
			}
		}
	}
}

func (c *Client) write(message []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(c.hub.settings.WriteWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.WarnContext(c.context(), "websocket write failed", slog.String("error", err.Error()))
		return err
	}
	c.messagesSent++
	c.hub.metrics.RecordMessage("sent", int64(len(message)))
	c.hub.otel.RecordMessage(c.context(), "outbound", len(message))
	return nil
}
