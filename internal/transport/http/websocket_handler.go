package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/David1r20/painel-educacional/internal/config"
	"github.com/David1r20/painel-educacional/internal/infrastructure"
	ws "github.com/David1r20/painel-educacional/internal/websocket"
)

// WebSocketHandler upgrades /ws requests and attaches them to the hub.
type WebSocketHandler struct {
	hub            *ws.Hub
	upgrader       websocket.Upgrader
	allowedOrigins []string
	metrics        *ws.OTelMetrics
	logger         *slog.Logger
}

// NewWebSocketHandler creates the upgrade handler. Origins listed in
// allowedOrigins (or "*") may connect in addition to same-host pages.
func NewWebSocketHandler(hub *ws.Hub, cfg config.WebSocketConfig, allowedOrigins []string, metrics *ws.OTelMetrics, logger *slog.Logger) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:            hub,
		allowedOrigins: allowedOrigins,
		metrics:        metrics,
		logger:         logger.With(slog.String("component", "websocket_handler")),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// ServeHTTP handles GET /ws
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	traceID := infrastructure.GetTraceID(ctx)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already answered the request
		h.metrics.RecordUpgradeError(ctx)
		h.logger.WarnContext(ctx, "websocket upgrade failed",
			slog.String("origin", r.Header.Get("Origin")),
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("error", err.Error()))
		return
	}

	client := ws.NewClient(h.hub, ws.NewConnectionWrapper(conn), traceID, h.logger)
	if !h.hub.Register(client) {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
