package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David1r20/painel-educacional/internal/config"
	ws "github.com/David1r20/painel-educacional/internal/websocket"
)

type wireMessage struct {
	Type    string                 `json:"type"`
	Subtype string                 `json:"subtype"`
	Action  string                 `json:"action"`
	Data    map[string]interface{} `json:"data"`
}

func newWebSocketServer(t *testing.T, allowedOrigins []string) (*ws.Hub, *httptest.Server, string) {
	t.Helper()
	hub := ws.NewHub(discardLogger())
	hub.Start()

	handler := NewWebSocketHandler(hub, config.Default().WebSocket, allowedOrigins, nil, discardLogger())
	server := httptest.NewServer(handler)
	t.Cleanup(func() {
		hub.Stop()
		server.Close()
	})
	return hub, server, "ws" + strings.TrimPrefix(server.URL, "http")
}

func readWire(t *testing.T, conn *websocket.Conn) wireMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg wireMessage
	require.NoError(t, json.Unmarshal(data, &msg), string(data))
	return msg
}

func TestWebSocketHandler_ConnectAndBroadcast(t *testing.T) {
	hub, _, url := newWebSocketServer(t, nil)

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	hello := readWire(t, conn)
	assert.Equal(t, "connect", hello.Type)
	assert.NotEmpty(t, hello.Data["client_id"])
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	hub.BroadcastUpdate("dataset:ready", "dataset", "ready", map[string]interface{}{"dataset_id": "abc"})

	event := readWire(t, conn)
	assert.Equal(t, "dataset:ready", event.Type)
	assert.Equal(t, "dataset", event.Subtype)
	assert.Equal(t, "ready", event.Action)
	assert.Equal(t, "abc", event.Data["dataset_id"])

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestWebSocketHandler_Origins(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		wantOK  bool
	}{
		{name: "no origin header", origin: "", wantOK: true},
		{name: "listed origin", allowed: []string{"https://escola.example"}, origin: "https://escola.example", wantOK: true},
		{name: "wildcard", allowed: []string{"*"}, origin: "https://anywhere.example", wantOK: true},
		{name: "foreign origin", allowed: []string{"https://escola.example"}, origin: "https://evil.example", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, url := newWebSocketServer(t, tt.allowed)

			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			conn, resp, err := websocket.DefaultDialer.Dial(url, header)
			if tt.wantOK {
				require.NoError(t, err)
				conn.Close()
				return
			}
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		})
	}
}

func TestWebSocketHandler_SameHostOrigin(t *testing.T) {
	_, server, url := newWebSocketServer(t, nil)

	header := http.Header{}
	header.Set("Origin", server.URL)
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	conn.Close()
}

func TestWebSocketHandler_HubStopped(t *testing.T) {
	hub, _, url := newWebSocketServer(t, nil)
	hub.Stop()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), err.Error())
}
