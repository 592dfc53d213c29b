package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var errConnClosed = errors.New("connection closed")

type frame struct {
	Type int
	Data []byte
}

// mockConnection is an in-memory Connection. Reads block until a frame is
// pushed or the connection is closed.
type mockConnection struct {
	mu        sync.Mutex
	written   []frame
	writeErr  error
	readLimit int64
	pong      func(string) error

	inbound   chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newMockConnection() *mockConnection {
	return &mockConnection{
		inbound: make(chan []byte, 16),
		closed:  make(chan struct{}),
	}
}

func (m *mockConnection) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.isClosed() {
		return errConnClosed
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written = append(m.written, frame{Type: messageType, Data: append([]byte(nil), data...)})
	return nil
}

func (m *mockConnection) ReadMessage() (int, []byte, error) {
	select {
	case data := <-m.inbound:
		return websocket.TextMessage, data, nil
	case <-m.closed:
		return 0, nil, &websocket.CloseError{Code: websocket.CloseGoingAway}
	}
}

func (m *mockConnection) Close() error {
	m.closeOnce.Do(func() { close(m.closed) })
	return nil
}

func (m *mockConnection) isClosed() bool {
	select {
	case <-m.closed:
		return true
	default:
		return false
	}
}

func (m *mockConnection) SetReadDeadline(time.Time) error  { return nil }
func (m *mockConnection) SetWriteDeadline(time.Time) error { return nil }

func (m *mockConnection) SetReadLimit(limit int64) {
	m.mu.Lock()
	m.readLimit = limit
	m.mu.Unlock()
}

func (m *mockConnection) SetPongHandler(h func(string) error) {
	m.mu.Lock()
	m.pong = h
	m.mu.Unlock()
}

func (m *mockConnection) RemoteAddr() string { return "127.0.0.1:50000" }

func (m *mockConnection) push(data string) { m.inbound <- []byte(data) }

func (m *mockConnection) failWrites(err error) {
	m.mu.Lock()
	m.writeErr = err
	m.mu.Unlock()
}

// frames returns a copy of the frames written so far, filtered by type.
func (m *mockConnection) frames(messageType int) []frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []frame
	for _, f := range m.written {
		if f.Type == messageType {
			out = append(out, f)
		}
	}
	return out
}
