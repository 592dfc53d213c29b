// Package events contains the websocket event contracts of the dashboard.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// MessageTypeDatasetReady announces a dataset that can be queried.
	MessageTypeDatasetReady MessageType = "dataset:ready"
	// MessageTypeDatasetFailed announces an upload that could not be read.
	MessageTypeDatasetFailed MessageType = "dataset:failed"

	// Connection messages
	MessageTypeConnect MessageType = "connect"
	MessageTypeError   MessageType = "error"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`       // Unique message ID
	Type      MessageType `json:"type"`               // Message type
	Timestamp time.Time   `json:"timestamp"`          // Message timestamp
	TraceID   string      `json:"trace_id,omitempty"` // Request trace ID
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"`
}

// DatasetEvent is the payload of dataset:ready and dataset:failed.
type DatasetEvent struct {
	DatasetID string `json:"dataset_id,omitempty"`
	FileName  string `json:"file_name"`
	Students  int    `json:"students,omitempty"`
	Sessions  int    `json:"sessions,omitempty"`
	Cached    bool   `json:"cached,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ConnectEvent is sent to a client right after it connects.
type ConnectEvent struct {
	ClientID string `json:"client_id"`
	Message  string `json:"message"`
}
