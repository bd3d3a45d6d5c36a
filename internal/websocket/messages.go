// Package websocket provides WebSocket message handling utilities for
// the progress stream.
package websocket

import (
	"encoding/json"

	"github.com/kyiku/aggpack/internal/model"
)

// ClientMessage is what the progress stream accepts from clients:
// keepalive pings and job subscriptions.
type ClientMessage struct {
	Type  string `json:"type"`
	JobID string `json:"job_id,omitempty"`
}

// Parse decodes a client message. It returns false for malformed or
// unknown payloads.
func Parse(message []byte) (ClientMessage, bool) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return ClientMessage{}, false
	}
	switch msg.Type {
	case "ping", "subscribe", "unsubscribe":
		return msg, true
	}
	return ClientMessage{}, false
}

// PingHandler answers ping messages on a connection.
type PingHandler struct {
	conn model.WebSocketConn
}

// NewPingHandler creates a new PingHandler.
func NewPingHandler(conn model.WebSocketConn) *PingHandler {
	return &PingHandler{
		conn: conn,
	}
}

// Handle processes a message and returns true if it was a ping message.
func (h *PingHandler) Handle(message []byte) bool {
	msg, ok := Parse(message)
	if !ok || msg.Type != "ping" {
		return false
	}

	_ = h.conn.WriteJSON(map[string]interface{}{
		"type": "pong",
	})

	return true
}
