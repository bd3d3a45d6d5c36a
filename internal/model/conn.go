package model

// WebSocketConn defines the interface for WebSocket connections used by
// the progress broadcaster. Satisfied by *websocket.Conn.
type WebSocketConn interface {
	WriteMessage(messageType int, data []byte) error
	WriteJSON(v interface{}) error
	Close() error
}
