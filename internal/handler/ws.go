package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/kyiku/aggpack/internal/job"
	"github.com/kyiku/aggpack/internal/model"
	ws "github.com/kyiku/aggpack/internal/websocket"
)

// WebSocketHandler streams generation progress to clients. A client
// subscribes to a job by sending {"type": "subscribe", "job_id": ...}.
type WebSocketHandler struct {
	store    *job.Store
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(store *job.Store) *WebSocketHandler {
	return &WebSocketHandler{
		store: store,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Connect upgrades the connection and runs the read loop. A job query
// parameter subscribes immediately, without waiting for a subscribe
// message.
func (h *WebSocketHandler) Connect(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	h.Serve(conn, c.QueryParam("job"))
	return nil
}

// progressConn is the connection surface the read loop needs.
type progressConn interface {
	model.WebSocketConn
	ReadMessage() (int, []byte, error)
}

// Serve reads client messages until the connection drops.
func (h *WebSocketHandler) Serve(conn progressConn, jobID string) {
	var subscribed *job.Job
	defer func() {
		if subscribed != nil {
			subscribed.Unsubscribe(conn)
		}
	}()

	if jobID != "" {
		subscribed = h.subscribe(conn, nil, jobID)
	}

	ping := ws.NewPingHandler(conn)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if ping.Handle(raw) {
			continue
		}

		msg, ok := ws.Parse(raw)
		if !ok {
			_ = conn.WriteJSON(map[string]interface{}{
				"type":    "error",
				"message": "不明なメッセージです",
			})
			continue
		}

		switch msg.Type {
		case "subscribe":
			if next := h.subscribe(conn, subscribed, msg.JobID); next != nil {
				subscribed = next
			}
		case "unsubscribe":
			if subscribed != nil {
				subscribed.Unsubscribe(conn)
				subscribed = nil
			}
		}
	}
}

// subscribe attaches conn to the job named by id, replacing the current
// subscription. A lookup failure leaves the current subscription intact
// and returns nil.
func (h *WebSocketHandler) subscribe(conn progressConn, current *job.Job, id string) *job.Job {
	j, found := h.store.Get(id)
	if !found {
		_ = conn.WriteJSON(map[string]interface{}{
			"type":    "error",
			"message": "ジョブが見つかりません",
		})
		return nil
	}
	if current != nil {
		current.Unsubscribe(conn)
	}
	j.Subscribe(conn)
	_ = conn.WriteJSON(map[string]interface{}{
		"type":   "subscribed",
		"job_id": j.ID,
		"state":  j.State(),
	})
	return j
}
