package handler

import (
	"log/slog"
	"net/http"

	"notes-api/internal/websocket"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
)

// WebSocketHandler upgrades /ws connections and attaches them to the event
// manager. Clients only receive events; there is nothing to authorize.
type WebSocketHandler struct {
	manager  *websocket.Manager
	upgrader ws.Upgrader
	log      *slog.Logger
}

func NewWebSocketHandler(manager *websocket.Manager, readBufferSize, writeBufferSize int, log *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		manager: manager,
		upgrader: ws.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Failed to upgrade connection", "remote", r.RemoteAddr, "error", err)
		return
	}

	client := websocket.NewClient(uuid.New().String(), conn, h.manager)
	if !h.manager.Attach(client) {
		conn.Close()
		return
	}

	h.log.Debug("WebSocket client connected", "client", client.ID, "remote", r.RemoteAddr)

	go client.WritePump()
	go client.ReadPump()
}
