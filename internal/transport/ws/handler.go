package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

// Handler upgrades HTTP requests to websocket peer connections
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new websocket handler backed by the given hub
func NewHandler(hub *Hub, logger *slog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins for development
				// In production, you should validate the origin
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles websocket upgrade requests. Admission happens at the
// lobby layer once the peer sends its connection request; the transport
// only assigns the peer id and starts the pumps.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	peer := h.hub.addPeer(conn)
	h.logger.Info("peer connected", "peerID", peer.ID(), "remote", r.RemoteAddr)

	peer.Run()
}
