package ws

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"kartlobby/internal/domain"
)

// Hub tracks connected peers and implements the lobby's peer-addressed
// message channel. Peer ids increase monotonically and are never reused
// within a session, so a departed peer's id cannot be mistaken for a new
// arrival's.
type Hub struct {
	mu     sync.RWMutex
	peers  map[int]*Peer
	nextID int
	logger *slog.Logger
}

// NewHub creates an empty hub. Ids start at 1; id 0 addresses the server
// itself on the client side and never names a remote peer here.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		peers:  make(map[int]*Peer),
		nextID: 1,
		logger: logger,
	}
}

// addPeer registers a connection and assigns it the next peer id
func (h *Hub) addPeer(conn *websocket.Conn) *Peer {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	peer := newPeer(id, conn, h, h.logger)
	h.peers[id] = peer
	return peer
}

// removePeer forgets a connection; its id is retired forever
func (h *Hub) removePeer(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.peers, id)
}

// PeerCount returns the number of open connections
func (h *Hub) PeerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// SendTo delivers one event to a single peer
func (h *Hub) SendTo(peerID int, ev *domain.Event) error {
	data, err := EncodeEvent(ev)
	if err != nil {
		return err
	}

	h.mu.RLock()
	peer, ok := h.peers[peerID]
	h.mu.RUnlock()
	if !ok {
		return fmt.Errorf("peer %d not connected", peerID)
	}
	return peer.Send(data)
}

// Broadcast delivers one event to every connected peer
func (h *Hub) Broadcast(ev *domain.Event) error {
	data, err := EncodeEvent(ev)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, peer := range h.peers {
		if err := peer.Send(data); err != nil {
			h.logger.Debug("failed to send to peer", "peerID", peer.id, "error", err)
		}
	}
	return nil
}

// Close tears down every connection
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, peer := range h.peers {
		peer.Close()
	}
	h.peers = make(map[int]*Peer)
}
