package ws

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"kartlobby/internal/domain"
	"kartlobby/internal/lobby"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Peer is one connected participant's websocket connection. Inbound frames
// are decoded and routed to the active server lobby found via the session
// registry; outbound frames are queued on a buffered channel drained by the
// write pump.
type Peer struct {
	id     int
	conn   *websocket.Conn
	hub    *Hub
	send   chan []byte
	done   chan struct{}
	logger *slog.Logger
	mu     sync.Mutex
	closed bool
}

func newPeer(id int, conn *websocket.Conn, hub *Hub, logger *slog.Logger) *Peer {
	return &Peer{
		id:     id,
		conn:   conn,
		hub:    hub,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// ID returns the transport-assigned peer id
func (p *Peer) ID() int {
	return p.id
}

// Send queues one encoded frame for delivery
func (p *Peer) Send(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	select {
	case p.send <- data:
		return nil
	default:
		p.logger.Warn("send buffer full, message dropped", "peerID", p.id)
		return nil
	}
}

// Close tears the connection down
func (p *Peer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	close(p.done)
	return p.conn.Close()
}

// Run starts the peer's read and write pumps; it returns when the
// connection drops.
func (p *Peer) Run() {
	go p.writePump()
	p.readPump()
}

// readPump pumps frames from the websocket connection into the lobby
func (p *Peer) readPump() {
	defer func() {
		p.hub.removePeer(p.id)
		if srv, ok := lobby.GetServer(); ok {
			srv.PeerDisconnected(p.id)
		}
		p.Close()
	}()

	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.logger.Debug("read error", "peerID", p.id, "error", err)
			}
			return
		}

		ev, err := DecodeEvent(data)
		if err != nil {
			p.logger.Warn("undecodable frame dropped", "peerID", p.id, "error", err)
			continue
		}

		srv, ok := lobby.GetServer()
		if !ok {
			p.logger.Warn("no active server lobby, frame dropped", "peerID", p.id, "type", ev.Type)
			continue
		}

		if err := srv.HandleEvent(p.id, ev); err != nil {
			var violation *domain.ProtocolViolationError
			if errors.As(err, &violation) {
				// Reported and dropped; the session continues.
				p.logger.Warn("protocol violation", "peerID", p.id, "error", violation)
				continue
			}
			p.logger.Warn("event rejected", "peerID", p.id, "type", ev.Type, "error", err)
		}
	}
}

// writePump pumps frames from the send channel to the websocket connection
func (p *Peer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.Close()
	}()

	for {
		select {
		case <-p.done:
			return
		case data := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
