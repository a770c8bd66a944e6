package ws

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"kartlobby/internal/domain"
	"kartlobby/internal/lobby"
)

// ClientConn is the client side of the lobby message channel: one websocket
// connection to the server. SendTo only ever addresses the server, so the
// peer id argument is ignored; inbound frames are routed to the active
// client lobby found via the session registry.
type ClientConn struct {
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	logger *slog.Logger
	mu     sync.Mutex
	closed bool
}

// Dial connects to a lobby server's websocket endpoint
func Dial(ctx context.Context, url string, logger *slog.Logger) (*ClientConn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &ClientConn{
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		logger: logger,
	}, nil
}

// SendTo implements lobby.Messenger; every frame goes to the server
func (c *ClientConn) SendTo(_ int, ev *domain.Event) error {
	data, err := EncodeEvent(ev)
	if err != nil {
		return err
	}
	return c.enqueue(data)
}

// Broadcast implements lobby.Messenger; on the client side the only
// addressable peer is the server.
func (c *ClientConn) Broadcast(ev *domain.Event) error {
	return c.SendTo(lobby.ServerPeerID, ev)
}

func (c *ClientConn) enqueue(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errors.New("connection closed")
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("send buffer full, message dropped")
		return nil
	}
}

// Close tears the connection down
func (c *ClientConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the read and write pumps; it returns when the connection drops
func (c *ClientConn) Run() {
	go c.writePump()
	c.readPump()
}

func (c *ClientConn) readPump() {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("read error", "error", err)
			}
			return
		}

		ev, err := DecodeEvent(data)
		if err != nil {
			c.logger.Warn("undecodable frame dropped", "error", err)
			continue
		}

		cl, ok := lobby.GetClient()
		if !ok {
			c.logger.Warn("no active client lobby, frame dropped", "type", ev.Type)
			continue
		}

		if err := cl.HandleEvent(lobby.ServerPeerID, ev); err != nil {
			var violation *domain.ProtocolViolationError
			if errors.As(err, &violation) {
				c.logger.Warn("protocol violation", "error", violation)
				continue
			}
			c.logger.Warn("event rejected", "type", ev.Type, "error", err)
		}
	}
}

func (c *ClientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
