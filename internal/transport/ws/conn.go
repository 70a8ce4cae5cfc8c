package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mcoot/mtlobby/internal/model"
)

var (
	// ErrClosed is returned when sending on a closed connection
	ErrClosed = errors.New("connection closed")
	// ErrSendQueueFull is returned when the outgoing buffer is full
	ErrSendQueueFull = errors.New("send queue full")
)

// Conn is one websocket client. Writes go through a buffered queue drained
// by a single writer goroutine, so Send never blocks on the network.
type Conn struct {
	id     string
	ws     *websocket.Conn
	cfg    Config
	logger *slog.Logger

	send      chan []byte
	done      chan struct{}
	closed    atomic.Bool
	closeOnce sync.Once

	mu       sync.RWMutex
	playerID model.PlayerID
}

// Ensure Conn implements model.Conn
var _ model.Conn = (*Conn)(nil)

func newConn(ws *websocket.Conn, cfg Config, logger *slog.Logger) *Conn {
	id := uuid.New().String()
	return &Conn{
		id:     id,
		ws:     ws,
		cfg:    cfg,
		logger: logger.With(slog.String("conn_id", id)),
		send:   make(chan []byte, cfg.SendBufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the connection's unique ID
func (c *Conn) ID() string {
	return c.id
}

// PlayerID returns the player bound by a successful handshake, or ""
func (c *Conn) PlayerID() model.PlayerID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// SetPlayerID binds the connection to a player
func (c *Conn) SetPlayerID(id model.PlayerID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = id
}

// Send enqueues a named event for the client
func (c *Conn) Send(event string, payload any) error {
	data, err := encodeFrame(event, nil, payload)
	if err != nil {
		return err
	}
	return c.enqueue(data)
}

// Ack answers a client frame that asked for acknowledgement
func (c *Conn) Ack(id int64, payload any) error {
	data, err := encodeFrame(AckEvent, &id, payload)
	if err != nil {
		return err
	}
	return c.enqueue(data)
}

// Close tears down the connection. Safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)

		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.cfg.WriteWait))
		err = c.ws.Close()
	})
	return err
}

// Closed reports whether Close has been called
func (c *Conn) Closed() bool {
	return c.closed.Load()
}

func (c *Conn) enqueue(data []byte) error {
	if c.closed.Load() {
		return ErrClosed
	}
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return ErrClosed
	default:
		return ErrSendQueueFull
	}
}

// readPump delivers inbound frames to h in arrival order until the peer goes
// away, then closes the connection.
func (c *Conn) readPump(h Handler) {
	defer c.Close()

	c.ws.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		msgType, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("unexpected close", slog.String("error", err.Error()))
			}
			return
		}
		if msgType != websocket.TextMessage {
			c.logger.Debug("ignoring non-text message", slog.Int("type", msgType))
			continue
		}

		var f Frame
		if err := json.Unmarshal(data, &f); err != nil || f.Event == "" {
			c.logger.Debug("ignoring malformed frame")
			continue
		}
		h.OnMessage(c, f)
	}
}

// writePump is the only goroutine writing data frames
func (c *Conn) writePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logger.Debug("write failed", slog.String("error", err.Error()))
				_ = c.Close()
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.cfg.WriteWait)); err != nil {
				_ = c.Close()
				return
			}
		}
	}
}
