package ws

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Handler receives connection lifecycle events.
// OnMessage calls for one connection are sequential; OnClose follows the last one.
type Handler interface {
	OnOpen(c *Conn)
	OnMessage(c *Conn, f Frame)
	OnClose(c *Conn)
}

// Server upgrades HTTP requests to websocket connections
type Server struct {
	upgrader websocket.Upgrader
	cfg      Config
	handler  Handler
	logger   *slog.Logger

	mu    sync.Mutex
	conns map[string]*Conn
}

// NewServer creates a websocket Server dispatching to handler
func NewServer(cfg Config, handler Handler, logger *slog.Logger) *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		cfg:     cfg,
		handler: handler,
		logger:  logger.With(slog.String("component", "ws")),
		conns:   make(map[string]*Conn),
	}
}

// ServeHTTP upgrades the request and serves the connection until it closes
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		s.logger.Debug("upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := newConn(wsConn, s.cfg, s.logger)
	s.track(c)
	defer s.untrack(c)

	s.logger.Debug("connection opened",
		slog.String("conn_id", c.ID()),
		slog.String("remote_addr", r.RemoteAddr))
	s.handler.OnOpen(c)

	go c.writePump()
	c.readPump(s.handler)

	s.handler.OnClose(c)
	s.logger.Debug("connection closed", slog.String("conn_id", c.ID()))
}

// Len returns the number of open connections, authenticated or not
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// CloseAll closes every open connection
func (s *Server) CloseAll() {
	s.mu.Lock()
	conns := make([]*Conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
}

func (s *Server) track(c *Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[c.id] = c
}

func (s *Server) untrack(c *Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, c.id)
}
