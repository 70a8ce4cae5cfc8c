package mocks

import (
	"sync"

	"github.com/mcoot/mtlobby/internal/model"
)

// SentEvent is one event captured by MockConn
type SentEvent struct {
	Event   string
	Payload any
}

// MockConn records sends and closes instead of touching a network
type MockConn struct {
	id string

	mu      sync.Mutex
	sent    []SentEvent
	closed  bool
	SendErr error
}

// Ensure MockConn implements Conn
var _ model.Conn = (*MockConn)(nil)

// NewMockConn creates a MockConn with the given connection ID
func NewMockConn(id string) *MockConn {
	return &MockConn{id: id}
}

// ID returns the connection ID
func (c *MockConn) ID() string {
	return c.id
}

// Send records the event
func (c *MockConn) Send(event string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SendErr != nil {
		return c.SendErr
	}
	c.sent = append(c.sent, SentEvent{Event: event, Payload: payload})
	return nil
}

// Close marks the connection closed
func (c *MockConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Sent returns a copy of every recorded event
func (c *MockConn) Sent() []SentEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]SentEvent, len(c.sent))
	copy(out, c.sent)
	return out
}

// Closed reports whether Close was called
func (c *MockConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
