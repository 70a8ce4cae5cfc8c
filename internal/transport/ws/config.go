package ws

import "time"

// Config controls per-connection keepalive and buffering
type Config struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration
	// Time allowed to read the next pong from the peer
	PongWait time.Duration
	// Time between pings; must be less than PongWait
	PingPeriod time.Duration
	// Buffered outgoing messages before Send starts dropping
	SendBufferSize int
	// Largest inbound frame accepted
	MaxMessageSize int64
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     50 * time.Second,
		SendBufferSize: 256,
		MaxMessageSize: 64 * 1024,
	}
}
