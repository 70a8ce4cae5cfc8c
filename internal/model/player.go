package model

import "time"

// PlayerID uniquely identifies a player account across the platform.
// It comes from the identity blob's user_token and is never generated here.
type PlayerID string

// Identity is the decrypted content of a handshake identity blob
type Identity struct {
	Name      string       `json:"name"`
	Avatar    string       `json:"avatar"`
	PlayerID  PlayerID     `json:"user_token"`
	CreatedAt time.Time    `json:"created_at"`
	Rating    float64      `json:"rating"`
	Tables    []TableEntry `json:"tables"`
}

// TableIDs returns the table identifiers listed in the identity
func (i *Identity) TableIDs() []TableID {
	ids := make([]TableID, 0, len(i.Tables))
	for _, t := range i.Tables {
		if t.TableID == "" {
			continue
		}
		ids = append(ids, t.TableID)
	}
	return ids
}

// Conn is a handle to one live push connection.
// Implementations must be safe for concurrent use; Send must not block on delivery.
type Conn interface {
	// ID is unique per underlying transport connection
	ID() string
	// Send enqueues a named event for the remote client
	Send(event string, payload any) error
	// Close forcibly closes the underlying transport
	Close() error
}

// SessionRecord pairs a player with their one live connection
type SessionRecord struct {
	PlayerID  PlayerID
	Conn      Conn
	CreatedAt time.Time
}

// Presence describes what the lobby currently knows about a player
type Presence struct {
	PlayerID       PlayerID
	Online         bool
	ConnectionID   string
	ConnectedSince time.Time
	Tables         []TableID
}
