package response

import (
	"time"

	"github.com/mcoot/mtlobby/internal/model"
)

// Status is the body of the table-manager facing endpoints
type Status struct {
	Status bool `json:"status"`
}

// Health is the body of the health check
type Health struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// Presence describes a player's session and side tables
type Presence struct {
	UserToken      string     `json:"user_token"`
	Online         bool       `json:"online"`
	ConnectionID   string     `json:"connection_id,omitempty"`
	ConnectedSince *time.Time `json:"connected_since,omitempty"`
	Tables         []string   `json:"tables"`
}

// PresenceFromModel converts a model.Presence
func PresenceFromModel(p *model.Presence) Presence {
	tables := make([]string, len(p.Tables))
	for i, t := range p.Tables {
		tables[i] = string(t)
	}

	resp := Presence{
		UserToken:    string(p.PlayerID),
		Online:       p.Online,
		ConnectionID: p.ConnectionID,
		Tables:       tables,
	}
	if p.Online {
		since := p.ConnectedSince
		resp.ConnectedSince = &since
	}
	return resp
}
