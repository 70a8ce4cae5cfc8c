package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/mtlobby/internal/model"
)

// Registry maps each player to their single live connection.
// All methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	records map[model.PlayerID]*model.SessionRecord
	logger  *slog.Logger
}

// NewRegistry creates an empty Registry
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		records: make(map[model.PlayerID]*model.SessionRecord),
		logger:  logger.With(slog.String("component", "session-registry")),
	}
}

// Register stores conn as the player's live connection.
// If another connection was registered it is returned as displaced; the
// caller owns closing it. The swap happens under one lock so two handles
// are never stored for the same player.
func (r *Registry) Register(id model.PlayerID, conn model.Conn, now time.Time) model.Conn {
	r.mu.Lock()
	prev := r.records[id]
	r.records[id] = &model.SessionRecord{
		PlayerID:  id,
		Conn:      conn,
		CreatedAt: now,
	}
	count := len(r.records)
	r.mu.Unlock()

	if prev == nil {
		r.logger.Info("session registered",
			slog.String("player_id", string(id)),
			slog.String("conn_id", conn.ID()),
			slog.Int("total_sessions", count))
		return nil
	}

	r.logger.Info("session displaced",
		slog.String("player_id", string(id)),
		slog.String("conn_id", conn.ID()),
		slog.String("displaced_conn_id", prev.Conn.ID()))
	return prev.Conn
}

// Lookup returns the player's live connection, if any
func (r *Registry) Lookup(id model.PlayerID) (model.Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, false
	}
	return rec.Conn, true
}

// Record returns a copy of the player's session record, if any
func (r *Registry) Record(id model.PlayerID) (model.SessionRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return model.SessionRecord{}, false
	}
	return *rec, true
}

// Unregister removes the player's record only if it still holds conn.
// A disconnect for a connection that was already displaced is a no-op.
func (r *Registry) Unregister(id model.PlayerID, conn model.Conn) bool {
	r.mu.Lock()
	rec, ok := r.records[id]
	if !ok || rec.Conn.ID() != conn.ID() {
		r.mu.Unlock()
		r.logger.Debug("stale unregister ignored",
			slog.String("player_id", string(id)),
			slog.String("conn_id", conn.ID()))
		return false
	}
	delete(r.records, id)
	count := len(r.records)
	r.mu.Unlock()

	r.logger.Info("session unregistered",
		slog.String("player_id", string(id)),
		slog.String("conn_id", conn.ID()),
		slog.Duration("connection_duration", time.Since(rec.CreatedAt)),
		slog.Int("total_sessions", count))
	return true
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Drain removes and returns every record
func (r *Registry) Drain() []model.SessionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.SessionRecord, 0, len(r.records))
	for id, rec := range r.records {
		out = append(out, *rec)
		delete(r.records, id)
	}
	return out
}
