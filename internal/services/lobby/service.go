package lobby

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/mtlobby/internal/dependencies/clock"
	"github.com/mcoot/mtlobby/internal/metrics"
	"github.com/mcoot/mtlobby/internal/model"
	"github.com/mcoot/mtlobby/internal/services/session"
	"github.com/mcoot/mtlobby/internal/storage"
)

// Decrypter turns a handshake identity blob into an Identity
type Decrypter interface {
	Decrypt(blob []byte) (*model.Identity, error)
}

// HandshakeResult is what a successful handshake reports back to the client
type HandshakeResult struct {
	PlayerID  model.PlayerID
	Name      string
	Avatar    string
	Rating    float64
	Tables    []model.TableID
	TableURLs []string
	Displaced bool
}

// Service is the only writer of the session registry and the membership store.
// Handshake, AddTable, LeaveTable and Disconnect for one player are serialized;
// different players never contend.
type Service struct {
	registry   *session.Registry
	membership storage.Membership
	cipher     Decrypter
	clock      clock.Clock
	locks      *playerLocks
	logger     *slog.Logger
}

// NewService creates a new lobby Service
func NewService(
	registry *session.Registry,
	membership storage.Membership,
	cipher Decrypter,
	clock clock.Clock,
	logger *slog.Logger,
) *Service {
	return &Service{
		registry:   registry,
		membership: membership,
		cipher:     cipher,
		clock:      clock,
		locks:      newPlayerLocks(),
		logger:     logger.With(slog.String("component", "lobby")),
	}
}

// Handshake authenticates conn with an identity blob, makes it the player's
// only live connection and seeds their side tables from the identity.
// offeredURLs are echoed back untouched; they never affect membership.
// A blob that fails to decrypt returns an error wrapping model.ErrDecrypt and
// changes nothing. conn is left open either way.
func (s *Service) Handshake(ctx context.Context, conn model.Conn, blob []byte, offeredURLs []string) (*HandshakeResult, error) {
	identity, err := s.cipher.Decrypt(blob)
	if err != nil {
		metrics.RecordHandshake(metrics.HandshakeRejected)
		s.logger.Warn("handshake rejected",
			slog.String("conn_id", conn.ID()),
			slog.String("error", err.Error()))
		return nil, err
	}

	id := identity.PlayerID
	tables := identity.TableIDs()

	unlock := s.locks.lock(id)
	defer unlock()

	displaced := s.registry.Register(id, conn, s.clock.Now())
	if displaced != nil && displaced.ID() != conn.ID() {
		if err := displaced.Close(); err != nil {
			s.logger.Warn("failed to close displaced connection",
				slog.String("player_id", string(id)),
				slog.String("conn_id", displaced.ID()),
				slog.String("error", err.Error()))
		}
	}

	if err := s.membership.Seed(ctx, id, tables); err != nil {
		// Leave the player offline rather than connected with a stale set
		s.registry.Unregister(id, conn)
		metrics.SetActiveSessions(s.registry.Len())
		metrics.RecordHandshake(metrics.HandshakeFailed)
		return nil, fmt.Errorf("seed membership for %s: %w", id, err)
	}

	metrics.SetActiveSessions(s.registry.Len())
	if displaced != nil {
		metrics.RecordHandshake(metrics.HandshakeDisplaced)
	} else {
		metrics.RecordHandshake(metrics.HandshakeAccepted)
	}

	s.logger.Info("handshake accepted",
		slog.String("player_id", string(id)),
		slog.String("conn_id", conn.ID()),
		slog.Int("tables", len(tables)))

	snapshot := make([]model.TableID, len(tables))
	copy(snapshot, tables)

	return &HandshakeResult{
		PlayerID:  id,
		Name:      identity.Name,
		Avatar:    identity.Avatar,
		Rating:    identity.Rating,
		Tables:    snapshot,
		TableURLs: offeredURLs,
		Displaced: displaced != nil,
	}, nil
}

// NotifyTurn pushes a turn-to-act notice for table to the player's live
// connection. An offline player is silently skipped. It reports whether a
// push was enqueued.
func (s *Service) NotifyTurn(ctx context.Context, id model.PlayerID, table model.TableID) bool {
	conn, ok := s.registry.Lookup(id)
	if !ok {
		s.logger.Debug("turn notice for offline player",
			slog.String("player_id", string(id)),
			slog.String("table_id", string(table)))
		return false
	}
	return s.push(id, conn, model.EventTurn, model.TurnPayload{TableID: table})
}

// AddTable adds a side table for a connected player and tells their client to
// mount it. It reports false when the player is offline, was never seeded, or
// already has the table.
func (s *Service) AddTable(ctx context.Context, id model.PlayerID, client model.TableClient) (bool, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	conn, ok := s.registry.Lookup(id)
	if !ok {
		metrics.RecordMembership("add", false)
		s.logger.Debug("add table for offline player",
			slog.String("player_id", string(id)),
			slog.String("table_id", string(client.TableID)))
		return false, nil
	}

	added, err := s.membership.Add(ctx, id, client.TableID)
	if err != nil {
		return false, fmt.Errorf("add table %s for %s: %w", client.TableID, id, err)
	}
	metrics.RecordMembership("add", added)
	if !added {
		return false, nil
	}

	s.push(id, conn, model.EventClientAdd, model.ClientAddPayload{
		Server:  client.Server,
		URL:     client.URL,
		TableID: client.TableID,
	})
	return true, nil
}

// LeaveTable removes a side table and, if the player is connected, tells
// their client to unmount the view identified by threadToken. Removing a
// table that is not a member does nothing.
func (s *Service) LeaveTable(ctx context.Context, table model.TableID, id model.PlayerID, threadToken string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	removed, err := s.membership.Remove(ctx, id, table)
	if err != nil {
		return fmt.Errorf("remove table %s for %s: %w", table, id, err)
	}
	metrics.RecordMembership("leave", removed)
	if !removed {
		return nil
	}

	conn, ok := s.registry.Lookup(id)
	if !ok {
		return nil
	}
	s.push(id, conn, model.EventClientLeave, model.ClientLeavePayload{
		TableID:     table,
		ThreadToken: threadToken,
	})
	return nil
}

// Disconnect forgets conn as the player's session unless a newer connection
// has already replaced it. Membership is kept for the next handshake.
func (s *Service) Disconnect(ctx context.Context, id model.PlayerID, conn model.Conn) bool {
	unlock := s.locks.lock(id)
	defer unlock()

	rec, _ := s.registry.Record(id)
	if !s.registry.Unregister(id, conn) {
		return false
	}

	metrics.SetActiveSessions(s.registry.Len())
	s.logger.Info("player disconnected",
		slog.String("player_id", string(id)),
		slog.String("connection_id", conn.ID()),
		slog.Duration("session_age", clock.Since(s.clock, rec.CreatedAt)))
	return true
}

// Presence reports whether the player is online and which side tables they hold
func (s *Service) Presence(ctx context.Context, id model.PlayerID) (*model.Presence, error) {
	tables, err := s.membership.Snapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("snapshot membership for %s: %w", id, err)
	}

	p := &model.Presence{
		PlayerID: id,
		Tables:   tables,
	}
	if rec, ok := s.registry.Record(id); ok {
		p.Online = true
		p.ConnectionID = rec.Conn.ID()
		p.ConnectedSince = rec.CreatedAt
	}
	return p, nil
}

// Sessions returns the number of live sessions
func (s *Service) Sessions() int {
	return s.registry.Len()
}

// Shutdown closes every live connection and empties the registry
func (s *Service) Shutdown() {
	records := s.registry.Drain()
	for _, rec := range records {
		if err := rec.Conn.Close(); err != nil {
			s.logger.Warn("failed to close connection on shutdown",
				slog.String("player_id", string(rec.PlayerID)),
				slog.String("error", err.Error()))
		}
	}
	metrics.SetActiveSessions(0)
	s.logger.Info("lobby shut down", slog.Int("closed_sessions", len(records)))
}

func (s *Service) push(id model.PlayerID, conn model.Conn, event string, payload any) bool {
	err := conn.Send(event, payload)
	metrics.RecordPush(event, err)
	if err != nil {
		s.logger.Warn("push dropped",
			slog.String("player_id", string(id)),
			slog.String("conn_id", conn.ID()),
			slog.String("event", event),
			slog.String("error", err.Error()))
		return false
	}
	return true
}
