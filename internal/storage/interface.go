package storage

import (
	"context"

	"github.com/mcoot/mtlobby/internal/model"
)

// Membership tracks, per player, the side tables they have open.
// Every method is atomic per player.
type Membership interface {
	// Seed replaces the player's membership set with tables
	Seed(ctx context.Context, id model.PlayerID, tables []model.TableID) error

	// Add inserts table. It reports false without mutating when the table is
	// already a member or the player has never been seeded.
	Add(ctx context.Context, id model.PlayerID, table model.TableID) (bool, error)

	// Remove deletes table, reporting false when it was not a member
	Remove(ctx context.Context, id model.PlayerID, table model.TableID) (bool, error)

	// Snapshot returns a sorted copy of the player's tables
	Snapshot(ctx context.Context, id model.PlayerID) ([]model.TableID, error)

	// Delete drops the player's membership set entirely
	Delete(ctx context.Context, id model.PlayerID) error
}
