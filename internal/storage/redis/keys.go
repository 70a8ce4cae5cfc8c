package redis

import (
	"fmt"

	"github.com/mcoot/mtlobby/internal/model"
)

// Key prefix for all lobby data
const keyPrefix = "mtlobby"

// membershipKey returns the Redis key for the SET of a player's side tables
func membershipKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:membership:%s", keyPrefix, id)
}

// seededKey marks that a player's membership set exists, even when empty.
// Redis drops empty sets, so the marker carries that state.
func seededKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:membership_seeded:%s", keyPrefix, id)
}
