package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/mcoot/mtlobby/internal/model"
	"github.com/mcoot/mtlobby/internal/storage"
)

// Storage is an in-memory implementation of the membership store
type Storage struct {
	mu sync.RWMutex

	// A present but empty set means seeded with no tables
	memberships map[model.PlayerID]map[model.TableID]struct{}
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		memberships: make(map[model.PlayerID]map[model.TableID]struct{}),
	}
}

// Ensure Storage implements the interface
var _ storage.Membership = (*Storage)(nil)

func (s *Storage) Seed(ctx context.Context, id model.PlayerID, tables []model.TableID) error {
	set := make(map[model.TableID]struct{}, len(tables))
	for _, t := range tables {
		set[t] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberships[id] = set
	return nil
}

func (s *Storage) Add(ctx context.Context, id model.PlayerID, table model.TableID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.memberships[id]
	if !ok {
		return false, nil
	}
	if _, exists := set[table]; exists {
		return false, nil
	}
	set[table] = struct{}{}
	return true, nil
}

func (s *Storage) Remove(ctx context.Context, id model.PlayerID, table model.TableID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.memberships[id]
	if !ok {
		return false, nil
	}
	if _, exists := set[table]; !exists {
		return false, nil
	}
	delete(set, table)
	return true, nil
}

func (s *Storage) Snapshot(ctx context.Context, id model.PlayerID) ([]model.TableID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.memberships[id]
	result := make([]model.TableID, 0, len(set))
	for t := range set {
		result = append(result, t)
	}
	slices.Sort(result)
	return result, nil
}

func (s *Storage) Delete(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.memberships, id)
	return nil
}
