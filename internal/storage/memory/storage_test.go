package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mtlobby/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Seed tests

func (s *StorageSuite) TestSeedAndSnapshot() {
	err := s.storage.Seed(s.ctx, "p1", []model.TableID{"t2", "t1"})
	s.Require().NoError(err)

	tables, err := s.storage.Snapshot(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal([]model.TableID{"t1", "t2"}, tables)
}

func (s *StorageSuite) TestSeedOverwrites() {
	_ = s.storage.Seed(s.ctx, "p1", []model.TableID{"t1", "t2"})
	_ = s.storage.Seed(s.ctx, "p1", []model.TableID{"t3"})

	tables, _ := s.storage.Snapshot(s.ctx, "p1")
	s.Equal([]model.TableID{"t3"}, tables)
}

func (s *StorageSuite) TestSeedDeduplicates() {
	_ = s.storage.Seed(s.ctx, "p1", []model.TableID{"t1", "t1"})

	tables, _ := s.storage.Snapshot(s.ctx, "p1")
	s.Equal([]model.TableID{"t1"}, tables)
}

// Add tests

func (s *StorageSuite) TestAddInsertsNewTable() {
	_ = s.storage.Seed(s.ctx, "p1", nil)

	added, err := s.storage.Add(s.ctx, "p1", "t1")
	s.Require().NoError(err)
	s.True(added)

	tables, _ := s.storage.Snapshot(s.ctx, "p1")
	s.Equal([]model.TableID{"t1"}, tables)
}

func (s *StorageSuite) TestAddDuplicateReturnsFalse() {
	_ = s.storage.Seed(s.ctx, "p1", nil)

	first, _ := s.storage.Add(s.ctx, "p1", "t1")
	second, err := s.storage.Add(s.ctx, "p1", "t1")
	s.Require().NoError(err)
	s.True(first)
	s.False(second)

	tables, _ := s.storage.Snapshot(s.ctx, "p1")
	s.Len(tables, 1)
}

func (s *StorageSuite) TestAddWithoutSeedReturnsFalse() {
	added, err := s.storage.Add(s.ctx, "p1", "t1")
	s.Require().NoError(err)
	s.False(added)

	tables, _ := s.storage.Snapshot(s.ctx, "p1")
	s.Empty(tables)
}

// Remove tests

func (s *StorageSuite) TestRemovePresentTable() {
	_ = s.storage.Seed(s.ctx, "p1", []model.TableID{"t1", "t2"})

	removed, err := s.storage.Remove(s.ctx, "p1", "t1")
	s.Require().NoError(err)
	s.True(removed)

	tables, _ := s.storage.Snapshot(s.ctx, "p1")
	s.Equal([]model.TableID{"t2"}, tables)
}

func (s *StorageSuite) TestRemoveAbsentTable() {
	_ = s.storage.Seed(s.ctx, "p1", []model.TableID{"t1"})

	removed, err := s.storage.Remove(s.ctx, "p1", "t9")
	s.Require().NoError(err)
	s.False(removed)
}

func (s *StorageSuite) TestRemoveUnknownPlayer() {
	removed, err := s.storage.Remove(s.ctx, "nobody", "t1")
	s.Require().NoError(err)
	s.False(removed)
}

func (s *StorageSuite) TestRemoveLastTableKeepsSeededSet() {
	_ = s.storage.Seed(s.ctx, "p1", []model.TableID{"t1"})
	_, _ = s.storage.Remove(s.ctx, "p1", "t1")

	added, err := s.storage.Add(s.ctx, "p1", "t2")
	s.Require().NoError(err)
	s.True(added)
}

// Snapshot tests

func (s *StorageSuite) TestSnapshotIsACopy() {
	_ = s.storage.Seed(s.ctx, "p1", []model.TableID{"t1"})

	tables, _ := s.storage.Snapshot(s.ctx, "p1")
	tables[0] = "mutated"

	again, _ := s.storage.Snapshot(s.ctx, "p1")
	s.Equal([]model.TableID{"t1"}, again)
}

// Delete tests

func (s *StorageSuite) TestDeleteDropsSet() {
	_ = s.storage.Seed(s.ctx, "p1", []model.TableID{"t1"})

	s.Require().NoError(s.storage.Delete(s.ctx, "p1"))

	added, _ := s.storage.Add(s.ctx, "p1", "t2")
	s.False(added)
}
