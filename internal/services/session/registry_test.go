package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mtlobby/internal/dependencies/mocks"
	"github.com/mcoot/mtlobby/internal/model"
	"github.com/mcoot/mtlobby/internal/testutil"
)

type RegistrySuite struct {
	suite.Suite
	registry *Registry
	now      time.Time
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.registry = NewRegistry(testutil.NopLogger())
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// Register tests

func (s *RegistrySuite) TestRegisterNewPlayerReturnsNoDisplaced() {
	h1 := mocks.NewMockConn("h1")

	displaced := s.registry.Register("p1", h1, s.now)
	s.Nil(displaced)

	got, ok := s.registry.Lookup("p1")
	s.True(ok)
	s.Equal("h1", got.ID())
}

func (s *RegistrySuite) TestRegisterDisplacesExistingHandle() {
	h1 := mocks.NewMockConn("h1")
	h2 := mocks.NewMockConn("h2")

	s.registry.Register("p1", h1, s.now)
	displaced := s.registry.Register("p1", h2, s.now.Add(time.Minute))

	s.Require().NotNil(displaced)
	s.Equal("h1", displaced.ID())

	got, ok := s.registry.Lookup("p1")
	s.True(ok)
	s.Equal("h2", got.ID())
	s.Equal(1, s.registry.Len())
}

func (s *RegistrySuite) TestRegisterDoesNotCloseDisplacedHandle() {
	h1 := mocks.NewMockConn("h1")
	s.registry.Register("p1", h1, s.now)
	s.registry.Register("p1", mocks.NewMockConn("h2"), s.now)

	s.False(h1.Closed(), "closing the displaced handle is the caller's job")
}

func (s *RegistrySuite) TestRecordKeepsCreatedAt() {
	s.registry.Register("p1", mocks.NewMockConn("h1"), s.now)

	rec, ok := s.registry.Record("p1")
	s.Require().True(ok)
	s.Equal(model.PlayerID("p1"), rec.PlayerID)
	s.Equal(s.now, rec.CreatedAt)
}

// Lookup tests

func (s *RegistrySuite) TestLookupUnknownPlayer() {
	_, ok := s.registry.Lookup("nobody")
	s.False(ok)
}

// Unregister tests

func (s *RegistrySuite) TestUnregisterCurrentHandle() {
	h1 := mocks.NewMockConn("h1")
	s.registry.Register("p1", h1, s.now)

	s.True(s.registry.Unregister("p1", h1))

	_, ok := s.registry.Lookup("p1")
	s.False(ok)
}

func (s *RegistrySuite) TestUnregisterStaleHandleKeepsNewer() {
	h1 := mocks.NewMockConn("h1")
	h2 := mocks.NewMockConn("h2")
	s.registry.Register("p1", h1, s.now)
	s.registry.Register("p1", h2, s.now)

	// The old connection's disconnect arrives late
	s.False(s.registry.Unregister("p1", h1))

	got, ok := s.registry.Lookup("p1")
	s.True(ok)
	s.Equal("h2", got.ID())
}

func (s *RegistrySuite) TestUnregisterUnknownPlayerIsNoop() {
	s.False(s.registry.Unregister("nobody", mocks.NewMockConn("h1")))
}

// Drain tests

func (s *RegistrySuite) TestDrainEmptiesRegistry() {
	s.registry.Register("p1", mocks.NewMockConn("h1"), s.now)
	s.registry.Register("p2", mocks.NewMockConn("h2"), s.now)

	records := s.registry.Drain()
	s.Len(records, 2)
	s.Equal(0, s.registry.Len())
}

// Concurrency tests

func (s *RegistrySuite) TestConcurrentRegisterKeepsOneHandlePerPlayer() {
	const n = 50
	var wg sync.WaitGroup
	displacedCount := make(chan int, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if s.registry.Register("p1", mocks.NewMockConn(fmt.Sprintf("h%d", i)), s.now) != nil {
				displacedCount <- 1
			}
		}(i)
	}
	wg.Wait()
	close(displacedCount)

	total := 0
	for c := range displacedCount {
		total += c
	}

	// Every registration but the first displaced exactly one handle
	s.Equal(n-1, total)
	s.Equal(1, s.registry.Len())
}
