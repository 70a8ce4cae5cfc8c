package lobby

import (
	"sync"

	"github.com/mcoot/mtlobby/internal/model"
)

// playerLocks hands out one mutex per player. Entries are reference counted
// and dropped once nobody holds or waits on them.
type playerLocks struct {
	mu    sync.Mutex
	locks map[model.PlayerID]*playerLock
}

type playerLock struct {
	mu   sync.Mutex
	refs int
}

func newPlayerLocks() *playerLocks {
	return &playerLocks{locks: make(map[model.PlayerID]*playerLock)}
}

// lock blocks until the player's mutex is held and returns its release func
func (p *playerLocks) lock(id model.PlayerID) func() {
	p.mu.Lock()
	l, ok := p.locks[id]
	if !ok {
		l = &playerLock{}
		p.locks[id] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, id)
		}
		p.mu.Unlock()
	}
}

// size reports how many players currently have a lock entry
func (p *playerLocks) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.locks)
}
