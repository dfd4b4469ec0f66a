package roundservice

import (
	"sync"

	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// roundLocks serializes mutations per round ID. Total recomputation is a
// read-then-write over the stored round, so concurrent edits to the same
// round would lose updates; edits to different rounds proceed in parallel.
type roundLocks struct {
	mu    sync.Mutex
	locks map[sharedtypes.RoundID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newRoundLocks() *roundLocks {
	return &roundLocks{locks: make(map[sharedtypes.RoundID]*lockEntry)}
}

// acquire blocks until the per-round lock is held and returns the release
// function. Entries are reference counted and removed once idle.
func (l *roundLocks) acquire(id sharedtypes.RoundID) func() {
	l.mu.Lock()
	e, ok := l.locks[id]
	if !ok {
		e = &lockEntry{}
		l.locks[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
