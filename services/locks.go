package services

import "sync"

// entityLocks hands out one mutex per entity id so authorization and
// mutation of the same record run as a single unit. Entries are never
// released; the map is bounded by the number of distinct entities a
// process touches.
type entityLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newEntityLocks() *entityLocks {
	return &entityLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the entity and returns the matching release func.
func (l *entityLocks) acquire(id string) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
