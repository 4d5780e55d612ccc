package engine

import "sync"

// slotLocks hands out one mutex per normalized slot id, so every mutating
// operation on a slot runs its whole check-then-act sequence as a single
// critical section. The backing store offers no locking of its own; without
// this, two reservations racing past the capacity check could both append.
type slotLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSlotLocks() *slotLocks {
	return &slotLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *slotLocks) get(slotID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, exists := l.locks[slotID]
	if !exists {
		lock = &sync.Mutex{}
		l.locks[slotID] = lock
	}
	return lock
}
