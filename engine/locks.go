package engine

import "sync"

// lockArena hands out one mutex per buffer id so read-modify-write
// fields (in_pipeline_qty, consecutive_zone_days) serialize per buffer
// without contention across unrelated buffers.
type lockArena struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newLockArena() *lockArena {
	return &lockArena{locks: make(map[uint]*sync.Mutex)}
}

func (a *lockArena) get(id uint) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, ok := a.locks[id]
	if !ok {
		l = &sync.Mutex{}
		a.locks[id] = l
	}
	return l
}

var bufferLocks = newLockArena()

// LockBuffer blocks until the buffer's mutex is held and returns the
// unlock function.
func LockBuffer(bufferID uint) func() {
	l := bufferLocks.get(bufferID)
	l.Lock()
	return l.Unlock
}
