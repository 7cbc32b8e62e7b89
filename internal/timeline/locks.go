package timeline

import "sync"

// keyedMutex serializes operations per post id so two overlapping mutations
// on the same post queue up instead of racing. Entries are dropped once the
// last holder releases.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uint]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[uint]*keyedLock)}
}

// lock blocks until the per-id lock is held and returns the release func.
func (k *keyedMutex) lock(id uint) func() {
	k.mu.Lock()
	l := k.locks[id]
	if l == nil {
		l = &keyedLock{}
		k.locks[id] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}
