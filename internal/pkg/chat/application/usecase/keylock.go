package usecase

import (
	"fmt"
	"sync"
)

// keyLock hands out one mutex per string key, reclaiming entries once the
// last holder releases. It serializes logical operations that must not
// interleave on the same room or user pair while leaving unrelated keys
// fully concurrent.
type keyLock struct {
	mu      sync.Mutex
	entries map[string]*keyLockEntry
}

type keyLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyLock() *keyLock {
	return &keyLock{entries: make(map[string]*keyLockEntry)}
}

// lock blocks until the key's mutex is held and returns the release func.
func (l *keyLock) lock(key string) func() {
	l.mu.Lock()
	e := l.entries[key]
	if e == nil {
		e = &keyLockEntry{}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, key)
		}
		l.mu.Unlock()
	}
}

// Shared across all use case instances in the process: controllers build use
// cases independently, but append+reveal, leave+reconcile and find-or-create
// must still serialize on the same underlying keys.
var (
	roomLocks = newKeyLock()
	pairLocks = newKeyLock()
)

func roomKey(roomID int64) string {
	return fmt.Sprintf("room:%d", roomID)
}

// pairKey is order-insensitive so both sides of a direct-room race contend on
// the same mutex.
func pairKey(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("pair:%d:%d", a, b)
}
