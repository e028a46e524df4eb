package session

import (
	"sync"
	"time"
)

// Locker serializes request handling per session id so that two requests for
// the same conversation never interleave their read-modify-write of history.
// Different sessions run in parallel.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu       sync.Mutex
	refs     int
	lastUsed time.Time
}

func NewLocker() *Locker {
	return &Locker{
		locks: make(map[string]*sessionLock),
	}
}

// WithLock executes fn while holding the per-session mutex.
func (l *Locker) WithLock(id string, fn func() error) error {
	l.mu.Lock()
	sl, ok := l.locks[id]
	if !ok {
		sl = &sessionLock{}
		l.locks[id] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	defer func() {
		sl.mu.Unlock()
		l.mu.Lock()
		sl.refs--
		sl.lastUsed = time.Now()
		l.mu.Unlock()
	}()

	return fn()
}

// Cleanup removes idle locks not used within maxAge and returns how many were dropped.
func (l *Locker) Cleanup(maxAge time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, sl := range l.locks {
		if sl.refs == 0 && now.Sub(sl.lastUsed) > maxAge {
			delete(l.locks, id)
			removed++
		}
	}
	return removed
}

// Len reports how many session locks are currently tracked.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
