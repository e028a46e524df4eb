package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions for the lifetime of the process. Nothing expires.
type MemoryStore struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	maxHistory int
	now        func() time.Time
}

func NewMemoryStore(maxHistory int) *MemoryStore {
	return &MemoryStore{
		sessions:   make(map[string]*Session),
		maxHistory: maxHistory,
		now:        time.Now,
	}
}

func (m *MemoryStore) GetOrCreate(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		s = newSession(id, m.now())
		m.sessions[id] = s
	}
	return s.clone(), nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return s.clone(), nil
}

func (m *MemoryStore) SetOrder(_ context.Context, id, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.getOrCreateLocked(id)
	s.OrderID = orderID
	s.UpdatedAt = m.now()
	return nil
}

func (m *MemoryStore) Append(_ context.Context, id string, ex Exchange) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.getOrCreateLocked(id)
	s.History = appendCapped(s.History, ex, m.maxHistory)
	s.UpdatedAt = m.now()
	return nil
}

func (m *MemoryStore) getOrCreateLocked(id string) *Session {
	s, ok := m.sessions[id]
	if !ok {
		s = newSession(id, m.now())
		m.sessions[id] = s
	}
	return s
}

func (m *MemoryStore) Close() error { return nil }
