package session

import (
	"context"
	"sync"
)

// MemoryStore используется без БД; сессия живёт до перезапуска процесса.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]Session)}
}

func (m *MemoryStore) Load(_ context.Context, slot string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.slots[slot]
	if !ok {
		return Session{}, ErrNoSession
	}
	return s, nil
}

func (m *MemoryStore) Save(_ context.Context, slot string, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.slots[slot]; !ok {
		return ErrNoSession
	}
	delete(m.slots, slot)
	return nil
}
