package session

import (
	"context"
	"errors"
	"sync"
)

var ErrNoSession = errors.New("no session")

// Store: куда сессия переживает перезапуск. Load возвращает ErrNoSession,
// если сохранённой сессии нет.
type Store interface {
	Load(ctx context.Context, slot string) (Session, error)
	Save(ctx context.Context, slot string, s Session) error
	Delete(ctx context.Context, slot string) error
}

// Manager ведёт явный жизненный цикл сессии: Load при старте, Save при входе,
// Clear при выходе. Подписчики OnChange узнают о смене пользователя.
type Manager struct {
	mu       sync.RWMutex
	store    Store
	slot     string
	cur      *Session
	onChange []func(prev, next *Session)
}

func NewManager(store Store, slot string) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	if slot == "" {
		slot = "default"
	}
	return &Manager{store: store, slot: slot}
}

func (m *Manager) OnChange(fn func(prev, next *Session)) {
	m.mu.Lock()
	m.onChange = append(m.onChange, fn)
	m.mu.Unlock()
}

// Load поднимает сохранённую сессию. Отсутствие сессии: не ошибка.
func (m *Manager) Load(ctx context.Context) error {
	s, err := m.store.Load(ctx, m.slot)
	if errors.Is(err, ErrNoSession) {
		m.set(nil)
		return nil
	}
	if err != nil {
		return err
	}
	if !s.Authenticated() {
		m.set(nil)
		return nil
	}
	m.set(&s)
	return nil
}

func (m *Manager) Save(ctx context.Context, s Session) error {
	if !s.Authenticated() {
		return errors.New("session without access token")
	}
	if err := m.store.Save(ctx, m.slot, s); err != nil {
		return err
	}
	m.set(&s)
	return nil
}

// Clear удаляет сессию и возвращает предыдущую (её токен нужен для logout на бэкенде).
func (m *Manager) Clear(ctx context.Context) (Session, error) {
	m.mu.RLock()
	var prev Session
	if m.cur != nil {
		prev = *m.cur
	}
	m.mu.RUnlock()

	err := m.store.Delete(ctx, m.slot)
	if errors.Is(err, ErrNoSession) {
		err = nil
	}
	// даже если хранилище не ответило, в памяти сессию гасим
	m.set(nil)
	return prev, err
}

func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cur == nil {
		return Session{}, false
	}
	return *m.cur, true
}

// AccessToken реализует backend.TokenSource.
func (m *Manager) AccessToken() string {
	s, ok := m.Current()
	if !ok {
		return ""
	}
	return s.AccessToken
}

func (m *Manager) set(next *Session) {
	m.mu.Lock()
	prev := m.cur
	m.cur = next
	subs := append([]func(prev, next *Session){}, m.onChange...)
	m.mu.Unlock()
	for _, fn := range subs {
		fn(prev, next)
	}
}
