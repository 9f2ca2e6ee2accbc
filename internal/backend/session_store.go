package backend

import "sync"

// SessionStore persists the signed-in session between engine runs.
// Load returns nil, nil when nothing is stored.
type SessionStore interface {
	Load() (*Session, error)
	Save(s Session) error
	Clear() error
}

type MemorySessionStore struct {
	mu sync.Mutex
	s  *Session
}

func NewMemorySessionStore(initial *Session) *MemorySessionStore {
	m := &MemorySessionStore{}
	if initial != nil {
		cp := *initial
		m.s = &cp
	}
	return m
}

func (m *MemorySessionStore) Load() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.s == nil {
		return nil, nil
	}
	cp := *m.s
	return &cp, nil
}

func (m *MemorySessionStore) Save(s Session) error {
	m.mu.Lock()
	m.s = &s
	m.mu.Unlock()
	return nil
}

func (m *MemorySessionStore) Clear() error {
	m.mu.Lock()
	m.s = nil
	m.mu.Unlock()
	return nil
}
