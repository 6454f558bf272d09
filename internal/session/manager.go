package session

import (
	"errors"
	"sync"
	"time"
)

var ErrNoSession = errors.New("no such session")

type slot struct {
	s    *Session
	seen time.Time
}

// Manager keeps live sessions by id. All access goes through copies so a
// handler never races another request of the same session.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*slot
	idle     time.Duration
	now      func() time.Time
}

// NewManager drops sessions not touched for idle; idle <= 0 keeps them forever.
func NewManager(idle time.Duration) *Manager {
	return &Manager{sessions: make(map[string]*slot), idle: idle, now: time.Now}
}

// Create registers a fresh session.
func (m *Manager) Create() *Session {
	s := New("")
	m.Put(s)
	return s.Clone()
}

// Put stores a copy of s, replacing any session with the same id.
func (m *Manager) Put(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = &slot{s: s.Clone(), seen: m.now()}
}

// Get returns a copy of the session.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sl, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	sl.seen = m.now()
	return sl.s.Clone(), true
}

// Update runs fn on the stored session under the lock. If fn fails the
// session is left unchanged.
func (m *Manager) Update(id string, fn func(*Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sl, ok := m.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	work := sl.s.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	sl.s = work
	sl.seen = m.now()
	return work.Clone(), nil
}

// Sweep removes idle sessions and returns how many were dropped.
func (m *Manager) Sweep() int {
	if m.idle <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-m.idle)
	n := 0
	for id, sl := range m.sessions {
		if sl.seen.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
