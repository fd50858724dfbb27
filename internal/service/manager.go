package service

import (
	"sync"

	"github.com/dawnlab-io/dreamweave/internal/domain"
	"github.com/google/uuid"
)

// SessionManager owns the live sessions. Each session's state is mutated
// only under its own lock, so one session's pipeline steps run strictly one
// at a time while separate sessions proceed independently.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionEntry
}

type sessionEntry struct {
	mu      sync.Mutex
	session *domain.Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[uuid.UUID]*sessionEntry)}
}

// Create registers a new idle session and returns a snapshot of it.
func (m *SessionManager) Create() *domain.Session {
	s := domain.NewSession()
	m.mu.Lock()
	m.sessions[s.ID] = &sessionEntry{session: s}
	m.mu.Unlock()
	return s.Clone()
}

// Do runs fn with exclusive access to the session. Returns
// ErrSessionNotFound for unknown IDs.
func (m *SessionManager) Do(id uuid.UUID, fn func(s *domain.Session) error) error {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.session)
}

// Snapshot returns a read-only copy of the session.
func (m *SessionManager) Snapshot(id uuid.UUID) (*domain.Session, error) {
	var out *domain.Session
	err := m.Do(id, func(s *domain.Session) error {
		out = s.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the session. Returns ErrSessionNotFound for unknown IDs.
func (m *SessionManager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
