package session

import (
	"sync"
	"time"
)

// Manager owns every live session, keyed by user id. A user in the
// configuring state simply has no entry. Starting a new session replaces any
// previous one, which matches the abort/restart transition of the machine.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int]*Session
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[int]*Session)}
}

// Put registers a started session for its user, replacing any existing one.
func (m *Manager) Put(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.UserID()] = s
}

// Get returns the user's active session or ErrNoActiveSession.
func (m *Manager) Get(userID int) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return s, nil
}

// Abort destroys the user's session, returning them to the configuring state.
func (m *Manager) Abort(userID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// SweepTimeouts polls every in-progress session for an expired question
// deadline and returns the sessions this sweep finalized, so the caller can
// record their results exactly once.
func (m *Manager) SweepTimeouts(now time.Time) []*Session {
	m.mu.RLock()
	snapshot := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		snapshot = append(snapshot, s)
	}
	m.mu.RUnlock()

	var finalized []*Session
	for _, s := range snapshot {
		if _, done := s.TimeoutIfExpired(now); done {
			finalized = append(finalized, s)
		}
	}
	return finalized
}
