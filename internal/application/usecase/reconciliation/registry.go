// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"sync"

	"github.com/google/uuid"
)

// SessionRegistry holds the active reconciliation sessions, keyed by
// statement ID. A statement has at most one active session per process.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewSessionRegistry creates an empty session registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Get returns the session for a statement, if one is active.
func (r *SessionRegistry) Get(statementID uuid.UUID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[statementID]
	return session, ok
}

// Put registers the session for a statement, replacing any previous one.
func (r *SessionRegistry) Put(statementID uuid.UUID, session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[statementID] = session
}

// Remove discards the session for a statement. The persisted statement and
// transaction records are untouched.
func (r *SessionRegistry) Remove(statementID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, statementID)
}
