// Package session models the session collaborator at its interface
// boundary: resolve a session id to the subject the credential is issued
// for. Session intake and lifetime are owned elsewhere.
package session

import (
	"context"
	"sync"
	"time"

	dErrors "kbvcri/pkg/domain-errors"
)

// Session links a verification attempt to its subject identifier.
type Session struct {
	SessionID string
	Subject   string
	Expiry    time.Time
}

// Service is the lookup port credential issuance depends on.
type Service interface {
	Get(ctx context.Context, sessionID string) (Session, error)
}

// MemoryStore is a map-backed session source for local wiring and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (s *MemoryStore) Put(session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.SessionID] = session
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return Session{}, dErrors.New(dErrors.CodeNotFound, "session not found")
	}
	return session, nil
}
