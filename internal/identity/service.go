package identity

import (
	"context"
	"sync"

	dErrors "kbvcri/pkg/domain-errors"
)

// Service is the lookup port the orchestrator and credential issuer depend
// on. The real implementation lives with the session intake system; the
// in-memory store below backs local wiring and tests.
type Service interface {
	PersonIdentity(ctx context.Context, sessionID string) (PersonIdentity, error)
	PersonIdentityDetailed(ctx context.Context, sessionID string) (PersonIdentityDetailed, error)
}

// MemoryStore is a map-backed identity source keyed by session id.
type MemoryStore struct {
	mu       sync.RWMutex
	flat     map[string]PersonIdentity
	detailed map[string]PersonIdentityDetailed
}

// NewMemoryStore returns an empty in-memory identity store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		flat:     make(map[string]PersonIdentity),
		detailed: make(map[string]PersonIdentityDetailed),
	}
}

// Put registers identity attributes for a session.
func (s *MemoryStore) Put(sessionID string, flat PersonIdentity, detailed PersonIdentityDetailed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flat[sessionID] = flat
	s.detailed[sessionID] = detailed
}

func (s *MemoryStore) PersonIdentity(ctx context.Context, sessionID string) (PersonIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.flat[sessionID]
	if !ok {
		return PersonIdentity{}, dErrors.New(dErrors.CodeNotFound, "person identity not found")
	}
	return identity, nil
}

func (s *MemoryStore) PersonIdentityDetailed(ctx context.Context, sessionID string) (PersonIdentityDetailed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	detailed, ok := s.detailed[sessionID]
	if !ok {
		return PersonIdentityDetailed{}, dErrors.New(dErrors.CodeNotFound, "person identity not found")
	}
	return detailed, nil
}
