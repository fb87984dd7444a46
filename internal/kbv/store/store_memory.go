package store

import (
	"context"
	"sync"

	"kbvcri/internal/kbv/models"
)

// MemoryStore is a map-backed Store for local wiring and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]models.KBVItem
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]models.KBVItem)}
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*models.KBVItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := item
	return &copied, nil
}

func (s *MemoryStore) Save(ctx context.Context, item *models.KBVItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.items[item.SessionID]
	if exists && current.Revision != item.Revision {
		return ErrConflict
	}
	if !exists && item.Revision != 0 {
		return ErrConflict
	}

	item.Revision++
	s.items[item.SessionID] = *item
	return nil
}
