package prompt

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests and CLI runs without a
// database. Last write wins, matching the Postgres store's semantics.
type MemoryStore struct {
	mu        sync.RWMutex
	overrides map[string]string
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{overrides: make(map[string]string)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, present := s.overrides[key]
	return value, present, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[key] = value
	return nil
}
