// Package briefstore holds the brief-store collaborators that confirmed
// imports are appended to.
package briefstore

import (
	"context"
	"sync"

	"mediabrief/internal/domain"
)

// MemoryStore keeps brief items in process memory. Used in development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]domain.BriefItem
}

// NewMemoryStore creates an empty in-memory brief store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string][]domain.BriefItem{}}
}

func (s *MemoryStore) ListItems(_ context.Context, briefID string) ([]domain.BriefItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.BriefItem, len(s.items[briefID]))
	copy(out, s.items[briefID])
	return out, nil
}

func (s *MemoryStore) AppendItems(_ context.Context, briefID string, items []domain.BriefItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[briefID] = append(s.items[briefID], items...)
	return nil
}
