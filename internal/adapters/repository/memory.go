package repository

import (
	"context"
	"sync"

	"github.com/okian/arena/internal/domain/model"
)

// MemoryStore keeps the collection in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	c     model.Collection
	saves int
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the last saved collection.
func (s *MemoryStore) Load(_ context.Context) (model.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Clone(), nil
}

// Save stores a copy of c.
func (s *MemoryStore) Save(_ context.Context, c model.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c = c.Clone()
	s.saves++
	return nil
}

// Saves returns how many times Save was called.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
