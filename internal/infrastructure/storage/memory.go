// Package storage provides the record store backends behind the entity layer.
package storage

import (
	"context"
	"sync"

	"github.com/nexus/backend/internal/domain/shared"
)

// MemoryStore keeps records in process memory. State is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryStore creates an empty in-memory record store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

// Get implements shared.RecordStore
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.records[key]
	if !ok {
		return nil, shared.ErrRecordNotFound
	}
	return cloneBytes(value), nil
}

// Put implements shared.RecordStore
func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = cloneBytes(value)
	return nil
}

// Delete implements shared.RecordStore
func (s *MemoryStore) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[key]; !ok {
		return false, nil
	}
	delete(s.records, key)
	return true, nil
}

// Ping implements shared.RecordStore
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close implements shared.RecordStore
func (s *MemoryStore) Close() error { return nil }

// Len returns the number of stored keys
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

var _ shared.RecordStore = (*MemoryStore)(nil)
