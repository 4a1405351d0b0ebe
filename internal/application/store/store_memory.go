// Package store keeps the submission log: every application with the
// outcome of each sink.
package store

import (
	"context"
	"sync"

	"ecohubs/internal/application/models"
)

// DefaultMemoryCapacity bounds the in-memory log.
const DefaultMemoryCapacity = 500

// InMemoryStore keeps the newest records in a ring.
type InMemoryStore struct {
	mu       sync.Mutex
	records  []models.Record
	next     int
	full     bool
	capacity int
}

func NewInMemoryStore(capacity int) *InMemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &InMemoryStore{
		records:  make([]models.Record, capacity),
		capacity: capacity,
	}
}

func (s *InMemoryStore) Append(_ context.Context, rec models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[s.next] = rec
	s.next = (s.next + 1) % s.capacity
	if s.next == 0 {
		s.full = true
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *InMemoryStore) Recent(_ context.Context, limit int) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	size := s.next
	if s.full {
		size = s.capacity
	}
	if limit <= 0 || limit > size {
		limit = size
	}
	out := make([]models.Record, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (s.next - i + s.capacity) % s.capacity
		out = append(out, s.records[idx])
	}
	return out, nil
}
