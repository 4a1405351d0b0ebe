package memory

import (
	"context"
	"sync"

	audit "ecohubs/pkg/platform/audit"
)

// DefaultCapacity bounds the in-memory trail.
const DefaultCapacity = 1000

// InMemoryStore keeps the newest events up to its capacity.
type InMemoryStore struct {
	mu       sync.RWMutex
	events   []audit.Event
	next     int
	full     bool
	capacity int
}

func NewInMemoryStore(capacity int) *InMemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &InMemoryStore{events: make([]audit.Event, capacity), capacity: capacity}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[s.next] = event
	s.next = (s.next + 1) % s.capacity
	if s.next == 0 {
		s.full = true
	}
	return nil
}

// ListRecent returns up to limit events, newest first. A non-positive limit
// returns everything held.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := s.next
	if s.full {
		n = s.capacity
	}
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]audit.Event, 0, limit)
	for i := 1; i <= limit; i++ {
		out = append(out, s.events[(s.next-i+s.capacity)%s.capacity])
	}
	return out, nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make([]audit.Event, s.capacity)
	s.next = 0
	s.full = false
}
