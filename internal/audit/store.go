package audit

import (
	"context"
	"sync"

	id "roadcheck/pkg/domain"
	"roadcheck/pkg/platform/sentinel"
)

// Store is an append-only sink for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// SourceStore persists provenance records for rule sets.
type SourceStore interface {
	Create(ctx context.Context, source *Source) error
	FindByID(ctx context.Context, sourceID id.SourceID) (*Source, error)
}

// InMemoryStore keeps events in a slice. Useful for tests and as a default
// sink when no external audit backend is configured.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

// NewInMemoryStore constructs an empty in-memory event store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a snapshot of everything appended so far.
func (s *InMemoryStore) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// InMemorySourceStore keeps provenance records in a map.
type InMemorySourceStore struct {
	mu      sync.RWMutex
	sources map[id.SourceID]*Source
}

// NewInMemorySourceStore constructs an empty in-memory source store.
func NewInMemorySourceStore() *InMemorySourceStore {
	return &InMemorySourceStore{sources: make(map[id.SourceID]*Source)}
}

func (s *InMemorySourceStore) Create(_ context.Context, source *Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sources[source.ID]; exists {
		return sentinel.ErrConflict
	}
	copied := *source
	s.sources[source.ID] = &copied
	return nil
}

func (s *InMemorySourceStore) FindByID(_ context.Context, sourceID id.SourceID) (*Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	source, ok := s.sources[sourceID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *source
	return &copied, nil
}
