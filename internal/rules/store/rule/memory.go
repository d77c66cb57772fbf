// Package rule persists the rules belonging to rule versions. Listing is
// ordered by rule ID so evaluation order stays stable across loads.
package rule

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"roadcheck/internal/rules/models"
	id "roadcheck/pkg/domain"
	"roadcheck/pkg/platform/sentinel"
)

// InMemory keeps rules in a map keyed by rule ID.
type InMemory struct {
	mu    sync.RWMutex
	rules map[id.RuleID]*models.Rule
}

// NewInMemory constructs an empty in-memory rule store.
func NewInMemory() *InMemory {
	return &InMemory{rules: make(map[id.RuleID]*models.Rule)}
}

// CreateBatch inserts all rules or none. Returns sentinel.ErrConflict when
// any rule ID already exists.
func (s *InMemory) CreateBatch(_ context.Context, rules []*models.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range rules {
		if _, exists := s.rules[r.ID]; exists {
			return sentinel.ErrConflict
		}
	}
	for _, r := range rules {
		copied := *r
		s.rules[r.ID] = &copied
	}
	return nil
}

// ListByVersion returns the version's rules ordered by rule ID. An unknown
// version yields an empty list, not an error.
func (s *InMemory) ListByVersion(_ context.Context, versionID id.VersionID) ([]models.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Rule
	for _, r := range s.rules {
		if r.VersionID == versionID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := uuid.UUID(out[i].ID), uuid.UUID(out[j].ID)
		return bytes.Compare(a[:], b[:]) < 0
	})
	return out, nil
}
