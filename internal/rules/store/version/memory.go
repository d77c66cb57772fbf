// Package version persists rule versions. Implementations must order
// candidate active versions deterministically: tenant-specific before global,
// then latest effective start first.
package version

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"roadcheck/internal/rules/models"
	id "roadcheck/pkg/domain"
	"roadcheck/pkg/platform/sentinel"
)

// InMemory keeps rule versions in a map. It favors clarity over performance
// and backs unit tests and single-node deployments.
type InMemory struct {
	mu       sync.RWMutex
	versions map[id.VersionID]*models.RuleVersion
}

// NewInMemory constructs an empty in-memory version store.
func NewInMemory() *InMemory {
	return &InMemory{versions: make(map[id.VersionID]*models.RuleVersion)}
}

// Create inserts a version. Returns sentinel.ErrConflict when the ID is taken
// or another version already uses the same (org, name) pair.
func (s *InMemory) Create(_ context.Context, v *models.RuleVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.versions[v.ID]; exists {
		return sentinel.ErrConflict
	}
	for _, existing := range s.versions {
		if sameOrg(existing.OrgID, v.OrgID) && strings.EqualFold(existing.Name, v.Name) {
			return sentinel.ErrConflict
		}
	}
	copied := *v
	s.versions[v.ID] = &copied
	return nil
}

// FindByID returns the version or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, versionID id.VersionID) (*models.RuleVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.versions[versionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

// FindByName returns the version with the given (org, name) pair, matching
// the idempotence check the seeder performs.
func (s *InMemory) FindByName(_ context.Context, orgID *id.OrgID, name string) (*models.RuleVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.versions {
		if sameOrg(v.OrgID, orgID) && strings.EqualFold(v.Name, name) {
			copied := *v
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// FindActive returns the applicable ACTIVE version for the tenant at asOf:
// status ACTIVE, org matching or global, effective window covering asOf.
// Tenant-specific versions win over global ones; ties break on the most
// recent effective start.
func (s *InMemory) FindActive(_ context.Context, orgID id.OrgID, asOf time.Time) (*models.RuleVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []*models.RuleVersion
	for _, v := range s.versions {
		if v.Status != models.VersionActive {
			continue
		}
		if v.OrgID != nil && *v.OrgID != orgID {
			continue
		}
		if !v.CoversInstant(asOf) {
			continue
		}
		candidates = append(candidates, v)
	}
	if len(candidates) == 0 {
		return nil, sentinel.ErrNotFound
	}

	sort.Slice(candidates, func(i, j int) bool {
		iTenant := candidates[i].OrgID != nil
		jTenant := candidates[j].OrgID != nil
		if iTenant != jTenant {
			return iTenant
		}
		return candidates[i].EffectiveStart.After(candidates[j].EffectiveStart)
	})

	copied := *candidates[0]
	return &copied, nil
}

func sameOrg(a, b *id.OrgID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
