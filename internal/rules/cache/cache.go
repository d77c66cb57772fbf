// Package cache caches resolved active rule versions so repeated inspections
// within one tenant and day do not hit the version store each time. Entries
// expire on a short TTL; rule versions are immutable once ACTIVE, so a stale
// entry can only delay a newly published version, never serve wrong rules.
package cache

import (
	"context"
	"sync"
	"time"

	"roadcheck/internal/rules/models"
	id "roadcheck/pkg/domain"
)

// DefaultTTL bounds how long a resolved version is reused before the
// resolver consults the store again.
const DefaultTTL = 5 * time.Minute

// VersionCache stores resolved active versions keyed by tenant and date.
type VersionCache interface {
	// Get returns the cached version for (orgID, asOf day), or ok=false on
	// miss or expiry.
	Get(ctx context.Context, orgID id.OrgID, asOf time.Time) (*models.RuleVersion, bool)

	// Set stores a resolved version for (orgID, asOf day).
	Set(ctx context.Context, orgID id.OrgID, asOf time.Time, v *models.RuleVersion)

	// Invalidate drops all entries for a tenant, used when a new version is
	// published or seeded.
	Invalidate(ctx context.Context, orgID id.OrgID)
}

// Key granularity is the calendar day: resolution only depends on the date
// component of asOf for any realistically authored effective window.
func cacheKey(orgID id.OrgID, asOf time.Time) string {
	return orgID.String() + ":" + asOf.UTC().Format("2006-01-02")
}

type memoryEntry struct {
	version   models.RuleVersion
	expiresAt time.Time
}

// InMemory is a TTL map cache for single-node deployments and tests.
type InMemory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

// NewInMemory constructs an in-memory cache with the given TTL
// (DefaultTTL when zero).
func NewInMemory(ttl time.Duration) *InMemory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &InMemory{ttl: ttl, entries: make(map[string]memoryEntry)}
}

func (c *InMemory) Get(_ context.Context, orgID id.OrgID, asOf time.Time) (*models.RuleVersion, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[cacheKey(orgID, asOf)]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	copied := entry.version
	return &copied, true
}

func (c *InMemory) Set(_ context.Context, orgID id.OrgID, asOf time.Time, v *models.RuleVersion) {
	if v == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(orgID, asOf)] = memoryEntry{
		version:   *v,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *InMemory) Invalidate(_ context.Context, orgID id.OrgID) {
	prefix := orgID.String() + ":"
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(c.entries, key)
		}
	}
}

// Noop disables caching; every resolution goes to the store.
type Noop struct{}

func (Noop) Get(context.Context, id.OrgID, time.Time) (*models.RuleVersion, bool) { return nil, false }
func (Noop) Set(context.Context, id.OrgID, time.Time, *models.RuleVersion)        {}
func (Noop) Invalidate(context.Context, id.OrgID)                                 {}
