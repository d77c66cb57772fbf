package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadcheck/internal/audit"
	"roadcheck/internal/rules/models"
	rulestore "roadcheck/internal/rules/store/rule"
	versionstore "roadcheck/internal/rules/store/version"
	id "roadcheck/pkg/domain"
)

func seedFixtures() (*versionstore.InMemory, *rulestore.InMemory, *audit.InMemorySourceStore) {
	return versionstore.NewInMemory(), rulestore.NewInMemory(), audit.NewInMemorySourceStore()
}

func TestSeedStarterRules(t *testing.T) {
	ctx := context.Background()
	versions, rules, sources := seedFixtures()

	result, err := SeedStarterRules(ctx, versions, rules, sources, nil)
	require.NoError(t, err)
	assert.False(t, result.AlreadySeeded)

	v, err := versions.FindByID(ctx, result.VersionID)
	require.NoError(t, err)
	assert.Equal(t, StarterVersionName, v.Name)
	assert.Equal(t, models.VersionActive, v.Status)
	assert.Nil(t, v.OrgID)
	assert.Nil(t, v.EffectiveEnd)
	require.Len(t, v.SourceIDs, 1)

	source, err := sources.FindByID(ctx, v.SourceIDs[0])
	require.NoError(t, err)
	assert.Equal(t, "CVSA", source.Authority)

	catalogue, err := rules.ListByVersion(ctx, result.VersionID)
	require.NoError(t, err)
	assert.Len(t, catalogue, result.RuleCount)

	for _, r := range catalogue {
		assert.Equal(t, result.VersionID, r.VersionID, "rule %s bound to wrong version", r.Title)
		assert.NotEmpty(t, r.Title)
		assert.NotEmpty(t, r.Outcome)
	}
}

func TestSeedStarterRulesIsIdempotent(t *testing.T) {
	ctx := context.Background()
	versions, rules, sources := seedFixtures()

	first, err := SeedStarterRules(ctx, versions, rules, sources, nil)
	require.NoError(t, err)

	second, err := SeedStarterRules(ctx, versions, rules, sources, nil)
	require.NoError(t, err)
	assert.True(t, second.AlreadySeeded)
	assert.Equal(t, first.VersionID, second.VersionID)

	catalogue, err := rules.ListByVersion(ctx, first.VersionID)
	require.NoError(t, err)
	assert.Len(t, catalogue, first.RuleCount, "reseeding must not duplicate rules")
}

func TestSeedStarterRulesPerTenant(t *testing.T) {
	ctx := context.Background()
	versions, rules, sources := seedFixtures()

	global, err := SeedStarterRules(ctx, versions, rules, sources, nil)
	require.NoError(t, err)

	orgID := id.NewOrgID()
	tenant, err := SeedStarterRules(ctx, versions, rules, sources, &orgID)
	require.NoError(t, err)
	assert.False(t, tenant.AlreadySeeded)
	assert.NotEqual(t, global.VersionID, tenant.VersionID)

	v, err := versions.FindByID(ctx, tenant.VersionID)
	require.NoError(t, err)
	require.NotNil(t, v.OrgID)
	assert.Equal(t, orgID, *v.OrgID)
}

func TestSeededCatalogueMatchesKnownScenarios(t *testing.T) {
	ctx := context.Background()
	versions, rules, sources := seedFixtures()

	result, err := SeedStarterRules(ctx, versions, rules, sources, nil)
	require.NoError(t, err)

	catalogue, err := rules.ListByVersion(ctx, result.VersionID)
	require.NoError(t, err)

	byTitle := make(map[string]models.Rule, len(catalogue))
	for _, r := range catalogue {
		byTitle[r.Title] = r
	}

	tread, ok := byTitle["Steer axle tread depth below minimum"]
	require.True(t, ok)
	require.NotNil(t, tread.VMRSSystemCode)
	assert.Equal(t, "017", *tread.VMRSSystemCode)
	assert.Equal(t, models.OutcomeOOSVehicle, tread.Outcome)

	hours, ok := byTitle["Driving beyond hours-of-service limit"]
	require.True(t, ok)
	assert.Nil(t, hours.VMRSSystemCode, "driver rules apply regardless of system code")
	assert.Equal(t, models.OutcomeOOSDriver, hours.Outcome)

	airLeak, ok := byTitle["Major air leak in brake system"]
	require.True(t, ok)
	assert.True(t, airLeak.TriageOnly)

	// The starter window starts in April 2024 and is open-ended.
	v, err := versions.FindByID(ctx, result.VersionID)
	require.NoError(t, err)
	assert.True(t, v.CoversInstant(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, v.CoversInstant(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}
