//go:build integration

package inspection_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadcheck/internal/inspection/models"
	inspectionstore "roadcheck/internal/inspection/store/inspection"
	id "roadcheck/pkg/domain"
	"roadcheck/pkg/platform/sentinel"
	"roadcheck/pkg/testutil/containers"
)

func TestPostgresInspectionStore(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	ctx := context.Background()
	store := inspectionstore.NewPostgres(pg.DB)

	reset := func(t *testing.T) {
		t.Helper()
		require.NoError(t, pg.Truncate(ctx, "inspections"))
	}

	newInspection := func(orgID id.OrgID) *models.Inspection {
		now := time.Now().UTC().Truncate(time.Microsecond)
		return &models.Inspection{
			ID:        id.NewInspectionID(),
			OrgID:     orgID,
			AssetID:   id.NewAssetID(),
			Status:    models.StatusPending,
			Inspector: "inspector-42",
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	t.Run("create and find", func(t *testing.T) {
		reset(t)
		insp := newInspection(id.NewOrgID())
		require.NoError(t, store.Create(ctx, insp))

		got, err := store.FindByID(ctx, insp.ID)
		require.NoError(t, err)
		assert.Equal(t, insp.OrgID, got.OrgID)
		assert.Equal(t, insp.AssetID, got.AssetID)
		assert.Equal(t, models.StatusPending, got.Status)
		assert.Equal(t, "inspector-42", got.Inspector)
		assert.Nil(t, got.RulesVersionID)
	})

	t.Run("duplicate create conflicts", func(t *testing.T) {
		reset(t)
		insp := newInspection(id.NewOrgID())
		require.NoError(t, store.Create(ctx, insp))
		assert.ErrorIs(t, store.Create(ctx, insp), sentinel.ErrConflict)
	})

	t.Run("update status", func(t *testing.T) {
		reset(t)
		insp := newInspection(id.NewOrgID())
		require.NoError(t, store.Create(ctx, insp))

		require.NoError(t, store.UpdateStatus(ctx, insp.ID, models.StatusOOS))
		got, err := store.FindByID(ctx, insp.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusOOS, got.Status)

		assert.ErrorIs(t, store.UpdateStatus(ctx, id.NewInspectionID(), models.StatusPass), sentinel.ErrNotFound)
	})

	t.Run("list by org is isolated and newest first", func(t *testing.T) {
		reset(t)
		orgID := id.NewOrgID()
		first := newInspection(orgID)
		first.CreatedAt = first.CreatedAt.Add(-time.Hour)
		second := newInspection(orgID)
		other := newInspection(id.NewOrgID())
		require.NoError(t, store.Create(ctx, first))
		require.NoError(t, store.Create(ctx, second))
		require.NoError(t, store.Create(ctx, other))

		got, err := store.ListByOrg(ctx, orgID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, second.ID, got[0].ID)
		assert.Equal(t, first.ID, got[1].ID)
	})
}
