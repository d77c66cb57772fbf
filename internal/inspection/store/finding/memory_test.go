package finding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadcheck/internal/inspection/models"
	rules "roadcheck/internal/rules/models"
	id "roadcheck/pkg/domain"
)

func TestSaveAndListByInspection(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	inspectionID := id.NewInspectionID()

	for range 3 {
		f := &models.Finding{
			ID:           id.NewFindingID(),
			InspectionID: inspectionID,
			FindingType:  "tire",
			Observations: rules.ObservationMap{"flatTire": rules.Bool(true)},
			Outcome:      rules.OutcomeOOSVehicle,
		}
		require.NoError(t, store.Save(ctx, f))
	}
	other := &models.Finding{ID: id.NewFindingID(), InspectionID: id.NewInspectionID()}
	require.NoError(t, store.Save(ctx, other))

	listed, err := store.ListByInspection(ctx, inspectionID)
	require.NoError(t, err)
	assert.Len(t, listed, 3)
	for _, f := range listed {
		assert.Equal(t, inspectionID, f.InspectionID)
	}
}

func TestSaveOverwritesPreviousEvaluation(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	f := &models.Finding{
		ID:           id.NewFindingID(),
		InspectionID: id.NewInspectionID(),
		Outcome:      rules.OutcomeNotOOS,
	}
	require.NoError(t, store.Save(ctx, f))

	f.Outcome = rules.OutcomeOOSDriver
	f.RequiresConfirmation = true
	require.NoError(t, store.Save(ctx, f))

	listed, err := store.ListByInspection(ctx, f.InspectionID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, rules.OutcomeOOSDriver, listed[0].Outcome)
	assert.True(t, listed[0].RequiresConfirmation)
}

func TestListIsOrderedByFindingID(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	inspectionID := id.NewInspectionID()

	for range 10 {
		require.NoError(t, store.Save(ctx, &models.Finding{
			ID:           id.NewFindingID(),
			InspectionID: inspectionID,
		}))
	}

	listed, err := store.ListByInspection(ctx, inspectionID)
	require.NoError(t, err)
	for i := 1; i < len(listed); i++ {
		assert.Less(t, listed[i-1].ID.String(), listed[i].ID.String())
	}
}
