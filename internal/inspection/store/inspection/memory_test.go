package inspection

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"roadcheck/internal/inspection/models"
	id "roadcheck/pkg/domain"
	"roadcheck/pkg/platform/sentinel"
)

type InspectionStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *InspectionStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestInspectionStoreSuite(t *testing.T) {
	suite.Run(t, new(InspectionStoreSuite))
}

func (s *InspectionStoreSuite) newInspection(orgID id.OrgID) *models.Inspection {
	versionID := id.NewVersionID()
	return &models.Inspection{
		ID:             id.NewInspectionID(),
		OrgID:          orgID,
		AssetID:        id.NewAssetID(),
		RulesVersionID: &versionID,
		Status:         models.StatusPending,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}

func (s *InspectionStoreSuite) TestCreateAndFind() {
	s.Run("creates and retrieves an inspection", func() {
		insp := s.newInspection(id.NewOrgID())
		s.Require().NoError(s.store.Create(s.ctx, insp))

		found, err := s.store.FindByID(s.ctx, insp.ID)
		s.Require().NoError(err)
		s.Equal(insp.AssetID, found.AssetID)
		s.Equal(models.StatusPending, found.Status)
	})

	s.Run("rejects duplicate IDs", func() {
		insp := s.newInspection(id.NewOrgID())
		s.Require().NoError(s.store.Create(s.ctx, insp))
		s.Require().ErrorIs(s.store.Create(s.ctx, insp), sentinel.ErrConflict)
	})

	s.Run("returns ErrNotFound for unknown IDs", func() {
		_, err := s.store.FindByID(s.ctx, id.NewInspectionID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InspectionStoreSuite) TestUpdateStatus() {
	s.Run("persists the new status", func() {
		insp := s.newInspection(id.NewOrgID())
		s.Require().NoError(s.store.Create(s.ctx, insp))

		s.Require().NoError(s.store.UpdateStatus(s.ctx, insp.ID, models.StatusOOS))

		found, err := s.store.FindByID(s.ctx, insp.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusOOS, found.Status)
	})

	s.Run("unknown inspection is ErrNotFound", func() {
		err := s.store.UpdateStatus(s.ctx, id.NewInspectionID(), models.StatusPass)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InspectionStoreSuite) TestListByOrg() {
	orgA := id.NewOrgID()
	orgB := id.NewOrgID()
	s.Require().NoError(s.store.Create(s.ctx, s.newInspection(orgA)))
	s.Require().NoError(s.store.Create(s.ctx, s.newInspection(orgA)))
	s.Require().NoError(s.store.Create(s.ctx, s.newInspection(orgB)))

	listed, err := s.store.ListByOrg(s.ctx, orgA)
	s.Require().NoError(err)
	s.Len(listed, 2)
}

func (s *InspectionStoreSuite) TestFindReturnsCopies() {
	insp := s.newInspection(id.NewOrgID())
	s.Require().NoError(s.store.Create(s.ctx, insp))

	found, err := s.store.FindByID(s.ctx, insp.ID)
	s.Require().NoError(err)
	found.Status = models.StatusFail

	again, err := s.store.FindByID(s.ctx, insp.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, again.Status, "mutating a returned copy must not affect the store")
}
