// Package inspection stores inspection records.
package inspection

import (
	"context"
	"sync"
	"time"

	"roadcheck/internal/inspection/models"
	id "roadcheck/pkg/domain"
	"roadcheck/pkg/platform/sentinel"
)

// InMemory keeps inspections in a map for tests and single-node runs.
type InMemory struct {
	mu          sync.RWMutex
	inspections map[id.InspectionID]*models.Inspection
}

func NewInMemory() *InMemory {
	return &InMemory{inspections: make(map[id.InspectionID]*models.Inspection)}
}

func (s *InMemory) Create(_ context.Context, insp *models.Inspection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.inspections[insp.ID]; exists {
		return sentinel.ErrConflict
	}
	copied := *insp
	s.inspections[insp.ID] = &copied
	return nil
}

func (s *InMemory) FindByID(_ context.Context, inspectionID id.InspectionID) (*models.Inspection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	insp, ok := s.inspections[inspectionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *insp
	return &copied, nil
}

func (s *InMemory) UpdateStatus(_ context.Context, inspectionID id.InspectionID, status models.InspectionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	insp, ok := s.inspections[inspectionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	insp.Status = status
	insp.UpdatedAt = time.Now()
	return nil
}

func (s *InMemory) ListByOrg(_ context.Context, orgID id.OrgID) ([]models.Inspection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Inspection
	for _, insp := range s.inspections {
		if insp.OrgID == orgID {
			out = append(out, *insp)
		}
	}
	return out, nil
}
