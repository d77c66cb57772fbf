// Package finding stores evaluated inspection findings.
package finding

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"roadcheck/internal/inspection/models"
	id "roadcheck/pkg/domain"
)

// InMemory keeps findings in a map for tests and single-node runs.
type InMemory struct {
	mu       sync.RWMutex
	findings map[id.FindingID]*models.Finding
}

func NewInMemory() *InMemory {
	return &InMemory{findings: make(map[id.FindingID]*models.Finding)}
}

// Save upserts one evaluated finding. Re-evaluation overwrites the previous
// outcome for the same finding ID.
func (s *InMemory) Save(_ context.Context, f *models.Finding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *f
	s.findings[f.ID] = &copied
	return nil
}

func (s *InMemory) ListByInspection(_ context.Context, inspectionID id.InspectionID) ([]models.Finding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Finding
	for _, f := range s.findings {
		if f.InspectionID == inspectionID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := uuid.UUID(out[i].ID), uuid.UUID(out[j].ID)
		return bytes.Compare(a[:], b[:]) < 0
	})
	return out, nil
}
