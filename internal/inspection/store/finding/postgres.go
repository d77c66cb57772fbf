package finding

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"roadcheck/internal/inspection/models"
	rules "roadcheck/internal/rules/models"
	id "roadcheck/pkg/domain"
)

// Postgres persists findings in PostgreSQL. Observations travel as JSONB.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed finding store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const findingColumns = `id, inspection_id, finding_type, vmrs_system_code, observations, outcome, requires_confirmation`

func (s *Postgres) Save(ctx context.Context, f *models.Finding) error {
	observations, err := json.Marshal(f.Observations)
	if err != nil {
		return fmt.Errorf("encode observations: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO inspection_findings (`+findingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET outcome = EXCLUDED.outcome,
		    requires_confirmation = EXCLUDED.requires_confirmation,
		    observations = EXCLUDED.observations
	`, f.ID.String(), f.InspectionID.String(), f.FindingType, f.VMRSSystemCode,
		observations, string(f.Outcome), f.RequiresConfirmation)
	if err != nil {
		return fmt.Errorf("upsert finding: %w", err)
	}
	return nil
}

func (s *Postgres) ListByInspection(ctx context.Context, inspectionID id.InspectionID) ([]models.Finding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+findingColumns+`
		FROM inspection_findings
		WHERE inspection_id = $1
		ORDER BY id ASC
	`, inspectionID.String())
	if err != nil {
		return nil, fmt.Errorf("list findings: %w", err)
	}
	defer rows.Close()

	var out []models.Finding
	for rows.Next() {
		var (
			f               models.Finding
			rawID           string
			rawInspection   string
			rawObservations []byte
			rawOutcome      sql.NullString
		)
		if err := rows.Scan(&rawID, &rawInspection, &f.FindingType, &f.VMRSSystemCode,
			&rawObservations, &rawOutcome, &f.RequiresConfirmation); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}

		u, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("scan finding id: %w", err)
		}
		f.ID = id.FindingID(u)

		inspID, err := id.ParseInspectionID(rawInspection)
		if err != nil {
			return nil, fmt.Errorf("scan finding inspection: %w", err)
		}
		f.InspectionID = inspID

		if len(rawObservations) > 0 {
			// Malformed stored observations degrade to an empty bag; the
			// evaluator then treats every field as absent.
			_ = json.Unmarshal(rawObservations, &f.Observations)
		}
		if rawOutcome.Valid {
			f.Outcome = rules.Outcome(rawOutcome.String)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
