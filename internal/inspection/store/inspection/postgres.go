package inspection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"roadcheck/internal/inspection/models"
	id "roadcheck/pkg/domain"
	"roadcheck/pkg/platform/sentinel"
)

// Postgres persists inspections in PostgreSQL. Schema lives in
// migrations/0001_init.up.sql.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed inspection store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const inspectionColumns = `id, org_id, asset_id, rules_version_id, status, inspector, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, insp *models.Inspection) error {
	var versionID *string
	if insp.RulesVersionID != nil {
		v := insp.RulesVersionID.String()
		versionID = &v
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inspections (`+inspectionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, insp.ID.String(), insp.OrgID.String(), insp.AssetID.String(), versionID,
		string(insp.Status), insp.Inspector, insp.CreatedAt, insp.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert inspection: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, inspectionID id.InspectionID) (*models.Inspection, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+inspectionColumns+`
		FROM inspections
		WHERE id = $1
	`, inspectionID.String())
	return scanInspection(row)
}

func (s *Postgres) UpdateStatus(ctx context.Context, inspectionID id.InspectionID, status models.InspectionStatus) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE inspections
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, inspectionID.String(), string(status), time.Now())
	if err != nil {
		return fmt.Errorf("update inspection status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update inspection status: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) ListByOrg(ctx context.Context, orgID id.OrgID) ([]models.Inspection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+inspectionColumns+`
		FROM inspections
		WHERE org_id = $1
		ORDER BY created_at DESC
	`, orgID.String())
	if err != nil {
		return nil, fmt.Errorf("list inspections: %w", err)
	}
	defer rows.Close()

	var out []models.Inspection
	for rows.Next() {
		insp, err := scanInspection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *insp)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInspection(row rowScanner) (*models.Inspection, error) {
	var (
		insp      models.Inspection
		rawID     string
		rawOrg    string
		rawAsset  string
		rawVer    sql.NullString
		rawStatus string
	)
	err := row.Scan(&rawID, &rawOrg, &rawAsset, &rawVer, &rawStatus,
		&insp.Inspector, &insp.CreatedAt, &insp.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan inspection: %w", err)
	}

	u, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan inspection id: %w", err)
	}
	insp.ID = id.InspectionID(u)

	org, err := id.ParseOrgID(rawOrg)
	if err != nil {
		return nil, fmt.Errorf("scan inspection org: %w", err)
	}
	insp.OrgID = org

	asset, err := id.ParseAssetID(rawAsset)
	if err != nil {
		return nil, fmt.Errorf("scan inspection asset: %w", err)
	}
	insp.AssetID = asset

	if rawVer.Valid {
		ver, err := id.ParseVersionID(rawVer.String)
		if err != nil {
			return nil, fmt.Errorf("scan inspection version: %w", err)
		}
		insp.RulesVersionID = &ver
	}
	insp.Status = models.InspectionStatus(rawStatus)
	return &insp, nil
}
