package version

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"roadcheck/internal/rules/models"
	id "roadcheck/pkg/domain"
	"roadcheck/pkg/platform/sentinel"
)

// Postgres persists rule versions in PostgreSQL. Schema lives in
// migrations/0001_init.up.sql.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed version store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const versionColumns = `id, org_id, name, effective_start, effective_end, status, source_ids, created_at`

func (s *Postgres) Create(ctx context.Context, v *models.RuleVersion) error {
	sourceIDs := make([]string, 0, len(v.SourceIDs))
	for _, sid := range v.SourceIDs {
		sourceIDs = append(sourceIDs, sid.String())
	}

	var orgID *string
	if v.OrgID != nil {
		s := v.OrgID.String()
		orgID = &s
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rules_versions (`+versionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, v.ID.String(), orgID, v.Name, v.EffectiveStart, v.EffectiveEnd,
		string(v.Status), pq.Array(sourceIDs), v.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert rules version: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, versionID id.VersionID) (*models.RuleVersion, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+versionColumns+`
		FROM rules_versions
		WHERE id = $1
	`, versionID.String())
	return scanVersion(row)
}

func (s *Postgres) FindByName(ctx context.Context, orgID *id.OrgID, name string) (*models.RuleVersion, error) {
	var row *sql.Row
	if orgID == nil {
		row = s.db.QueryRowContext(ctx, `
			SELECT `+versionColumns+`
			FROM rules_versions
			WHERE org_id IS NULL AND lower(name) = lower($1)
		`, name)
	} else {
		row = s.db.QueryRowContext(ctx, `
			SELECT `+versionColumns+`
			FROM rules_versions
			WHERE org_id = $1 AND lower(name) = lower($2)
		`, orgID.String(), name)
	}
	return scanVersion(row)
}

// FindActive selects the applicable ACTIVE version for the tenant at asOf.
// Ordering is part of the contract: tenant-specific rows sort before global
// ones so a tenant's own criteria always win over the default catalogue.
func (s *Postgres) FindActive(ctx context.Context, orgID id.OrgID, asOf time.Time) (*models.RuleVersion, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+versionColumns+`
		FROM rules_versions
		WHERE status = 'ACTIVE'
		  AND (org_id = $1 OR org_id IS NULL)
		  AND effective_start <= $2
		  AND (effective_end >= $2 OR effective_end IS NULL)
		ORDER BY (org_id IS NULL) ASC, effective_start DESC
		LIMIT 1
	`, orgID.String(), asOf)
	return scanVersion(row)
}

func scanVersion(row *sql.Row) (*models.RuleVersion, error) {
	var (
		v          models.RuleVersion
		rawID      string
		rawOrgID   sql.NullString
		rawEnd     sql.NullTime
		rawStatus  string
		rawSources []string
	)
	err := row.Scan(&rawID, &rawOrgID, &v.Name, &v.EffectiveStart, &rawEnd,
		&rawStatus, pq.Array(&rawSources), &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan rules version: %w", err)
	}

	versionID, err := id.ParseVersionID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan rules version: %w", err)
	}
	v.ID = versionID

	if rawOrgID.Valid {
		orgID, err := id.ParseOrgID(rawOrgID.String)
		if err != nil {
			return nil, fmt.Errorf("scan rules version: %w", err)
		}
		v.OrgID = &orgID
	}
	if rawEnd.Valid {
		end := rawEnd.Time
		v.EffectiveEnd = &end
	}
	v.Status = models.VersionStatus(rawStatus)

	for _, raw := range rawSources {
		u, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("scan rules version: %w", err)
		}
		v.SourceIDs = append(v.SourceIDs, id.SourceID(u))
	}
	return &v, nil
}
