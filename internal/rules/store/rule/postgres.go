package rule

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"roadcheck/internal/rules/models"
	id "roadcheck/pkg/domain"
	"roadcheck/pkg/platform/sentinel"
)

// Postgres persists rules in PostgreSQL. Condition trees are stored as JSONB
// in condition_json; rows that fail to decode degrade to never-matching rules
// instead of failing the whole list.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed rule store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) CreateBatch(ctx context.Context, rules []*models.Rule) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rule batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rules (id, version_id, category, vmrs_system_code, title,
			condition_json, outcome, explanation_template, is_triage_only)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)
	if err != nil {
		return fmt.Errorf("prepare rule insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rules {
		var conditionJSON any
		if r.Condition != nil {
			data, err := json.Marshal(r.Condition)
			if err != nil {
				return fmt.Errorf("encode condition for rule %s: %w", r.ID, err)
			}
			conditionJSON = string(data)
		}
		_, err = stmt.ExecContext(ctx, r.ID.String(), r.VersionID.String(),
			string(r.Category), r.VMRSSystemCode, r.Title, conditionJSON,
			string(r.Outcome), r.ExplanationTemplate, r.TriageOnly)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
				return sentinel.ErrConflict
			}
			return fmt.Errorf("insert rule %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// ListByVersion returns the version's rules ordered by rule ID for stable
// evaluation order. An unknown version yields an empty list.
func (s *Postgres) ListByVersion(ctx context.Context, versionID id.VersionID) ([]models.Rule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, version_id, category, vmrs_system_code, title,
			condition_json, outcome, explanation_template, is_triage_only
		FROM rules
		WHERE version_id = $1
		ORDER BY id ASC
	`, versionID.String())
	if err != nil {
		return nil, fmt.Errorf("list rules for version: %w", err)
	}
	defer rows.Close()

	var out []models.Rule
	for rows.Next() {
		var (
			r            models.Rule
			rawID        string
			rawVersionID string
			rawCategory  string
			rawCondition sql.NullString
			rawOutcome   string
		)
		err := rows.Scan(&rawID, &rawVersionID, &rawCategory, &r.VMRSSystemCode,
			&r.Title, &rawCondition, &rawOutcome, &r.ExplanationTemplate, &r.TriageOnly)
		if err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}

		ruleUUID, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		r.ID = id.RuleID(ruleUUID)

		versionID, err := id.ParseVersionID(rawVersionID)
		if err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		r.VersionID = versionID
		r.Category = models.Category(rawCategory)
		r.Outcome = models.Outcome(rawOutcome)

		if rawCondition.Valid {
			var node models.ConditionNode
			// ConditionNode decoding is fail-closed: malformed JSON becomes
			// an invalid node that never matches.
			_ = json.Unmarshal([]byte(rawCondition.String), &node)
			r.Condition = &node
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}
	return out, nil
}
