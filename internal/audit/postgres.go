package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	id "roadcheck/pkg/domain"
	"roadcheck/pkg/platform/sentinel"
)

// PostgresStore persists audit events in PostgreSQL for deployments without
// a Kafka audit pipeline.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed event store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	var orgID *string
	if event.OrgID != nil {
		v := event.OrgID.String()
		orgID = &v
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (occurred_at, org_id, subject, action, decision, reason, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, event.Timestamp, orgID, event.Subject, string(event.Action),
		event.Decision, event.Reason, event.RequestID)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// PostgresSourceStore persists provenance records.
type PostgresSourceStore struct {
	db *sql.DB
}

// NewPostgresSourceStore constructs a PostgreSQL-backed source store.
func NewPostgresSourceStore(db *sql.DB) *PostgresSourceStore {
	return &PostgresSourceStore{db: db}
}

func (s *PostgresSourceStore) Create(ctx context.Context, source *Source) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rule_sources (id, authority, document, edition, url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, source.ID.String(), source.Authority, source.Document,
		source.Edition, source.URL, source.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert rule source: %w", err)
	}
	return nil
}

func (s *PostgresSourceStore) FindByID(ctx context.Context, sourceID id.SourceID) (*Source, error) {
	var (
		source Source
		rawID  string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, authority, document, edition, url, created_at
		FROM rule_sources
		WHERE id = $1
	`, sourceID.String()).Scan(&rawID, &source.Authority, &source.Document,
		&source.Edition, &source.URL, &source.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find rule source: %w", err)
	}
	source.ID = sourceID
	return &source, nil
}
