package retention

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"loglens/internal/domain"
	"loglens/pkg/platform/sentinel"
)

// The policy is a singleton row; the fixed id turns every write into an
// upsert against the same record.
const policyID = "log_settings"

// PostgresPolicyStore persists the retention policy in PostgreSQL.
type PostgresPolicyStore struct {
	db *sql.DB
}

func NewPostgresPolicyStore(db *sql.DB) *PostgresPolicyStore {
	return &PostgresPolicyStore{db: db}
}

func (s *PostgresPolicyStore) Get(ctx context.Context) (*domain.RetentionPolicy, error) {
	query := `
		SELECT retention_days, updated_by, created_at, updated_at
		FROM retention_policy
		WHERE id = $1
	`

	var p domain.RetentionPolicy
	err := s.db.QueryRowContext(ctx, query, policyID).Scan(&p.RetentionDays, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query retention policy: %w", err)
	}
	return &p, nil
}

func (s *PostgresPolicyStore) EnsureDefault(ctx context.Context, days int) error {
	query := `
		INSERT INTO retention_policy (id, retention_days, updated_by, created_at, updated_at)
		VALUES ($1, $2, 'system', NOW(), NOW())
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, policyID, days); err != nil {
		return fmt.Errorf("ensure retention policy: %w", err)
	}
	return nil
}

func (s *PostgresPolicyStore) Update(ctx context.Context, days int, updatedBy string) (*domain.RetentionPolicy, error) {
	query := `
		INSERT INTO retention_policy (id, retention_days, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET retention_days = EXCLUDED.retention_days,
		    updated_by = EXCLUDED.updated_by,
		    updated_at = NOW()
		RETURNING retention_days, updated_by, created_at, updated_at
	`

	var p domain.RetentionPolicy
	err := s.db.QueryRowContext(ctx, query, policyID, days, updatedBy).
		Scan(&p.RetentionDays, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update retention policy: %w", err)
	}
	return &p, nil
}
