package apps

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"loglens/internal/domain"
)

// PostgresStore reads applications from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ByIDs(ctx context.Context, ids []string) ([]domain.Application, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, name, is_active
		FROM applications
		WHERE id = ANY($1)
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	return scanApplications(rows)
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]domain.Application, error) {
	query := `
		SELECT id, name, is_active
		FROM applications
		WHERE is_active
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query active applications: %w", err)
	}
	defer rows.Close()

	return scanApplications(rows)
}

func scanApplications(rows *sql.Rows) ([]domain.Application, error) {
	var result []domain.Application
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(&app.ID, &app.Name, &app.IsActive); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		result = append(result, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return result, nil
}
