package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"loglens/internal/domain"
	"loglens/pkg/platform/sentinel"
)

// PostgresUserStore reads directory users from PostgreSQL.
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Get(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, email, name, COALESCE(records_per_page, 0)
		FROM users
		WHERE id = $1
	`

	var u domain.User
	err := s.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name, &u.RecordsPerPage)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}
