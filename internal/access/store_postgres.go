package access

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"loglens/internal/domain"
)

// PostgresGroupStore reads access groups from PostgreSQL. Membership and
// application assignment are stored as text arrays, mirroring the group
// document the admin layer writes.
type PostgresGroupStore struct {
	db *sql.DB
}

// NewPostgresGroupStore constructs a PostgreSQL-backed group store.
func NewPostgresGroupStore(db *sql.DB) *PostgresGroupStore {
	return &PostgresGroupStore{db: db}
}

func (s *PostgresGroupStore) ActiveGroupsFor(ctx context.Context, userID string) ([]domain.AccessGroup, error) {
	query := `
		SELECT id, name, members, assigned_applications
		FROM access_groups
		WHERE is_active AND $1 = ANY(members)
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query active groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.AccessGroup
	for rows.Next() {
		g := domain.AccessGroup{IsActive: true}
		if err := rows.Scan(&g.ID, &g.Name, pq.Array(&g.Members), pq.Array(&g.AssignedApplications)); err != nil {
			return nil, fmt.Errorf("scan access group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate access groups: %w", err)
	}

	return groups, nil
}
