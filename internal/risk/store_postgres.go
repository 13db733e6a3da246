package risk

import (
	"context"
	"database/sql"
	"fmt"

	"loglens/internal/domain"
)

// PostgresRuleStore reads at-risk rules from PostgreSQL.
type PostgresRuleStore struct {
	db *sql.DB
}

func NewPostgresRuleStore(db *sql.DB) *PostgresRuleStore {
	return &PostgresRuleStore{db: db}
}

func (s *PostgresRuleStore) ListRules(ctx context.Context) ([]domain.RiskRule, error) {
	query := `
		SELECT id, log_type, operator, unit, time, threshold
		FROM at_risk_rules
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query at-risk rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.RiskRule
	for rows.Next() {
		var r domain.RiskRule
		if err := rows.Scan(&r.ID, &r.LogType, &r.Operator, &r.Unit, &r.Time, &r.Threshold); err != nil {
			return nil, fmt.Errorf("scan at-risk rule: %w", err)
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate at-risk rules: %w", err)
	}

	return rules, nil
}
