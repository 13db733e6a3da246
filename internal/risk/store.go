package risk

import (
	"context"
	"time"

	"loglens/internal/domain"
)

// RuleStore reads configured at-risk rules. Rule writes belong to the
// external CRUD layer, which also enforces the unique (logType, operator)
// pair.
type RuleStore interface {
	// ListRules returns all rules ordered by id, so evaluation output is
	// deterministic.
	ListRules(ctx context.Context) ([]domain.RiskRule, error)
}

// AppLister supplies the active applications under evaluation.
type AppLister interface {
	ListActive(ctx context.Context) ([]domain.Application, error)
}

// WindowCounter is the batched aggregation a rule needs: one grouped count
// per rule across all applications, instead of a query per pair.
type WindowCounter interface {
	CountByAppSince(ctx context.Context, level string, since time.Time, appIDs []string) (map[string]int, error)
}
