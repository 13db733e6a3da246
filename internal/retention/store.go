package retention

import (
	"context"
	"time"

	"loglens/internal/domain"
)

// PolicyStore persists the single logical retention policy.
type PolicyStore interface {
	// Get returns the policy, or sentinel.ErrNotFound if Ensure never ran.
	Get(ctx context.Context) (*domain.RetentionPolicy, error)

	// EnsureDefault creates the policy with the given days if absent. It is
	// a no-op when the policy already exists.
	EnsureDefault(ctx context.Context, days int) error

	// Update replaces the policy's retention bound and records who changed
	// it.
	Update(ctx context.Context, days int, updatedBy string) (*domain.RetentionPolicy, error)
}

// Sweeper deletes expired log records.
type Sweeper interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Indexer prepares the log store for cheap expiry scans.
type Indexer interface {
	EnsureLogIndexes(ctx context.Context) error
}
