// Package retention maintains the log expiry policy and the background
// sweep that enforces it.
package retention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loglens/internal/domain"
	"loglens/internal/platform/metrics"
	dErrors "loglens/pkg/domainerrors"
	"loglens/pkg/platform/sentinel"
)

const (
	DefaultRetentionDays = 30
	MinRetentionDays     = 1
	MaxRetentionDays     = 365

	// SecondsPerDay converts the stored day bound into the age-in-seconds
	// form used for sweeps and reported to clients.
	SecondsPerDay = 86400
)

// Manager owns the retention policy lifecycle. Expiry is a soft background
// guarantee: a sweep racing an in-flight query is benign, the query just
// observes the policy mid-transition.
type Manager struct {
	policies PolicyStore
	sweeper  Sweeper
	indexer  Indexer
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithMetrics(mx *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mx
	}
}

// WithIndexer lets the manager prepare expiry indexes on startup.
func WithIndexer(idx Indexer) Option {
	return func(m *Manager) {
		m.indexer = idx
	}
}

// WithClock fixes the sweep clock for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(policies PolicyStore, sweeper Sweeper, opts ...Option) (*Manager, error) {
	if policies == nil {
		return nil, fmt.Errorf("policy store is required")
	}
	if sweeper == nil {
		return nil, fmt.Errorf("sweeper is required")
	}

	m := &Manager{
		policies: policies,
		sweeper:  sweeper,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Ensure bootstraps the policy singleton with the default bound and the
// expiry indexes. Idempotent: repeated calls neither reset an existing
// policy nor duplicate indexes.
func (m *Manager) Ensure(ctx context.Context) error {
	if err := m.policies.EnsureDefault(ctx, DefaultRetentionDays); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to bootstrap retention policy")
	}
	if m.indexer != nil {
		if err := m.indexer.EnsureLogIndexes(ctx); err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to ensure log indexes")
		}
	}
	return nil
}

// Get returns the current policy.
func (m *Manager) Get(ctx context.Context) (*domain.RetentionPolicy, error) {
	policy, err := m.policies.Get(ctx)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "retention policy not configured")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load retention policy")
	}
	return policy, nil
}

// Update replaces the retention bound. Identical repeated calls converge on
// the same stored state.
func (m *Manager) Update(ctx context.Context, days int, updatedBy string) (*domain.RetentionPolicy, error) {
	if days < MinRetentionDays || days > MaxRetentionDays {
		return nil, dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("retentionDays must be between %d and %d", MinRetentionDays, MaxRetentionDays))
	}
	if updatedBy == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "updatedBy is required")
	}

	policy, err := m.policies.Update(ctx, days, updatedBy)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to update retention policy")
	}

	m.logger.InfoContext(ctx, "retention policy updated",
		"retention_days", days,
		"retention_seconds", days*SecondsPerDay,
		"updated_by", updatedBy,
	)
	return policy, nil
}

// Sweep deletes every record older than the policy's age bound and reports
// how many were removed.
func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	policy, err := m.Get(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := m.now().Add(-time.Duration(policy.RetentionDays*SecondsPerDay) * time.Second)
	deleted, err := m.sweeper.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to sweep expired logs")
	}

	if deleted > 0 {
		m.logger.InfoContext(ctx, "retention sweep removed expired logs",
			"deleted", deleted,
			"cutoff", cutoff,
		)
	}
	if m.metrics != nil {
		m.metrics.RetentionDeleted.Add(float64(deleted))
	}
	return deleted, nil
}

// Run sweeps on the given interval until the context is cancelled. Sweep
// failures are logged and the loop keeps going; retention is best-effort by
// contract.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := m.Sweep(ctx); err != nil {
				m.logger.ErrorContext(ctx, "retention sweep failed", "error", err)
			}
		}
	}
}
