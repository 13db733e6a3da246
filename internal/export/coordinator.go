// Package export chooses between synchronous download and out-of-band
// delivery for bulk log exports.
package export

import (
	"context"
	"fmt"
	"log/slog"

	"loglens/internal/domain"
	"loglens/internal/logs"
	"loglens/internal/platform/metrics"
	dErrors "loglens/pkg/domainerrors"
)

// DefaultAsyncThreshold is the match count above which the payload is never
// transferred on the request path.
const DefaultAsyncThreshold = 1000

// QueryBuilder is the scope-checked query construction slice of the log
// query engine.
type QueryBuilder interface {
	BuildQuery(ctx context.Context, principalID string, f logs.Filters) (logs.Query, bool, error)
}

// Store is the log store surface exports need: a cheap count to pick the
// path, and the full unpaginated fetch.
type Store interface {
	Count(ctx context.Context, q logs.Query) (int, error)
	FindAll(ctx context.Context, q logs.Query) ([]domain.LogRecord, error)
}

// Result is either a synchronous payload or an acknowledgement that the
// export will arrive out of band.
type Result struct {
	Async   bool
	Payload *Payload
}

// Coordinator decides the delivery path and serializes synchronous exports.
// Async exports go onto a bounded job queue consumed by the Worker; once a
// job is accepted the request completes, so delivery is best-effort and
// at-most-once from the caller's point of view.
type Coordinator struct {
	queries   QueryBuilder
	store     Store
	jobs      chan<- Job
	threshold int
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type CoordinatorOption func(*Coordinator)

// WithThreshold overrides the async cutover count.
func WithThreshold(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.threshold = n
		}
	}
}

func WithLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) CoordinatorOption {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

func NewCoordinator(queries QueryBuilder, store Store, jobs chan<- Job, opts ...CoordinatorOption) (*Coordinator, error) {
	if queries == nil {
		return nil, fmt.Errorf("query builder is required")
	}
	if store == nil {
		return nil, fmt.Errorf("log store is required")
	}
	if jobs == nil {
		return nil, fmt.Errorf("job queue is required")
	}

	c := &Coordinator{
		queries:   queries,
		store:     store,
		jobs:      jobs,
		threshold: DefaultAsyncThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Export counts the match set first, without materializing it. Every match
// set larger than the threshold is handed to the background worker and the
// caller gets an immediate acknowledgement; everything else is fetched and
// serialized on the request path.
func (c *Coordinator) Export(ctx context.Context, principal domain.Principal, f logs.Filters, format Format) (*Result, error) {
	q, ok, err := c.queries.BuildQuery(ctx, principal.ID, f)
	if err != nil {
		return nil, err
	}
	if !ok {
		payload, err := Serialize(nil, format)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to serialize export")
		}
		return &Result{Payload: payload}, nil
	}

	count, err := c.store.Count(ctx, q)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to count export")
	}

	if count > c.threshold {
		c.enqueue(ctx, Job{Recipient: principal.Email, Query: q, Format: format})
		if c.metrics != nil {
			c.metrics.ExportsAsync.Inc()
		}
		return &Result{Async: true}, nil
	}

	records, err := c.store.FindAll(ctx, q)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to fetch export")
	}
	payload, err := Serialize(records, format)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to serialize export")
	}
	if c.metrics != nil {
		c.metrics.ExportsSync.Inc()
	}
	return &Result{Payload: payload}, nil
}

// enqueue hands a job to the worker without blocking the request. A full
// queue drops the job: the contract is best-effort, and a stalled delivery
// pipeline must not stall the API.
func (c *Coordinator) enqueue(ctx context.Context, job Job) {
	select {
	case c.jobs <- job:
	default:
		c.logger.ErrorContext(ctx, "export queue full, dropping delivery job",
			"recipient", job.Recipient,
			"format", job.Format,
		)
		if c.metrics != nil {
			c.metrics.ExportDeliveryFailures.Inc()
		}
	}
}
