package export

import (
	"context"
	"fmt"
	"log/slog"

	"loglens/internal/logs"
	"loglens/internal/platform/metrics"
)

const (
	deliverySubject = "Your log export is ready"
	deliveryBody    = "Attached is your requested log export."
)

// Attachment is the serialized export handed to the notification channel.
type Attachment struct {
	Filename string
	Bytes    []byte
	MIMEType string
}

// Notifier is the external notification channel. Retry and queueing are its
// problem, not ours.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string, att Attachment) error
}

// Job is one out-of-band export delivery.
type Job struct {
	Recipient string
	Query     logs.Query
	Format    Format
}

// Worker drains the export job queue: fetch, serialize, deliver. The
// originating request has long since completed, so failures here are logged
// and counted, never propagated.
type Worker struct {
	jobs     <-chan Job
	store    Store
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type WorkerOption func(*Worker)

func WorkerWithLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) {
		w.logger = logger
	}
}

func WorkerWithMetrics(m *metrics.Metrics) WorkerOption {
	return func(w *Worker) {
		w.metrics = m
	}
}

func NewWorker(jobs <-chan Job, store Store, notifier Notifier, opts ...WorkerOption) (*Worker, error) {
	if jobs == nil {
		return nil, fmt.Errorf("job queue is required")
	}
	if store == nil {
		return nil, fmt.Errorf("log store is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}

	w := &Worker{
		jobs:     jobs,
		store:    store,
		notifier: notifier,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run consumes jobs until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-w.jobs:
			w.process(ctx, job)
		}
	}
}

func (w *Worker) process(ctx context.Context, job Job) {
	if err := w.deliver(ctx, job); err != nil {
		w.logger.ErrorContext(ctx, "export delivery failed",
			"recipient", job.Recipient,
			"format", job.Format,
			"error", err,
		)
		if w.metrics != nil {
			w.metrics.ExportDeliveryFailures.Inc()
		}
		return
	}
	w.logger.InfoContext(ctx, "export delivered", "recipient", job.Recipient, "format", job.Format)
	if w.metrics != nil {
		w.metrics.ExportDeliveries.Inc()
	}
}

func (w *Worker) deliver(ctx context.Context, job Job) error {
	records, err := w.store.FindAll(ctx, job.Query)
	if err != nil {
		return fmt.Errorf("fetch export: %w", err)
	}
	payload, err := Serialize(records, job.Format)
	if err != nil {
		return err
	}

	att := Attachment{Filename: payload.Filename, Bytes: payload.Data, MIMEType: payload.MIMEType}
	if err := w.notifier.Send(ctx, job.Recipient, deliverySubject, deliveryBody, att); err != nil {
		return fmt.Errorf("send export: %w", err)
	}
	return nil
}
