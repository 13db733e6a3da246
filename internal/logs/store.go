package logs

import (
	"context"

	"loglens/internal/domain"
)

// HourLevel keys a sparse activity count: hour-of-day crossed with level.
type HourLevel struct {
	Hour  int
	Level string
}

// LogStore is the read surface over the shared log store. Log writes belong
// to the ingestion pipeline; deletes happen only through retention expiry.
type LogStore interface {
	// Find returns matching records sorted by timestamp descending with an
	// id descending tie-break, so repeated pagination over a fixed dataset
	// is stable.
	Find(ctx context.Context, q Query, offset, limit int) ([]domain.LogRecord, error)

	// FindAll returns the full unpaginated match set in the same order.
	FindAll(ctx context.Context, q Query) ([]domain.LogRecord, error)

	// Count returns the number of matching records without materializing
	// them.
	Count(ctx context.Context, q Query) (int, error)

	// CountByHourLevel groups matching records by hour-of-day and level.
	// Absent combinations are simply missing; densification is the
	// aggregator's job.
	CountByHourLevel(ctx context.Context, q Query) (map[HourLevel]int, error)
}
