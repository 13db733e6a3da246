// Package apps is the read-only view over registered applications. The
// admin CRUD layer owns all writes.
package apps

import (
	"context"

	"loglens/internal/domain"
)

// Store reads applications.
type Store interface {
	// ByIDs resolves application IDs to id+name pairs, ordered by name.
	// Unknown IDs are skipped, matching the eventually consistent reference
	// from log records.
	ByIDs(ctx context.Context, ids []string) ([]domain.Application, error)

	// ListActive returns every active application, ordered by id.
	ListActive(ctx context.Context) ([]domain.Application, error)
}
