package access

import (
	"context"

	"loglens/internal/domain"
)

// GroupStore reads access groups. Group writes are owned by the external
// CRUD layer; the resolver only ever reads, freshly, on each resolution.
type GroupStore interface {
	// ActiveGroupsFor returns the active groups that list userID as a member.
	ActiveGroupsFor(ctx context.Context, userID string) ([]domain.AccessGroup, error)
}
