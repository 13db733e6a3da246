// Package access resolves the set of application IDs a principal may see
// from their active group memberships.
package access

import (
	"context"
	"fmt"
	"log/slog"

	dErrors "loglens/pkg/domainerrors"
	strs "loglens/pkg/platform/strings"
)

// Resolver computes a principal's scope: the union of assigned applications
// across every active group they belong to. Scope is re-resolved on every
// call unless a short-TTL cache is configured, trading a little staleness
// for fewer group reads.
type Resolver struct {
	groups GroupStore
	cache  *ScopeCache
	logger *slog.Logger
}

type ResolverOption func(*Resolver)

// WithCache enables the bounded-TTL scope cache.
func WithCache(cache *ScopeCache) ResolverOption {
	return func(r *Resolver) {
		r.cache = cache
	}
}

// WithLogger sets a logger for cache diagnostics.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func NewResolver(groups GroupStore, opts ...ResolverOption) (*Resolver, error) {
	if groups == nil {
		return nil, fmt.Errorf("group store is required")
	}

	r := &Resolver{
		groups: groups,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve returns the application IDs visible to the principal.
//
// A principal with zero active group memberships is not authorized at all.
// That is a different condition from a principal whose filters later
// eliminate every in-scope application, which yields an empty result, not
// an error.
func (r *Resolver) Resolve(ctx context.Context, principalID string) ([]string, error) {
	if principalID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "principal id is required")
	}

	if r.cache != nil {
		scope, hit, err := r.cache.Get(ctx, principalID)
		if err != nil {
			r.logger.WarnContext(ctx, "scope cache read failed", "principal_id", principalID, "error", err)
		} else if hit {
			// Only resolved memberships are cached, so an empty cached scope
			// means "member of active groups that assign no applications",
			// never "no membership".
			return scope, nil
		}
	}

	groups, err := r.groups.ActiveGroupsFor(ctx, principalID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load group memberships")
	}
	if len(groups) == 0 {
		return nil, dErrors.New(dErrors.CodeNotAuthorized, "not a member of any active group")
	}

	var union []string
	for _, g := range groups {
		union = append(union, g.AssignedApplications...)
	}
	scope := strs.DedupeAndTrim(union)

	if r.cache != nil {
		if err := r.cache.Set(ctx, principalID, scope); err != nil {
			r.logger.WarnContext(ctx, "scope cache write failed", "principal_id", principalID, "error", err)
		}
	}

	return scope, nil
}
