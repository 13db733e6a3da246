// Package logs builds and executes filtered, paginated, access-scoped log
// queries. It is the shared front door to the log store: the activity
// aggregator and the export coordinator both reuse its scope resolution so
// every read path enforces the same visibility rules.
package logs

import (
	"context"
	"fmt"
	"log/slog"

	"loglens/internal/apps"
	"loglens/internal/domain"
	dErrors "loglens/pkg/domainerrors"
	strs "loglens/pkg/platform/strings"
)

// DefaultPageSize applies when a principal carries no records-per-page
// preference.
const DefaultPageSize = 10

// ScopeResolver narrows queries to the applications a principal may see.
type ScopeResolver interface {
	Resolve(ctx context.Context, principalID string) ([]string, error)
}

// Page is one page of query results plus the totals a client needs to
// paginate.
type Page struct {
	Records              []domain.LogRecord
	Total                int
	TotalMatched         int
	TotalPages           int
	PageSize             int
	AssignedApplications []domain.Application
}

// Service is the log query engine.
type Service struct {
	scope  ScopeResolver
	store  LogStore
	apps   apps.Store
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(scope ScopeResolver, store LogStore, appStore apps.Store, opts ...Option) (*Service, error) {
	if scope == nil {
		return nil, fmt.Errorf("scope resolver is required")
	}
	if store == nil {
		return nil, fmt.Errorf("log store is required")
	}
	if appStore == nil {
		return nil, fmt.Errorf("application store is required")
	}

	svc := &Service{
		scope:  scope,
		store:  store,
		apps:   appStore,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// BuildQuery resolves the principal's scope and intersects it with the
// requested filters. Requested application IDs outside the scope are
// silently dropped, not rejected. The boolean reports whether anything is
// left to query: false means the caller should return an empty result
// without touching the log store.
func (s *Service) BuildQuery(ctx context.Context, principalID string, f Filters) (Query, bool, error) {
	if err := f.Validate(); err != nil {
		return Query{}, false, err
	}

	scope, err := s.scope.Resolve(ctx, principalID)
	if err != nil {
		return Query{}, false, err
	}

	effective := strs.Intersect(scope, strs.DedupeAndTrim(f.AppIDs))
	if len(effective) == 0 {
		return Query{}, false, nil
	}

	return Query{
		AppIDs: effective,
		Levels: strs.DedupeAndTrim(f.Levels),
		From:   f.From,
		To:     f.To,
		Search: f.Search,
	}, true, nil
}

// Query returns one page of matching records, newest first.
func (s *Service) Query(ctx context.Context, principal domain.Principal, f Filters, page int) (*Page, error) {
	if page < 1 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "page must be a positive integer")
	}

	pageSize := principal.RecordsPerPage
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	q, ok, err := s.BuildQuery(ctx, principal.ID, f)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Page{PageSize: pageSize}, nil
	}

	assigned, err := s.assignedApplications(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	records, err := s.store.Find(ctx, q, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to query logs")
	}
	matched, err := s.store.Count(ctx, q)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to count logs")
	}

	return &Page{
		Records:              records,
		Total:                len(records),
		TotalMatched:         matched,
		TotalPages:           (matched + pageSize - 1) / pageSize,
		PageSize:             pageSize,
		AssignedApplications: assigned,
	}, nil
}

// AssignedApplications returns id+name for everything in the principal's
// scope, for UI pickers and the userdata endpoint.
func (s *Service) AssignedApplications(ctx context.Context, principalID string) ([]domain.Application, error) {
	return s.assignedApplications(ctx, principalID)
}

func (s *Service) assignedApplications(ctx context.Context, principalID string) ([]domain.Application, error) {
	scope, err := s.scope.Resolve(ctx, principalID)
	if err != nil {
		return nil, err
	}
	assigned, err := s.apps.ByIDs(ctx, scope)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load assigned applications")
	}
	return assigned, nil
}
