package logs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"loglens/internal/apps"
	"loglens/internal/domain"
	dErrors "loglens/pkg/domainerrors"
)

// staticScope is a ScopeResolver pinned to a fixed result per principal.
type staticScope struct {
	scopes map[string][]string
	err    error
}

func (s *staticScope) Resolve(_ context.Context, principalID string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.scopes[principalID], nil
}

// =============================================================================
// Log Query Engine Test Suite
// =============================================================================

type ServiceSuite struct {
	suite.Suite
	scope   *staticScope
	store   *InMemoryLogStore
	apps    *apps.InMemoryStore
	service *Service

	principal domain.Principal
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.scope = &staticScope{scopes: map[string][]string{
		"u1": {"app-1", "app-2"},
	}}
	s.store = NewInMemoryLogStore()
	s.apps = apps.NewInMemoryStore()
	s.apps.Put(domain.Application{ID: "app-1", Name: "billing", IsActive: true})
	s.apps.Put(domain.Application{ID: "app-2", Name: "auth", IsActive: true})
	s.apps.Put(domain.Application{ID: "app-3", Name: "hidden", IsActive: true})

	var err error
	s.service, err = New(s.scope, s.store, s.apps)
	s.Require().NoError(err)

	s.principal = domain.Principal{ID: "u1", Email: "u1@example.com", RecordsPerPage: 3}
}

func (s *ServiceSuite) seed(n int, appID, level string, base time.Time) {
	for i := 0; i < n; i++ {
		s.store.Add(domain.LogRecord{
			ID:            fmt.Sprintf("%s-%s-%03d", appID, level, i),
			ApplicationID: appID,
			Timestamp:     base.Add(time.Duration(i) * time.Minute),
			Level:         level,
			Message:       fmt.Sprintf("%s event %d", level, i),
		})
	}
}

// -----------------------------------------------------------------------------
// BuildQuery
// -----------------------------------------------------------------------------

func (s *ServiceSuite) TestBuildQueryIntersectsScope() {
	q, ok, err := s.service.BuildQuery(context.Background(), "u1", Filters{
		AppIDs: []string{"app-2", "app-3"},
	})
	s.Require().NoError(err)
	s.True(ok)
	// app-3 is outside the caller's scope: dropped, not rejected.
	s.Equal([]string{"app-2"}, q.AppIDs)
}

func (s *ServiceSuite) TestBuildQueryNoFilterMeansWholeScope() {
	q, ok, err := s.service.BuildQuery(context.Background(), "u1", Filters{})
	s.Require().NoError(err)
	s.True(ok)
	s.Equal([]string{"app-1", "app-2"}, q.AppIDs)
}

func (s *ServiceSuite) TestBuildQueryFullyOutOfScope() {
	_, ok, err := s.service.BuildQuery(context.Background(), "u1", Filters{
		AppIDs: []string{"app-3"},
	})
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ServiceSuite) TestBuildQueryPropagatesScopeErrors() {
	s.scope.err = dErrors.New(dErrors.CodeNotAuthorized, "not a member of any active group")

	_, _, err := s.service.BuildQuery(context.Background(), "u1", Filters{})
	s.Equal(dErrors.CodeNotAuthorized, dErrors.CodeOf(err))
}

// -----------------------------------------------------------------------------
// Query
// -----------------------------------------------------------------------------

func (s *ServiceSuite) TestQueryPaginates() {
	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	s.seed(7, "app-1", "info", base)

	page1, err := s.service.Query(context.Background(), s.principal, Filters{}, 1)
	s.Require().NoError(err)
	s.Len(page1.Records, 3)
	s.Equal(7, page1.TotalMatched)
	s.Equal(3, page1.Total)
	s.Equal(3, page1.TotalPages)
	s.Equal(3, page1.PageSize)

	// Newest first: the first record on page one is the latest seeded.
	s.Equal("app-1-info-006", page1.Records[0].ID)

	page3, err := s.service.Query(context.Background(), s.principal, Filters{}, 3)
	s.Require().NoError(err)
	s.Len(page3.Records, 1)
	s.Equal("app-1-info-000", page3.Records[0].ID)

	// Pages are disjoint and cover the whole match set.
	seen := map[string]bool{}
	for page := 1; page <= page1.TotalPages; page++ {
		p, err := s.service.Query(context.Background(), s.principal, Filters{}, page)
		s.Require().NoError(err)
		for _, rec := range p.Records {
			s.False(seen[rec.ID], "record %s appeared on two pages", rec.ID)
			seen[rec.ID] = true
		}
	}
	s.Len(seen, 7)
}

func (s *ServiceSuite) TestQueryTieBreaksOnID() {
	ts := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	s.store.Add(
		domain.LogRecord{ID: "a", ApplicationID: "app-1", Timestamp: ts, Level: "info"},
		domain.LogRecord{ID: "b", ApplicationID: "app-1", Timestamp: ts, Level: "info"},
		domain.LogRecord{ID: "c", ApplicationID: "app-1", Timestamp: ts, Level: "info"},
	)

	page, err := s.service.Query(context.Background(), s.principal, Filters{}, 1)
	s.Require().NoError(err)
	s.Equal([]string{"c", "b", "a"}, []string{page.Records[0].ID, page.Records[1].ID, page.Records[2].ID})
}

func (s *ServiceSuite) TestQueryRejectsNonPositivePage() {
	_, err := s.service.Query(context.Background(), s.principal, Filters{}, 0)
	s.Equal(dErrors.CodeInvalidInput, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestQueryOutOfScopeFilterYieldsEmptyPage() {
	s.seed(5, "app-1", "info", time.Now().Add(-time.Hour))

	page, err := s.service.Query(context.Background(), s.principal, Filters{AppIDs: []string{"app-3"}}, 1)
	s.Require().NoError(err)
	s.Empty(page.Records)
	s.Zero(page.TotalMatched)
	s.Zero(page.TotalPages)
	s.Equal(3, page.PageSize)
}

func (s *ServiceSuite) TestQueryDefaultsPageSize() {
	s.seed(12, "app-1", "info", time.Now().Add(-time.Hour))

	page, err := s.service.Query(context.Background(), domain.Principal{ID: "u1"}, Filters{}, 1)
	s.Require().NoError(err)
	s.Equal(DefaultPageSize, page.PageSize)
	s.Len(page.Records, DefaultPageSize)
	s.Equal(2, page.TotalPages)
}

func (s *ServiceSuite) TestQueryCountsFullMatchSetNotPage() {
	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	s.seed(4, "app-1", "error", base)
	s.seed(4, "app-2", "error", base.Add(time.Hour))
	s.seed(4, "app-2", "debug", base.Add(2*time.Hour))

	page, err := s.service.Query(context.Background(), s.principal, Filters{Levels: []string{"error"}}, 1)
	s.Require().NoError(err)
	s.Equal(8, page.TotalMatched)
	s.Len(page.Records, 3)
}

func (s *ServiceSuite) TestQueryIncludesAssignedApplications() {
	page, err := s.service.Query(context.Background(), s.principal, Filters{}, 1)
	s.Require().NoError(err)

	// Ordered by name, scope-limited.
	s.Require().Len(page.AssignedApplications, 2)
	s.Equal("auth", page.AssignedApplications[0].Name)
	s.Equal("billing", page.AssignedApplications[1].Name)
}
