package httptransport

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"loglens/internal/access"
	"loglens/internal/activity"
	"loglens/internal/apps"
	"loglens/internal/directory"
	"loglens/internal/domain"
	"loglens/internal/export"
	"loglens/internal/logs"
	"loglens/internal/retention"
	"loglens/internal/risk"
	"loglens/pkg/testutil"
)

// staticValidator maps bearer tokens straight to principal IDs.
type staticValidator map[string]string

func (v staticValidator) ValidateToken(token string) (string, error) {
	if id, ok := v[token]; ok {
		return id, nil
	}
	return "", fmt.Errorf("unknown token")
}

// =============================================================================
// HTTP Handler Test Suite
// =============================================================================
// Wires the full service stack over in-memory stores and exercises the
// routes end to end, auth middleware included.

type HandlerSuite struct {
	suite.Suite
	router   http.Handler
	logStore *logs.InMemoryLogStore
	jobs     chan export.Job
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	users := directory.NewInMemoryUserStore()
	users.Put(domain.User{ID: "u1", Email: "u1@example.com", Name: "Pat", RecordsPerPage: 2})

	groups := access.NewInMemoryGroupStore()
	groups.Put(domain.AccessGroup{
		ID:                   "g1",
		Members:              []string{"u1"},
		AssignedApplications: []string{"app-1"},
		IsActive:             true,
	})

	appStore := apps.NewInMemoryStore()
	appStore.Put(domain.Application{ID: "app-1", Name: "billing", IsActive: true})
	appStore.Put(domain.Application{ID: "app-2", Name: "auth", IsActive: true})

	s.logStore = logs.NewInMemoryLogStore()
	ruleStore := risk.NewInMemoryRuleStore()
	policyStore := retention.NewInMemoryPolicyStore()

	resolver, err := access.NewResolver(groups)
	s.Require().NoError(err)
	dir, err := directory.New(users)
	s.Require().NoError(err)
	logsvc, err := logs.New(resolver, s.logStore, appStore)
	s.Require().NoError(err)
	agg, err := activity.New(logsvc, s.logStore)
	s.Require().NoError(err)

	s.jobs = make(chan export.Job, 4)
	exporter, err := export.NewCoordinator(logsvc, s.logStore, s.jobs, export.WithThreshold(3))
	s.Require().NoError(err)

	evaluator, err := risk.NewEvaluator(ruleStore, appStore, s.logStore)
	s.Require().NoError(err)

	manager, err := retention.NewManager(policyStore, s.logStore)
	s.Require().NoError(err)
	s.Require().NoError(manager.Ensure(context.Background()))

	handler, err := NewHandler(dir, logsvc, agg, exporter, evaluator, manager, nil, nil)
	s.Require().NoError(err)
	s.router = NewRouter(handler, staticValidator{"token-u1": "u1", "token-ghost": "ghost"})
}

func (s *HandlerSuite) do(method, target, token string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) seedLogs(n int) {
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		s.logStore.Add(domain.LogRecord{
			ID:            fmt.Sprintf("log-%03d", i),
			ApplicationID: "app-1",
			Timestamp:     base.Add(time.Duration(i) * time.Minute),
			Level:         "error",
			Message:       fmt.Sprintf("boom %d", i),
		})
	}
}

// -----------------------------------------------------------------------------
// Auth boundary
// -----------------------------------------------------------------------------

func (s *HandlerSuite) TestMissingTokenIsUnauthorized() {
	rec := s.do(http.MethodGet, "/api/logs", "", "")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestInvalidTokenIsUnauthorized() {
	rec := s.do(http.MethodGet, "/api/logs", "bogus", "")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestUnknownPrincipalIsNotFound() {
	rec := s.do(http.MethodGet, "/api/logs", "token-ghost", "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestHealthzIsPublic() {
	rec := s.do(http.MethodGet, "/healthz", "", "")
	s.Equal(http.StatusOK, rec.Code)
}

// -----------------------------------------------------------------------------
// GET /api/logs
// -----------------------------------------------------------------------------

func (s *HandlerSuite) TestGetLogs() {
	s.seedLogs(5)

	rec := s.do(http.MethodGet, "/api/logs?log_levels=error", "token-u1", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Data       []domain.LogRecord `json:"data"`
		Total      int                `json:"total"`
		TotalLogs  int                `json:"total_logs"`
		TotalPages int                `json:"total_pages"`
		Assigned   []appRef           `json:"assigned_applications"`
	}
	testutil.DecodeJSON(s.T(), rec, &resp)

	s.Len(resp.Data, 2, "page size comes from the principal preference")
	s.Equal(2, resp.Total)
	s.Equal(5, resp.TotalLogs)
	s.Equal(3, resp.TotalPages)
	s.Equal("log-004", resp.Data[0].ID, "newest first")
	s.Require().Len(resp.Assigned, 1)
	s.Equal("billing", resp.Assigned[0].Name)
}

func (s *HandlerSuite) TestGetLogsRejectsBadTimestamp() {
	rec := s.do(http.MethodGet, "/api/logs?start_time=yesterday", "token-u1", "")
	s.Equal(http.StatusBadRequest, rec.Code)

	var resp map[string]string
	testutil.DecodeJSON(s.T(), rec, &resp)
	s.Equal("invalid_input", resp["error"])
}

func (s *HandlerSuite) TestGetLogsRejectsBadPage() {
	rec := s.do(http.MethodGet, "/api/logs?page=zero", "token-u1", "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

// -----------------------------------------------------------------------------
// GET /api/logs/export
// -----------------------------------------------------------------------------

func (s *HandlerSuite) TestExportSmallSetIsDownloaded() {
	s.seedLogs(2)

	rec := s.do(http.MethodGet, "/api/logs/export?is_csv=true", "token-u1", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("text/csv", rec.Header().Get("Content-Type"))
	s.Equal(`attachment; filename="logs.csv"`, rec.Header().Get("Content-Disposition"))
	s.Contains(rec.Body.String(), "log-001")
}

func (s *HandlerSuite) TestExportLargeSetIsAcknowledged() {
	s.seedLogs(4)

	rec := s.do(http.MethodGet, "/api/logs/export", "token-u1", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp map[string]bool
	testutil.DecodeJSON(s.T(), rec, &resp)
	s.True(resp["emailSent"])
	s.Len(s.jobs, 1)
}

// -----------------------------------------------------------------------------
// GET /api/logs/activity
// -----------------------------------------------------------------------------

func (s *HandlerSuite) TestActivityGridIsAlwaysDense() {
	rec := s.do(http.MethodGet, "/api/logs/activity", "token-u1", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Data   []activity.Point `json:"data"`
		Groups []string         `json:"groups"`
		Series []string         `json:"series"`
	}
	testutil.DecodeJSON(s.T(), rec, &resp)

	s.Len(resp.Groups, 24)
	s.Equal(domain.DefaultLevels, resp.Series)
	s.Len(resp.Data, 24*len(domain.DefaultLevels))
}

// -----------------------------------------------------------------------------
// GET /api/logs/userdata
// -----------------------------------------------------------------------------

func (s *HandlerSuite) TestUserdata() {
	rec := s.do(http.MethodGet, "/api/logs/userdata", "token-u1", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Assigned []appRef `json:"assigned_applications"`
		LogTTL   int      `json:"logTTL"`
	}
	testutil.DecodeJSON(s.T(), rec, &resp)

	s.Require().Len(resp.Assigned, 1)
	s.Equal("app-1", resp.Assigned[0].ID)
	s.Equal(retention.DefaultRetentionDays*retention.SecondsPerDay, resp.LogTTL)
}

// -----------------------------------------------------------------------------
// GET /api/dashboard/atrisk
// -----------------------------------------------------------------------------

func (s *HandlerSuite) TestAtRiskIsEmptyArrayWithoutFindings() {
	rec := s.do(http.MethodGet, "/api/dashboard/atrisk", "token-u1", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		AtRisk []risk.AppRisk `json:"at_risk_applications"`
	}
	testutil.DecodeJSON(s.T(), rec, &resp)
	s.NotNil(resp.AtRisk)
	s.Empty(resp.AtRisk)
	s.Contains(rec.Body.String(), `"at_risk_applications":[]`)
}

// -----------------------------------------------------------------------------
// /api/data-retention
// -----------------------------------------------------------------------------

func (s *HandlerSuite) TestRetentionRoundTrip() {
	rec := s.do(http.MethodGet, "/api/data-retention", "token-u1", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var policy domain.RetentionPolicy
	testutil.DecodeJSON(s.T(), rec, &policy)
	s.Equal(retention.DefaultRetentionDays, policy.RetentionDays)

	rec = s.do(http.MethodPatch, "/api/data-retention", "token-u1",
		`{"retentionDays": 90, "updatedBy": "ops@example.com"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	testutil.DecodeJSON(s.T(), rec, &policy)
	s.Equal(90, policy.RetentionDays)
	s.Equal("ops@example.com", policy.UpdatedBy)
}

func (s *HandlerSuite) TestRetentionUpdateValidation() {
	rec := s.do(http.MethodPatch, "/api/data-retention", "token-u1",
		`{"retentionDays": 400, "updatedBy": "ops@example.com"}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPatch, "/api/data-retention", "token-u1", `not json`)
	s.Equal(http.StatusBadRequest, rec.Code)
}
