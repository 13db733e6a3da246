package export

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"loglens/internal/domain"
	"loglens/internal/logs"
	dErrors "loglens/pkg/domainerrors"
)

type staticQueries struct {
	query logs.Query
	ok    bool
	err   error
}

func (s *staticQueries) BuildQuery(context.Context, string, logs.Filters) (logs.Query, bool, error) {
	return s.query, s.ok, s.err
}

// =============================================================================
// Export Coordinator Test Suite
// =============================================================================

type CoordinatorSuite struct {
	suite.Suite
	queries *staticQueries
	store   *logs.InMemoryLogStore
	jobs    chan Job
	coord   *Coordinator

	principal domain.Principal
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.queries = &staticQueries{query: logs.Query{AppIDs: []string{"app-1"}}, ok: true}
	s.store = logs.NewInMemoryLogStore()
	s.jobs = make(chan Job, 4)

	var err error
	s.coord, err = NewCoordinator(s.queries, s.store, s.jobs, WithThreshold(5))
	s.Require().NoError(err)

	s.principal = domain.Principal{ID: "u1", Email: "u1@example.com"}
}

func (s *CoordinatorSuite) seed(n int) {
	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		s.store.Add(domain.LogRecord{
			ID:            fmt.Sprintf("log-%03d", i),
			ApplicationID: "app-1",
			Timestamp:     base.Add(time.Duration(i) * time.Second),
			Level:         "info",
		})
	}
}

func (s *CoordinatorSuite) TestCountAtThresholdStaysSynchronous() {
	s.seed(5)

	result, err := s.coord.Export(context.Background(), s.principal, logs.Filters{}, FormatJSON)
	s.Require().NoError(err)

	s.False(result.Async)
	s.Require().NotNil(result.Payload)
	s.Equal("logs.json", result.Payload.Filename)
	s.Empty(s.jobs)
}

func (s *CoordinatorSuite) TestCountAboveThresholdGoesAsync() {
	s.seed(6)

	result, err := s.coord.Export(context.Background(), s.principal, logs.Filters{}, FormatCSV)
	s.Require().NoError(err)

	s.True(result.Async)
	s.Nil(result.Payload)

	s.Require().Len(s.jobs, 1)
	job := <-s.jobs
	s.Equal("u1@example.com", job.Recipient)
	s.Equal(FormatCSV, job.Format)
	s.Equal([]string{"app-1"}, job.Query.AppIDs)
}

func (s *CoordinatorSuite) TestOutOfScopeYieldsEmptyDocument() {
	s.queries.ok = false

	result, err := s.coord.Export(context.Background(), s.principal, logs.Filters{}, FormatCSV)
	s.Require().NoError(err)
	s.False(result.Async)
	s.Equal("id,applicationId,timestamp,level,traceId,message\n", string(result.Payload.Data))
}

func (s *CoordinatorSuite) TestFullQueueDropsJobWithoutBlocking() {
	jobs := make(chan Job) // unbuffered and never drained
	coord, err := NewCoordinator(s.queries, s.store, jobs, WithThreshold(5))
	s.Require().NoError(err)
	s.seed(6)

	done := make(chan struct{})
	go func() {
		defer close(done)
		result, err := coord.Export(context.Background(), s.principal, logs.Filters{}, FormatJSON)
		s.NoError(err)
		s.True(result.Async)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		s.Fail("export blocked on a full delivery queue")
	}
}

func (s *CoordinatorSuite) TestPropagatesScopeErrors() {
	s.queries.err = dErrors.New(dErrors.CodeNotAuthorized, "not a member of any active group")

	_, err := s.coord.Export(context.Background(), s.principal, logs.Filters{}, FormatJSON)
	s.Equal(dErrors.CodeNotAuthorized, dErrors.CodeOf(err))
}
