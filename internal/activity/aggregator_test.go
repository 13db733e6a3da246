package activity

import (
	"context"
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
// Activity Aggregator Test Suite
// =============================================================================

type AggregatorSuite struct {
	suite.Suite
	queries *staticQueries
	store   *logs.InMemoryLogStore
	agg     *Aggregator
}

func TestAggregatorSuite(t *testing.T) {
	suite.Run(t, new(AggregatorSuite))
}

func (s *AggregatorSuite) SetupTest() {
	s.queries = &staticQueries{query: logs.Query{AppIDs: []string{"app-1"}}, ok: true}
	s.store = logs.NewInMemoryLogStore()
	var err error
	s.agg, err = New(s.queries, s.store)
	s.Require().NoError(err)
}

func (s *AggregatorSuite) principal() domain.Principal {
	return domain.Principal{ID: "u1"}
}

func (s *AggregatorSuite) TestEmptyResultYieldsFullZeroGrid() {
	grid, err := s.agg.Activity(context.Background(), s.principal(), logs.Filters{})
	s.Require().NoError(err)

	s.Len(grid.Buckets, 24)
	s.Equal("00:00", grid.Buckets[0])
	s.Equal("23:00", grid.Buckets[23])
	s.Equal(domain.DefaultLevels, grid.Series)

	s.Require().Len(grid.Data, 24*len(domain.DefaultLevels))
	for _, p := range grid.Data {
		s.Zero(p.Value)
	}
}

func (s *AggregatorSuite) TestOutOfScopeStillYieldsGrid() {
	// Nothing visible to query, but the chart payload stays fully shaped.
	s.queries.ok = false

	grid, err := s.agg.Activity(context.Background(), s.principal(), logs.Filters{})
	s.Require().NoError(err)
	s.Len(grid.Buckets, 24)
	s.Equal(domain.DefaultLevels, grid.Series)
}

func (s *AggregatorSuite) TestCountsBucketByHourOfDay() {
	// Two different days, same clock hour: both land in the 09:00 bucket.
	s.store.Add(
		domain.LogRecord{ID: "1", ApplicationID: "app-1", Level: "error", Timestamp: time.Date(2026, 2, 1, 9, 15, 0, 0, time.UTC)},
		domain.LogRecord{ID: "2", ApplicationID: "app-1", Level: "error", Timestamp: time.Date(2026, 2, 2, 9, 45, 0, 0, time.UTC)},
		domain.LogRecord{ID: "3", ApplicationID: "app-1", Level: "warn", Timestamp: time.Date(2026, 2, 1, 17, 0, 0, 0, time.UTC)},
	)

	grid, err := s.agg.Activity(context.Background(), s.principal(), logs.Filters{})
	s.Require().NoError(err)

	// Observed levels only, sorted.
	s.Equal([]string{"error", "warn"}, grid.Series)
	s.Len(grid.Data, 24*2)

	values := map[[2]string]int{}
	for _, p := range grid.Data {
		values[[2]string{p.Bucket, p.Series}] = p.Value
	}
	s.Equal(2, values[[2]string{"09:00", "error"}])
	s.Equal(1, values[[2]string{"17:00", "warn"}])
	s.Zero(values[[2]string{"09:00", "warn"}])
	s.Zero(values[[2]string{"17:00", "error"}])
}

func (s *AggregatorSuite) TestPropagatesQueryErrors() {
	s.queries.err = dErrors.New(dErrors.CodeNotAuthorized, "not a member of any active group")

	_, err := s.agg.Activity(context.Background(), s.principal(), logs.Filters{})
	s.Equal(dErrors.CodeNotAuthorized, dErrors.CodeOf(err))
}
