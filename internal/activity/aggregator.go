// Package activity produces the dense hour×level grid behind the log
// activity chart.
package activity

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"loglens/internal/domain"
	"loglens/internal/logs"
	dErrors "loglens/pkg/domainerrors"
)

// hoursPerDay is the fixed bucket count: aggregation is by hour-of-day, not
// calendar timestamp, so the chart shows the daily pattern regardless of the
// window queried.
const hoursPerDay = 24

// QueryBuilder is the slice of the log query engine the aggregator needs:
// scope-checked query construction.
type QueryBuilder interface {
	BuildQuery(ctx context.Context, principalID string, f logs.Filters) (logs.Query, bool, error)
}

// Counter is the sparse aggregation the store provides.
type Counter interface {
	CountByHourLevel(ctx context.Context, q logs.Query) (map[logs.HourLevel]int, error)
}

// Point is one cell of the chart grid.
type Point struct {
	Bucket string `json:"groupId"`
	Series string `json:"seriesId"`
	Value  int    `json:"value"`
}

// Grid is a fully densified chart payload: every bucket×series combination
// is present, absent ones with an explicit zero.
type Grid struct {
	Buckets []string `json:"groups"`
	Series  []string `json:"series"`
	Data    []Point  `json:"data"`
}

// Aggregator assembles activity grids.
type Aggregator struct {
	queries QueryBuilder
	counts  Counter
	logger  *slog.Logger
}

type Option func(*Aggregator)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

func New(queries QueryBuilder, counts Counter, opts ...Option) (*Aggregator, error) {
	if queries == nil {
		return nil, fmt.Errorf("query builder is required")
	}
	if counts == nil {
		return nil, fmt.Errorf("counter is required")
	}

	a := &Aggregator{
		queries: queries,
		counts:  counts,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Activity returns the dense grid for the principal's filtered logs. A
// filter that matches nothing still yields the full zero-filled grid with
// the default level legend, so the chart never renders gapped or empty.
func (a *Aggregator) Activity(ctx context.Context, principal domain.Principal, f logs.Filters) (*Grid, error) {
	q, ok, err := a.queries.BuildQuery(ctx, principal.ID, f)
	if err != nil {
		return nil, err
	}

	sparse := map[logs.HourLevel]int{}
	if ok {
		sparse, err = a.counts.CountByHourLevel(ctx, q)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to aggregate log activity")
		}
	}

	return densify(sparse), nil
}

// densify expands sparse (hour, level) counts into the full cross product.
// Omitting this step would leave holes wherever an hour or level saw no
// traffic, which charts render as misleading gaps.
func densify(sparse map[logs.HourLevel]int) *Grid {
	series := observedSeries(sparse)
	buckets := hourBuckets()

	data := make([]Point, 0, len(buckets)*len(series))
	for hour, bucket := range buckets {
		for _, level := range series {
			data = append(data, Point{
				Bucket: bucket,
				Series: level,
				Value:  sparse[logs.HourLevel{Hour: hour, Level: level}],
			})
		}
	}

	return &Grid{Buckets: buckets, Series: series, Data: data}
}

func observedSeries(sparse map[logs.HourLevel]int) []string {
	if len(sparse) == 0 {
		// Fixed fallback keeps the chart legend present for empty results.
		return append([]string(nil), domain.DefaultLevels...)
	}

	seen := make(map[string]struct{})
	var series []string
	for key := range sparse {
		if _, ok := seen[key.Level]; !ok {
			seen[key.Level] = struct{}{}
			series = append(series, key.Level)
		}
	}
	sort.Strings(series)
	return series
}

func hourBuckets() []string {
	buckets := make([]string, hoursPerDay)
	for h := range buckets {
		buckets[h] = fmt.Sprintf("%02d:00", h)
	}
	return buckets
}
