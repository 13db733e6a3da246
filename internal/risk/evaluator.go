// Package risk evaluates configured rules against recent log volume and
// flags applications at risk of failure.
package risk

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"loglens/internal/platform/metrics"
	dErrors "loglens/pkg/domainerrors"
)

// DefaultParallelism bounds how many rule aggregations run at once.
const DefaultParallelism = 4

// AppRisk is one flagged application with every rule message that fired.
// Applications with no triggered rules never appear.
type AppRisk struct {
	ApplicationID string   `json:"appId"`
	Name          string   `json:"name"`
	Messages      []string `json:"messages"`
}

// Evaluator runs every configured rule over every active application using
// one grouped count query per rule.
type Evaluator struct {
	rules       RuleStore
	apps        AppLister
	counts      WindowCounter
	alerts      *AlertPublisher
	logger      *slog.Logger
	metrics     *metrics.Metrics
	parallelism int
	now         func() time.Time
}

type EvaluatorOption func(*Evaluator)

func WithLogger(logger *slog.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) EvaluatorOption {
	return func(e *Evaluator) {
		e.metrics = m
	}
}

// WithAlerts publishes flagged applications to the alert topic after each
// pass.
func WithAlerts(p *AlertPublisher) EvaluatorOption {
	return func(e *Evaluator) {
		e.alerts = p
	}
}

// WithParallelism bounds concurrent rule aggregations.
func WithParallelism(n int) EvaluatorOption {
	return func(e *Evaluator) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

// WithClock fixes the evaluation clock; tests use it to pin lookback
// windows.
func WithClock(now func() time.Time) EvaluatorOption {
	return func(e *Evaluator) {
		e.now = now
	}
}

func NewEvaluator(rules RuleStore, apps AppLister, counts WindowCounter, opts ...EvaluatorOption) (*Evaluator, error) {
	if rules == nil {
		return nil, fmt.Errorf("rule store is required")
	}
	if apps == nil {
		return nil, fmt.Errorf("application lister is required")
	}
	if counts == nil {
		return nil, fmt.Errorf("window counter is required")
	}

	e := &Evaluator{
		rules:       rules,
		apps:        apps,
		counts:      counts,
		logger:      slog.Default(),
		parallelism: DefaultParallelism,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ruleOutcome is one rule's grouped counts, or the reason it was skipped.
type ruleOutcome struct {
	op      Operator
	counts  map[string]int
	skipped bool
}

// EvaluateAll runs every rule against every active application.
//
// Rules are isolated from each other: an unknown unit or a failed count
// query skips that rule with a warning and the rest still evaluate. Only
// failing to load the rules or the applications fails the pass. Rule
// aggregations run concurrently under a bounded group, and the output
// ordering (applications by store order, messages by rule order) stays
// deterministic regardless of scheduling.
func (e *Evaluator) EvaluateAll(ctx context.Context) ([]AppRisk, error) {
	rules, err := e.rules.ListRules(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load at-risk rules")
	}
	applications, err := e.apps.ListActive(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load active applications")
	}
	if len(rules) == 0 || len(applications) == 0 {
		return nil, nil
	}

	appIDs := make([]string, len(applications))
	for i, app := range applications {
		appIDs[i] = app.ID
	}

	now := e.now()
	outcomes := make([]ruleOutcome, len(rules))

	var g errgroup.Group
	g.SetLimit(e.parallelism)
	for i, rule := range rules {
		op, err := ParseOperator(rule.Operator)
		if err != nil {
			e.logger.WarnContext(ctx, "skipping rule with unknown operator", "rule_id", rule.ID, "operator", rule.Operator)
			outcomes[i] = ruleOutcome{skipped: true}
			continue
		}
		window, err := windowMinutes(rule.Time, rule.Unit)
		if err != nil {
			e.logger.WarnContext(ctx, "skipping rule with invalid window", "rule_id", rule.ID, "error", err)
			outcomes[i] = ruleOutcome{skipped: true}
			continue
		}

		i, rule := i, rule
		windowStart := now.Add(-window)
		g.Go(func() error {
			counts, err := e.counts.CountByAppSince(ctx, rule.LogType, windowStart, appIDs)
			if err != nil {
				// Per-rule isolation: report partial results rather than
				// aborting the whole pass.
				e.logger.WarnContext(ctx, "skipping rule after count failure", "rule_id", rule.ID, "error", err)
				outcomes[i] = ruleOutcome{skipped: true}
				return nil
			}
			outcomes[i] = ruleOutcome{op: op, counts: counts}
			return nil
		})
	}
	_ = g.Wait()

	var flagged []AppRisk
	for _, app := range applications {
		var messages []string
		for i, rule := range rules {
			outcome := outcomes[i]
			if outcome.skipped {
				continue
			}
			// Applications missing from a grouped result saw zero matching
			// records in the window; that still counts for less/equal rules.
			count := outcome.counts[app.ID]
			if outcome.op.Triggered(count, rule.Threshold) {
				messages = append(messages, outcome.op.Message(rule.LogType, rule.Time, rule.Unit, count, rule.Threshold))
			}
		}
		if len(messages) > 0 {
			flagged = append(flagged, AppRisk{ApplicationID: app.ID, Name: app.Name, Messages: messages})
		}
	}

	if e.metrics != nil {
		e.metrics.RiskEvaluations.Inc()
		e.metrics.AtRiskApplications.Set(float64(len(flagged)))
	}
	if e.alerts != nil {
		e.alerts.Publish(ctx, flagged)
	}

	return flagged, nil
}
