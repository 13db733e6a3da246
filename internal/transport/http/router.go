// Package httptransport is the thin HTTP layer. It delegates to domain
// services without embedding business logic so transport concerns remain
// isolated.
package httptransport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"loglens/internal/activity"
	"loglens/internal/directory"
	"loglens/internal/domain"
	"loglens/internal/export"
	"loglens/internal/logs"
	"loglens/internal/platform/metrics"
	"loglens/internal/platform/middleware"
	"loglens/internal/retention"
	"loglens/internal/risk"
)

const requestTimeout = 30 * time.Second

// Handler wires domain services into routes.
type Handler struct {
	directory *directory.Service
	logsvc    *logs.Service
	activity  *activity.Aggregator
	exports   *export.Coordinator
	risk      *risk.Evaluator
	retention *retention.Manager
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewHandler(
	dir *directory.Service,
	logsvc *logs.Service,
	agg *activity.Aggregator,
	exports *export.Coordinator,
	evaluator *risk.Evaluator,
	ret *retention.Manager,
	logger *slog.Logger,
	m *metrics.Metrics,
) (*Handler, error) {
	if dir == nil || logsvc == nil || agg == nil || exports == nil || evaluator == nil || ret == nil {
		return nil, fmt.Errorf("all services are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		directory: dir,
		logsvc:    logsvc,
		activity:  agg,
		exports:   exports,
		risk:      evaluator,
		retention: ret,
		logger:    logger,
		metrics:   m,
	}, nil
}

// NewRouter assembles the public surface behind the shared middleware
// chain. /metrics and /healthz stay outside the auth boundary.
func NewRouter(h *Handler, validator middleware.TokenValidator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.Timeout(requestTimeout))
	if h.metrics != nil {
		r.Use(middleware.Latency(h.metrics))
	}

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, h.logger))

		r.Route("/api/logs", func(r chi.Router) {
			r.Get("/", h.handleGetLogs)
			r.Get("/export", h.handleExportLogs)
			r.Get("/activity", h.handleActivity)
			r.Get("/userdata", h.handleUserdata)
		})
		r.Get("/api/dashboard/atrisk", h.handleAtRisk)
		r.Route("/api/data-retention", func(r chi.Router) {
			r.Get("/", h.handleGetRetention)
			r.Patch("/", h.handleUpdateRetention)
		})
	})

	return r
}

// principal resolves the authenticated caller's directory record.
func (h *Handler) principal(ctx context.Context) (*domain.Principal, error) {
	return h.directory.Principal(ctx, middleware.GetPrincipalID(ctx))
}
