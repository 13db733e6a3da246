package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	LogQueries             prometheus.Counter
	ActivityQueries        prometheus.Counter
	ExportsSync            prometheus.Counter
	ExportsAsync           prometheus.Counter
	ExportDeliveries       prometheus.Counter
	ExportDeliveryFailures prometheus.Counter
	RiskEvaluations        prometheus.Counter
	AtRiskApplications     prometheus.Gauge
	RetentionDeleted       prometheus.Counter
	RequestDuration        *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		LogQueries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loglens_log_queries_total",
			Help: "Total number of paginated log queries served",
		}),
		ActivityQueries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loglens_activity_queries_total",
			Help: "Total number of activity grid queries served",
		}),
		ExportsSync: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loglens_exports_sync_total",
			Help: "Total number of exports delivered on the request path",
		}),
		ExportsAsync: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loglens_exports_async_total",
			Help: "Total number of exports handed to the delivery worker",
		}),
		ExportDeliveries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loglens_export_deliveries_total",
			Help: "Total number of out-of-band export deliveries sent",
		}),
		ExportDeliveryFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loglens_export_delivery_failures_total",
			Help: "Total number of out-of-band export deliveries that failed or were dropped",
		}),
		RiskEvaluations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loglens_risk_evaluations_total",
			Help: "Total number of at-risk rule evaluation passes",
		}),
		AtRiskApplications: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "loglens_at_risk_applications",
			Help: "Applications flagged at risk by the latest evaluation pass",
		}),
		RetentionDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loglens_retention_deleted_total",
			Help: "Total log records removed by retention sweeps",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "loglens_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}
