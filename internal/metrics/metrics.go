package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hris_analytics_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hris_analytics_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ReportRuns counts report computations by report and outcome
	// (success, error).
	ReportRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hris_analytics_report_runs_total",
			Help: "Total number of report computations",
		},
		[]string{"report", "outcome"},
	)
	ReportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hris_analytics_report_duration_seconds",
			Help:    "Report computation time in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"report"},
	)
	// CacheLookups counts report cache lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hris_analytics_report_cache_lookups_total",
			Help: "Report cache lookups",
		},
		[]string{"result"},
	)
	// DashboardMetricsUnavailable counts dashboard metrics that failed.
	DashboardMetricsUnavailable = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hris_analytics_dashboard_metric_unavailable_total",
			Help: "Dashboard metrics reported as unavailable",
		},
		[]string{"metric"},
	)

	SnapshotRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hris_analytics_snapshot_refreshes_total",
			Help: "Snapshot refresh attempts by outcome",
		},
		[]string{"outcome"},
	)
	// SnapshotRows is the number of records per entity in the current snapshot.
	SnapshotRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hris_analytics_snapshot_rows",
			Help: "Records per entity in the current snapshot",
		},
		[]string{"entity"},
	)
	SnapshotLoadedAt = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hris_analytics_snapshot_loaded_timestamp_seconds",
			Help: "Unix time the current snapshot was loaded",
		},
	)

	// EventsConsumed counts kafka events by topic and outcome: success,
	// invalid, rejected, retry or dropped.
	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hris_analytics_events_consumed_total",
			Help: "Kafka events consumed",
		},
		[]string{"topic", "outcome"},
	)
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hris_analytics_events_published_total",
			Help: "Kafka events published",
		},
		[]string{"topic", "outcome"},
	)
)
