package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label value constants to prevent typos
const (
	// Table actions
	ActionSort   = "sort"
	ActionPage   = "page"
	ActionSelect = "select"
	ActionFilter = "filter"

	// Reload results
	ResultSuccess = "success"
	ResultFailure = "failure"

	// HTTP endpoints
	EndpointIndex     = "index"
	EndpointSort      = "sort"
	EndpointPage      = "page"
	EndpointSelect    = "select"
	EndpointFilter    = "filter"
	EndpointTable     = "api_table"
	EndpointHighlight = "api_highlight"
	EndpointHealth    = "health"

	// Database operations
	DBOpUpsertActivity = "upsert_activity"
	DBOpGetActivity    = "get_activity"
	DBOpDeleteActivity = "delete_activity"
	DBOpListActivities = "list_activities"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"endpoint", "status_code"},
	)
)

// Table Metrics
var (
	TableActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "table_actions_total",
			Help: "Total number of table actions by kind",
		},
		[]string{"action"},
	)

	SortClicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "table_sort_clicks_total",
			Help: "Total number of header clicks by column",
		},
		[]string{"column"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Number of live viewer sessions",
		},
	)

	SessionsEvictedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_evicted_total",
			Help: "Total number of idle sessions evicted",
		},
	)
)

// Library Metrics
var (
	LibraryActivities = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "library_activities",
			Help: "Number of activities in the loaded collection",
		},
	)

	LibraryReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_reloads_total",
			Help: "Total number of collection reloads by result",
		},
		[]string{"result"},
	)

	LibraryReloadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "library_reload_duration_seconds",
			Help:    "Time spent reloading the collection",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)
)

// Database Metrics
var (
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Database operation latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)

	DBOperationErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_operation_errors_total",
			Help: "Total number of database operation errors",
		},
		[]string{"operation"},
	)
)
