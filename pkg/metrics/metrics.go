package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Buckets for request times from a few milliseconds up to the 30s backend timeout
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34}

	// HTTP Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_rate_limited_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"limiter"},
	)

	// Clinic backend client metrics
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_client_request_duration_seconds",
			Help:    "Clinic backend request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "operation", "outcome"},
	)

	BackendRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_client_request_total",
			Help: "Total number of clinic backend requests",
		},
		[]string{"http_request_method", "operation", "outcome"},
	)

	BackendRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_client_request_retries_total",
			Help: "Clinic backend calls repeated after a transient failure",
		},
		[]string{"operation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"breaker"},
	)

	// Console metrics
	SessionInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_console_session_invalidations_total",
			Help: "Total number of sessions cleared, by reason",
		},
		[]string{"reason"},
	)

	ListFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_console_list_fetches_total",
			Help: "Total number of list fetches issued, by resource and outcome",
		},
		[]string{"resource", "outcome"},
	)

	StaleFetchesDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_console_stale_fetches_total",
			Help: "List responses dropped because a newer query was issued",
		},
		[]string{"resource"},
	)

	BulkActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_console_bulk_actions_total",
			Help: "Total number of bulk actions, by resource, action and outcome",
		},
		[]string{"resource", "action", "outcome"},
	)

	BulkItems = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clinic_console_bulk_action_items",
			Help:    "Number of records touched per bulk action",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"resource", "action"},
	)

	NotificationPolls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_console_notification_polls_total",
			Help: "Total number of notification polls, by outcome",
		},
		[]string{"outcome"},
	)

	ActiveWorkspaces = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clinic_console_active_workspaces",
			Help: "Number of operator workspaces held in memory",
		},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_console_login_attempts_total",
			Help: "Total number of admin login attempts",
		},
		[]string{"status"},
	)

	// Infrastructure Metrics
	GoRoutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// RecordInfrastructureMetrics collects infrastructure metrics periodically
// until stop is closed.
func RecordInfrastructureMetrics(stop <-chan struct{}) {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				var m runtime.MemStats
				runtime.ReadMemStats(&m)

				GoRoutines.Set(float64(runtime.NumGoroutine()))
				HeapAlloc.Set(float64(m.HeapAlloc))
			}
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}

// Outcome maps an error to the "success"/"error" label used across counters.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
