package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Custom histogram buckets optimized for API response times ranging from milliseconds to 30+ seconds
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

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

	// Database Client Metrics
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_client_operation_duration_seconds",
			Help:    "Database client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	DBOperationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_client_operation_total",
			Help: "Total number of database client operations",
		},
		[]string{"operation", "status"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Number of entries in cache",
		},
		[]string{"cache_name"},
	)

	// Business Metrics
	MatchQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentorlink_match_queries_total",
			Help: "Total number of matchmaking queries",
		},
		[]string{"subject_role", "status"},
	)

	MatchResultsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mentorlink_match_results_returned",
			Help:    "Number of results returned by matchmaking queries",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
		[]string{"subject_role"},
	)

	MentorshipRequestsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentorlink_mentorship_requests_created_total",
			Help: "Total mentorship request creation attempts",
		},
		[]string{"status"},
	)

	MentorshipRequestTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentorlink_mentorship_request_transitions_total",
			Help: "Total mentorship request status transitions",
		},
		[]string{"from_status", "to_status"},
	)

	MentorshipRequestsListDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mentorlink_mentorship_requests_list_duration_seconds",
			Help:    "Duration of incoming request list operations",
			Buckets: prometheus.DefBuckets,
		},
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
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
