package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation", "table"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)

	// ResourceOperations counts create/update/delete/list calls per resource.
	// outcome is one of ok, invalid, not_found, error.
	ResourceOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resource_operations_total",
			Help: "Total number of resource operations by outcome",
		},
		[]string{"resource", "operation", "outcome"},
	)
)

// RecordDBQueryDuration observes one query against table.
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordHTTPRequestDuration observes one served request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementResourceOperation counts one resource operation.
func IncrementResourceOperation(resource, operation, outcome string) {
	ResourceOperations.WithLabelValues(resource, operation, outcome).Inc()
}
