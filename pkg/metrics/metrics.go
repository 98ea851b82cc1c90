// Package metrics provides Prometheus metrics for the NeoGarden API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks handled API requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neogarden",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of handled HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	// HTTPRequestDuration tracks request latency
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "neogarden",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// StoreOperationDuration tracks document store calls
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "neogarden",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of document store operations in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"backend", "collection", "operation", "status"},
	)

	// RecordsTotal tracks record lifecycle events by resource
	RecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neogarden",
			Subsystem: "records",
			Name:      "changes_total",
			Help:      "Total number of created and deleted records",
		},
		[]string{"resource", "change"},
	)

	// EventsPublished tracks domain events handed to the broker
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neogarden",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total number of domain events published",
		},
		[]string{"broker", "event_type", "status"},
	)

	// RateLimitRejections tracks requests refused by the rate limiter
	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neogarden",
			Subsystem: "ratelimit",
			Name:      "rejections_total",
			Help:      "Total number of requests rejected by the rate limiter",
		},
		[]string{"route"},
	)
)

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordHTTPRequest records a handled API request
func RecordHTTPRequest(method, route, statusCode string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordStoreOperation records one document store call started at start
func RecordStoreOperation(backend, collection, operation string, start time.Time, err error) {
	StoreOperationDuration.WithLabelValues(backend, collection, operation, statusLabel(err)).Observe(time.Since(start).Seconds())
}

func RecordCreated(resource string) {
	RecordsTotal.WithLabelValues(resource, "created").Inc()
}

func RecordDeleted(resource string) {
	RecordsTotal.WithLabelValues(resource, "deleted").Inc()
}

func RecordEventPublished(broker, eventType string, err error) {
	EventsPublished.WithLabelValues(broker, eventType, statusLabel(err)).Inc()
}

func RecordRateLimitRejection(route string) {
	RateLimitRejections.WithLabelValues(route).Inc()
}
