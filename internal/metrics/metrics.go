// Package metrics exposes Prometheus instruments for API operations.
package metrics

import (
	"strings"
	"time"

	"github.com/Baaaki/restaurant-directory/internal/apperr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Operations counts resolver calls by operation and outcome.
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "restaurant_directory_operations_total",
		Help: "Total number of API operations by outcome",
	}, []string{"operation", "outcome"})

	// OperationDuration records resolver latency.
	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "restaurant_directory_operation_duration_seconds",
		Help:    "API operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// CacheLookups counts restaurant cache reads by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "restaurant_directory_cache_lookups_total",
		Help: "Restaurant cache lookups by result",
	}, []string{"result"})

	// FeedConnections is the number of open restaurant feed websockets.
	FeedConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "restaurant_directory_feed_connections",
		Help: "Number of active restaurant feed WebSocket connections",
	})
)

// Outcome is "ok" for nil, otherwise the lower-cased error kind.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return strings.ToLower(apperr.KindOf(err).Code())
}

// Observe records one finished operation.
func Observe(operation string, start time.Time, err error) {
	Operations.WithLabelValues(operation, Outcome(err)).Inc()
	OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
