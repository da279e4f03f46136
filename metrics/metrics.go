package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "milestones_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "milestones_store_operation_duration_seconds",
			Help:    "MongoDB operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation", "collection", "outcome"},
	)

	MilestonesByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "milestones_by_status",
			Help: "Number of milestones per derived status at the last status report",
		},
		[]string{"status"},
	)

	ProjectsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "projects_by_status",
			Help: "Number of projects per derived status at the last status report",
		},
		[]string{"status"},
	)

	CascadeDeletedMilestones = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "milestones_cascade_deleted_total",
			Help: "Milestones removed because their project was deleted",
		},
	)
)

func RecordStoreOperation(operation, collection string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	StoreOperationDuration.WithLabelValues(operation, collection, outcome).Observe(time.Since(start).Seconds())
}

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, statusLabel(status)).Observe(duration.Seconds())
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
