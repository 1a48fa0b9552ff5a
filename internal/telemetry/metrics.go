// Package telemetry registers the Prometheus metrics exposed on /metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal is labelled by method, gin route template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// JoinRequestTransitions counts committed join request transitions by target status.
	JoinRequestTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collabhub_join_request_transitions_total",
			Help: "Committed join request transitions, by resulting status.",
		},
		[]string{"status"},
	)

	// NotificationsFailed counts notifications that could not be stored.
	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collabhub_notifications_failed_total",
			Help: "Notifications dropped because the insert failed, by type.",
		},
		[]string{"type"},
	)
)
