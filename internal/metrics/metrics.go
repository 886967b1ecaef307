package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catenary_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catenary_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	MessagesPosted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catenary_messages_posted_total",
			Help: "Total messages appended to the plane",
		},
	)

	MessagesExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catenary_messages_expired_total",
			Help: "Total messages dropped for exceeding the max age",
		},
	)

	MessagesTruncated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catenary_messages_truncated_total",
			Help: "Total messages truncated to the max length",
		},
	)

	VotesCast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catenary_votes_cast_total",
			Help: "Total vote requests applied",
		},
		[]string{"direction"}, // "up" or "down"
	)

	// Plane lock metrics
	PlaneLockContention = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catenary_plane_lock_contention_total",
			Help: "Reads or votes degraded because the plane lock was held",
		},
		[]string{"op"}, // "list" or "vote"
	)
)
