package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "food_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "food_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Submissions counts accepted proposals by outcome: "published" or "pending".
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "food_submissions_total",
			Help: "Dish proposals routed to publication or review",
		},
		[]string{"route"},
	)

	ModerationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "food_moderation_decisions_total",
			Help: "Moderation decisions applied to pending submissions",
		},
		[]string{"decision"},
	)

	// Interactions counts toggles by kind (like, save, unsave, comment) and
	// resulting state (on, off, added).
	Interactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "food_interactions_total",
			Help: "Social interactions applied to dishes",
		},
		[]string{"kind", "state"},
	)
)

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordSubmission(published bool) {
	route := "pending"
	if published {
		route = "published"
	}
	Submissions.WithLabelValues(route).Inc()
}

func RecordModeration(decision string) {
	ModerationDecisions.WithLabelValues(decision).Inc()
}

func RecordInteraction(kind string, on bool) {
	state := "off"
	if on {
		state = "on"
	}
	Interactions.WithLabelValues(kind, state).Inc()
}
