package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts remote API calls by operation and status class.
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codego_api_requests_total",
		Help: "Total number of remote API requests by operation and status",
	}, []string{"operation", "status"})

	// APIRequestLatency records remote API latency by operation.
	APIRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codego_api_request_latency_seconds",
		Help:    "Remote API request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// VoteOutcomes counts optimistic vote attempts by outcome.
	VoteOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codego_vote_outcomes_total",
		Help: "Optimistic poll votes by outcome",
	}, []string{"outcome"})

	// StorageErrors counts failed identity-store operations by backend and command.
	StorageErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codego_storage_errors_total",
		Help: "Failed durable session operations by backend and command",
	}, []string{"backend", "command"})

	// NotificationsTotal counts user-visible notifications by variant.
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codego_notifications_total",
		Help: "User-visible notifications emitted by variant",
	}, []string{"variant"})
)

// Vote outcome labels.
const (
	VoteSettled    = "settled"
	VoteRolledBack = "rolled_back"
	VoteIgnored    = "ignored"
	VoteRejected   = "rejected"
)

// TrackRequest returns a function that records latency and the final status when called.
func TrackRequest(operation string) func(status int) {
	start := time.Now()
	return func(status int) {
		APIRequestLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		APIRequestsTotal.WithLabelValues(operation, statusLabel(status)).Inc()
	}
}

func statusLabel(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status)
}
