// Package metrics holds the prometheus collectors shared by the engine, the
// notification pipeline and the HTTP layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ymate"

var (
	// Transitions counts committed state changes by domain, entity and target state.
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lifecycle_transitions_total",
		Help:      "Committed post and application state transitions.",
	}, []string{"domain", "entity", "state"})

	SweptPosts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_finalized_posts_total",
		Help:      "Expired posts finalized by the read-triggered sweep.",
	}, []string{"domain"})

	// Notifications counts notification outcomes; stage is enqueue or deliver.
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Notification enqueue and delivery outcomes.",
	}, []string{"stage", "result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Transition records one committed transition. Callers invoke it after commit.
func Transition(domain, entity, state string) {
	Transitions.WithLabelValues(domain, entity, state).Inc()
}
