// Package metrics defines and registers the Prometheus metrics for the
// reelnotes client core and its development backend. It is the single source
// of truth for metric names, labels, and help strings.
//
// Metrics are registered with the default registry at package init via
// promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "reelnotes"

// Result label values.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultDenied   = "denied"
)

// ── Client metrics ────────────────────────────────────────────────────────────

// MutationsTotal counts entity cache mutations.
// Labels:
//   - operation: e.g. "create_movie", "update_review", "delete_review"
//   - result: "ok", "rejected" (server or transport failure), "denied" (gated locally)
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "mutations_total",
		Help:      "Total number of entity cache mutations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// RollbacksTotal counts optimistic mutations that were undone after rejection.
var RollbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "rollbacks_total",
		Help:      "Total number of optimistic mutations rolled back after server rejection.",
	},
	[]string{"operation"},
)

// SessionTransitionsTotal counts session manager state transitions.
// Label:
//   - event: "boot", "boot_discarded", "login", "login_failed", "register", "logout"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions, by event.",
	},
	[]string{"event"},
)

// RequestDuration measures transport round trips.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Duration of API requests issued by the client transport.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "status"},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts token issuance attempts on the development backend.
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ReviewsCreatedTotal counts reviews accepted by the development backend.
var ReviewsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "reviews_created_total",
		Help:      "Total number of reviews created.",
	},
)
