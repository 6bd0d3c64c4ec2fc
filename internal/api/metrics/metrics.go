// Package metrics defines the custom Prometheus metrics for the FleetFlow
// API. It is the single source of truth for metric names, labels, and help
// strings; promauto registers everything with the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fleetflow"

// ── Pipeline metrics ──────────────────────────────────────────────────────────

// RateLimitedTotal counts requests rejected with 429.
// Label:
//   - tier: "default" or "auth"
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
	[]string{"tier"},
)

// RateLimitStoreFailures counts counter-store errors that triggered the
// fail-open path.
var RateLimitStoreFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_store_failures_total",
		Help:      "Total number of counter store failures handled by failing open.",
	},
)

// AuthFailuresTotal counts rejected credentials.
// Label:
//   - reason: "missing", "malformed", "invalid_token", "forbidden"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of authentication/authorization rejections.",
	},
	[]string{"reason"},
)

// SessionStoreFailures counts session backend errors handled by degrading
// to an empty session.
// Label:
//   - op: "get", "set", "destroy"
var SessionStoreFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_store_failures_total",
		Help:      "Total number of session store failures handled fail-soft.",
	},
	[]string{"op"},
)

// ── Domain metrics ────────────────────────────────────────────────────────────

// TripTransitionsTotal counts applied trip state transitions.
// Label:
//   - action: "dispatch", "complete", "cancel"
var TripTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trip_transitions_total",
		Help:      "Total number of successful trip state transitions.",
	},
	[]string{"action"},
)

// MaintenanceTotal counts maintenance log activity.
// Label:
//   - op: "opened" or "completed"
var MaintenanceTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "maintenance_total",
		Help:      "Total number of maintenance logs opened and completed.",
	},
	[]string{"op"},
)

// EventsRecordedTotal counts audit trail entries persisted by the
// dispatcher workers.
var EventsRecordedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_recorded_total",
		Help:      "Total number of fleet events written to the audit trail.",
	},
)
