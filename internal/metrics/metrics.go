// Package metrics defines the Prometheus metrics of the hotel console. It is the
// single source of truth for metric names, labels and help strings.
//
// All metrics register with the default registry on import; the web console
// exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hms"

// ── Upstream API calls ────────────────────────────────────────────────────────

// APIRequestsTotal counts calls made against the hotel API.
// Labels:
//   - resource: first path segment ("rooms", "guests", "users", "login", "register")
//   - method:   HTTP method
//   - outcome:  "ok", "http_error" or "transport_error"
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of requests sent to the hotel API, by outcome.",
	},
	[]string{"resource", "method", "outcome"},
)

// APIRequestDuration measures the round trip of a single API call, body decode
// included.
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Round-trip duration of hotel API requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"resource", "method"},
)

// ── Session ───────────────────────────────────────────────────────────────────

// AuthEventsTotal counts auth transitions.
// Label:
//   - event: "login", "login_failed", "logout", "register", "register_failed"
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of login, logout and register attempts, by result.",
	},
	[]string{"event"},
)

// ── View layer ────────────────────────────────────────────────────────────────

// ListRefreshDiscardedTotal counts list results thrown away because a newer
// refresh of the same collection was issued while they were in flight.
var ListRefreshDiscardedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "list_refresh_discarded_total",
		Help:      "Total number of superseded list refreshes whose result was discarded.",
	},
	[]string{"resource"},
)

// ValidationRejectsTotal counts requests rejected client-side before any call.
// Label:
//   - reason: e.g. "duplicate_room_number", "password_mismatch", "invalid_form"
var ValidationRejectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_rejects_total",
		Help:      "Total number of operations rejected by a client-side check.",
	},
	[]string{"reason"},
)

// ConsoleWorkspaces tracks browser workspaces held by the web console.
var ConsoleWorkspaces = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "console_workspaces",
		Help:      "Current number of browser workspaces held in memory.",
	},
)
