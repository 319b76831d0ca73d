// Package metrics defines the Prometheus metrics of the school portal. It is
// the single source of truth for metric names, labels and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto and exposed by the gateway at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "school_portal"

// ── Backend client ────────────────────────────────────────────────────────────

// BackendRequestsTotal counts requests sent to the school backend.
// Labels:
//   - resource: first path segment of the endpoint (e.g. "grades", "auth")
//   - method: HTTP method
//   - code: response status code, or "error" when no response was received
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests sent to the school backend.",
	},
	[]string{"resource", "method", "code"},
)

// BackendRequestDuration measures backend round trips.
// Label:
//   - resource: first path segment of the endpoint
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests to the school backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"resource"},
)

// ── Sessions ──────────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// GuardDecisionsTotal counts route guard outcomes.
// Label:
//   - decision: "allow", "pending" or "redirect"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions.",
	},
	[]string{"decision"},
)

// InFlightRejectedTotal counts requests refused because the same control
// already had one outstanding.
var InFlightRejectedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inflight_rejected_total",
		Help:      "Total number of requests rejected while a previous one was in progress.",
	},
)

// ── Batch dispatcher ──────────────────────────────────────────────────────────

// BatchQueueDepth tracks the items waiting in each dispatcher worker channel.
// Labels:
//   - queue: dispatcher name (e.g. "attendance", "grades")
//   - worker_id: numeric worker index
var BatchQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "batch_queue_depth",
		Help:      "Current number of items pending in each dispatcher worker channel.",
	},
	[]string{"queue", "worker_id"},
)

// BatchItemsTotal counts processed batch items.
// Labels:
//   - queue: dispatcher name
//   - result: "ok" or "error"
var BatchItemsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batch_items_total",
		Help:      "Total number of batch items processed, by result.",
	},
	[]string{"queue", "result"},
)

// ── Gateway ───────────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts requests served by the portal.
// Labels:
//   - method: HTTP method
//   - route: matched route pattern (e.g. "/professor/class/:classId")
//   - code: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of requests served by the portal.",
	},
	[]string{"method", "route", "code"},
)

// HTTPRequestDuration measures portal request latency.
// Label:
//   - route: matched route pattern
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of requests served by the portal.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route"},
)
