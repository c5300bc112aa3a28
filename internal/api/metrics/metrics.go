// Package metrics defines the custom Prometheus metrics of the marketplace
// API. HTTP request metrics come from the echoprometheus middleware; the
// collectors here cover domain outcomes.
//
// All collectors register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Identity metrics ─────────────────────────────────────────────────────────

// AccountsRegisteredTotal counts successful account registrations.
// Label:
//   - role: the role actually assigned (e.g. "client", "pending_admin")
var AccountsRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_registered_total",
		Help:      "Total number of accounts registered, by assigned role.",
	},
	[]string{"role"},
)

// ExecutorsRegisteredTotal counts executor profiles. Categories are free text,
// so they are not used as a label.
var ExecutorsRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "executors_registered_total",
		Help:      "Total number of executor profiles registered.",
	},
)

// AdminApprovalsTotal counts pending administrators promoted to admin.
var AdminApprovalsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_approvals_total",
		Help:      "Total number of pending administrators approved.",
	},
)

// ── Session metrics ──────────────────────────────────────────────────────────

// CodesIssuedTotal counts one-time code issuance attempts.
// Label:
//   - result: "sent" or "failed"
var CodesIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "codes_issued_total",
		Help:      "Total number of one-time codes issued, by delivery result.",
	},
	[]string{"result"},
)

// LoginsTotal counts authentication attempts.
// Label:
//   - result: "success", "invalid_code", "unknown_account" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Request metrics ──────────────────────────────────────────────────────────

// RequestsSubmittedTotal counts submitted requests.
// Label:
//   - result: "matched" or "no_executors"
var RequestsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_submitted_total",
		Help:      "Total number of requests submitted, by matching result.",
	},
	[]string{"result"},
)

// MatchedExecutors observes how many executors each accepted request matched.
var MatchedExecutors = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_matched_executors",
		Help:      "Number of executors matched per accepted request.",
		Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
	},
)
