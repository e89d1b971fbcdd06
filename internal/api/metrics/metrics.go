// Package metrics defines and registers all custom Prometheus metrics for
// the check-in API. It is the single source of truth for metric names,
// labels, and help strings; metrics register with the default registry at
// package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "checkin"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - outcome: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// RegistrationsTotal counts successfully created self-service accounts.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created through registration.",
	},
)

// TokensIssuedTotal counts session tokens issued at registration and login.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of session tokens issued.",
	},
)

// AuthzDecisionsTotal counts authorization policy outcomes.
// Labels:
//   - level: "anonymous", "user", or "admin"
//   - strategy: "token", "allow_list", or "none"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization decisions, by level and winning strategy.",
	},
	[]string{"level", "strategy"},
)

// ── Report metrics ────────────────────────────────────────────────────────────

// ReportsSubmittedTotal counts stored submissions.
// Label:
//   - kind: "weekly" or "monthly"
var ReportsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_submitted_total",
		Help:      "Total number of report submissions stored, by kind.",
	},
	[]string{"kind"},
)

// ReportsDedupTotal counts submission deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new submission, stored)
var ReportsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_dedup_total",
		Help:      "Total number of submission deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// NotificationsTotal counts monthly-report email notifications.
// Label:
//   - outcome: "success" or "failure"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of monthly report email notifications, by outcome.",
	},
	[]string{"outcome"},
)
