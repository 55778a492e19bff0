// Package metrics defines and registers the custom Prometheus metrics for
// the tower admin API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry at import time via promauto;
// the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tower_admin"

// LoginsTotal counts login attempts against the token endpoint.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// AuditEntriesTotal counts recorded audit entries.
// Labels:
//   - action: "created", "updated", or "deleted"
//   - object_type: the mutated resource kind
var AuditEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_entries_total",
		Help:      "Total number of audit entries recorded, by action and object type.",
	},
	[]string{"action", "object_type"},
)

// TowerRequestsTotal counts calls to upstream tower instances.
// Labels:
//   - operation: "ping", "credential_types", "create_credential_type", "credentials"
//   - result: "success" or "error"
var TowerRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tower_requests_total",
		Help:      "Total number of upstream tower API calls, by operation and result.",
	},
	[]string{"operation", "result"},
)

// TowerRequestDuration measures upstream tower call latency.
// Label:
//   - operation: same values as TowerRequestsTotal
var TowerRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tower_request_duration_seconds",
		Help:      "Duration of upstream tower API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)
