// Package metrics defines and registers the custom Prometheus metrics of the
// practice server. Every metric is registered with the default registry when
// the package is loaded; Recorder feeds them from the core services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sups/practice-server/internal/core/ports"
)

const namespace = "practice"

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreOperationsTotal counts document store calls.
// Labels:
//   - collection: the collection addressed
//   - op: list, get, add, set, merge or delete
//   - result: ok, not_found, request, conflict, unauthorized, forbidden or error
var StoreOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_operations_total",
		Help:      "Total number of document store operations, by collection, operation and result.",
	},
	[]string{"collection", "op", "result"},
)

// ── Rule metrics ──────────────────────────────────────────────────────────────

// AccessDeniedTotal counts requests rejected by the rule engine.
// Label kind is "unauthorized" (no user) or "forbidden" (rule denied).
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests denied by access rules.",
	},
	[]string{"collection", "action", "kind"},
)

// FieldsRedactedTotal counts fields removed by field-level rules.
var FieldsRedactedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fields_redacted_total",
		Help:      "Total number of fields removed by field-level rules.",
	},
	[]string{"collection", "action"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

var SessionsOpenedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_opened_total",
		Help:      "Total number of sessions opened by register or login.",
	},
)

var SessionsClosedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_closed_total",
		Help:      "Total number of sessions closed by logout.",
	},
)

// Recorder implements ports.Metrics on top of the package metrics.
type Recorder struct{}

var _ ports.Metrics = Recorder{}

func (Recorder) StoreOperation(collection, op, result string) {
	StoreOperationsTotal.WithLabelValues(collection, op, result).Inc()
}

func (Recorder) AccessDenied(collection, action, kind string) {
	AccessDeniedTotal.WithLabelValues(collection, action, kind).Inc()
}

func (Recorder) FieldsRedacted(collection, action string, n int) {
	FieldsRedactedTotal.WithLabelValues(collection, action).Add(float64(n))
}

func (Recorder) SessionOpened() { SessionsOpenedTotal.Inc() }

func (Recorder) SessionClosed() { SessionsClosedTotal.Inc() }
