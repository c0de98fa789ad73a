package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutation and sync outcomes.
type CartMetrics struct {
	mutations       *prometheus.CounterVec
	syncFailures    prometheus.Counter
	reconciliations prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations applied, labelled by action.",
	}, []string{"action"})
	syncFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_remote_sync_failures_total",
		Help: "Best-effort remote cart calls that reported failure.",
	})
	reconciliations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_guest_reconciliations_total",
		Help: "Guest carts merged into an authenticated cart on sign-in.",
	})
	reg.MustRegister(mutations, syncFailures, reconciliations)
	return &CartMetrics{
		mutations:       mutations,
		syncFailures:    syncFailures,
		reconciliations: reconciliations,
	}
}

// IncMutation increments the mutation counter for the named action.
func (c *CartMetrics) IncMutation(action string) {
	if c == nil || c.mutations == nil {
		return
	}
	if action == "" {
		action = "unknown"
	}
	c.mutations.WithLabelValues(action).Inc()
}

// IncSyncFailure increments the remote sync failure counter.
func (c *CartMetrics) IncSyncFailure() {
	if c == nil || c.syncFailures == nil {
		return
	}
	c.syncFailures.Inc()
}

// IncReconciliation increments the reconciliation counter.
func (c *CartMetrics) IncReconciliation() {
	if c == nil || c.reconciliations == nil {
		return
	}
	c.reconciliations.Inc()
}
