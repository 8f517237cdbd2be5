package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics
var (
	reconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "control_reconcile_total", Help: "Now-playing reconciliations by mode"},
		[]string{"mode"},
	)
	upstreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "control_upstream_errors_total", Help: "Failed upstream fetches"},
		[]string{"source"},
	)
	composeOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "control_compose_ops_total", Help: "Compose subprocess runs"},
		[]string{"op", "outcome"},
	)
	composeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "control_compose_op_duration_seconds",
			Help:    "Compose subprocess wall time",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"op"},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(reconcileTotal, upstreamErrors, composeOps, composeDuration)
}

func ObserveReconcile(mode string) {
	reconcileTotal.WithLabelValues(mode).Inc()
}

func ObserveUpstreamError(source string) {
	upstreamErrors.WithLabelValues(source).Inc()
}

func ObserveComposeOp(op string, ok bool, seconds float64) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	composeOps.WithLabelValues(op, outcome).Inc()
	composeDuration.WithLabelValues(op).Observe(seconds)
}
