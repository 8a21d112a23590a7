package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		initiationsTotal,
		callbacksTotal,
	)
}

var (
	initiationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_initiations_total",
			Help: "Purchase initiations by gateway and result (ok/error).",
		},
		[]string{"gateway", "result"},
	)

	callbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_callbacks_total",
			Help: "Gateway callbacks by gateway and outcome (verified/rejected/error).",
		},
		[]string{"gateway", "outcome"},
	)
)

func IncInitiation(gateway, result string) {
	initiationsTotal.WithLabelValues(norm(gateway), norm(result)).Inc()
}

func IncCallback(gateway, outcome string) {
	callbacksTotal.WithLabelValues(norm(gateway), norm(outcome)).Inc()
}
