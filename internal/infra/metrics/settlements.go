package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		settlementsTotal,
		revenueTotal,
	)
}

var (
	settlementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlements_total",
			Help: "Ledger finalizations by gateway and result (applied/failed).",
		},
		[]string{"gateway", "result"},
	)

	revenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlements_revenue_total",
			Help: "The total monetary value of applied settlements, labeled by currency.",
		},
		[]string{"currency"},
	)
)

func IncSettlement(gateway, result string) {
	settlementsTotal.WithLabelValues(norm(gateway), norm(result)).Inc()
}

func AddRevenue(currency string, amount float64) {
	revenueTotal.WithLabelValues(norm(currency)).Add(amount)
}
