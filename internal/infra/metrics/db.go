package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(dbPoolStats, txDurationMs) }

var (
	dbPoolStats = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "db_pool_stats",
			Help: "Current state of the database connection pool.",
		},
		[]string{"state"}, // 'total', 'idle', 'in_use'
	)

	txDurationMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_tx_duration_ms",
			Help:    "Transaction duration distribution in milliseconds.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		},
		[]string{"outcome"}, // 'commit', 'rollback'
	)
)

func SetDBPoolStats(total, idle, inUse int32) {
	dbPoolStats.WithLabelValues("total").Set(float64(total))
	dbPoolStats.WithLabelValues("idle").Set(float64(idle))
	dbPoolStats.WithLabelValues("in_use").Set(float64(inUse))
}

func ObserveTxDuration(outcome string, ms float64) {
	txDurationMs.WithLabelValues(norm(outcome)).Observe(ms)
}
