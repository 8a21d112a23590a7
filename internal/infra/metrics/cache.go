package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(planCacheLookupsTotal) }

// The plan catalog is the only cached read path; "cache" distinguishes the
// per-plan entries from the full-list entry.
var planCacheLookupsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "plan_cache_lookups_total",
		Help: "Plan catalog cache lookups by outcome.",
	},
	[]string{"cache", "result"}, // cache="plan"|"plan_list", result="hit"|"miss"
)

func IncCacheRequest(cacheName, result string) {
	planCacheLookupsTotal.WithLabelValues(norm(cacheName), norm(result)).Inc()
}
