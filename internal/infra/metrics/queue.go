package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(queueMessagesTotal)
}

var queueMessagesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "settlement_queue_messages_total",
		Help: "Queue activity by event (published/acked/dead_lettered).",
	},
	[]string{"event"},
)

func IncQueueMessage(event string) {
	queueMessagesTotal.WithLabelValues(norm(event)).Inc()
}
