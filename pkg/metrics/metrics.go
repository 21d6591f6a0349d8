package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	OrdersAcceptedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "matchcore",
			Name:      "orders_accepted_total",
			Help:      "Total number of accepted orders.",
		},
	)

	OrdersRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matchcore",
			Name:      "orders_rejected_total",
			Help:      "Total number of rejected orders.",
		},
		[]string{"reason"},
	)

	TradesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "matchcore",
			Name:      "trades_total",
			Help:      "Total number of trades produced.",
		},
	)

	WALFsyncSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "matchcore",
			Name:      "wal_fsync_seconds",
			Help:      "WAL flush+fsync latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		},
	)

	SnapshotSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "matchcore",
			Name:      "snapshot_seconds",
			Help:      "Snapshot write latency.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	RateLimitBlockTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matchcore",
			Name:      "ratelimit_block_total",
			Help:      "Total number of rate limit blocks.",
		},
		[]string{"method"},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		OrdersAcceptedTotal,
		OrdersRejectedTotal,
		TradesTotal,
		WALFsyncSeconds,
		SnapshotSeconds,
		RateLimitBlockTotal,
	)
}
