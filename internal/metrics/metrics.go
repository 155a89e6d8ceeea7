package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_lookup_provider_calls_total",
			Help: "Total weather provider calls by outcome",
		},
		[]string{"provider", "status"},
	)

	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weather_lookup_provider_latency_seconds",
			Help:    "Weather provider call latency in seconds, retries included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_lookup_queries_total",
			Help: "Total submitted queries by outcome (success, failed, rejected, superseded)",
		},
		[]string{"outcome"},
	)

	HistoryEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "weather_lookup_history_entries",
			Help: "Number of entries currently in the search history ledger",
		},
	)

	ThemeRecomputes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_lookup_theme_recomputes_total",
			Help: "Total chart style recomputations triggered by theme changes",
		},
	)
)
