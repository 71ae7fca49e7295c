package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search cascade Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trova",
			Name:      "searches_total",
			Help:      "Total number of product searches by the tier that answered them",
		},
		[]string{"tier"}, // "strict" / "category" / "color" / "semantic" / "empty"
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "trova",
			Name:      "search_duration_seconds",
			Help:      "End-to-end product search duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	CascadeTiersAttempted = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "trova",
			Name:      "cascade_tiers_attempted",
			Help:      "Number of cascade tiers executed before a search returned",
			Buckets:   []float64{1, 2, 3, 4},
		},
	)

	CascadeTierTimeouts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trova",
			Name:      "cascade_tier_timeouts_total",
			Help:      "Catalog round-trips that timed out and were treated as empty tiers",
		},
		[]string{"tier"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(CascadeTiersAttempted)
	prometheus.MustRegister(CascadeTierTimeouts)
	searchMetricsRegistered = true
}
