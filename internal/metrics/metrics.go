package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RefreshTotal counts refresh cycles by outcome.
	RefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "verusticker",
		Name:      "refresh_total",
		Help:      "Cache refresh cycles by result.",
	}, []string{"result"})

	// RefreshDuration observes the wall time of successful refreshes.
	RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "verusticker",
		Name:      "refresh_duration_seconds",
		Help:      "Duration of successful cache refreshes.",
		Buckets:   prometheus.DefBuckets,
	})

	// CachedPairs tracks the pair count of the published snapshot.
	CachedPairs = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "verusticker",
		Name:      "cached_pairs",
		Help:      "Trading pairs in the cached ticker set.",
	})
)
