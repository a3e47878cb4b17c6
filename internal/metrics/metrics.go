package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline and provider metrics, registered on the default registry and
// served from the API's /metrics endpoint.
var (
	ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oppscan",
		Name:      "scans_total",
		Help:      "Completed pipeline runs by timeframe and outcome.",
	}, []string{"timeframe", "outcome"})

	ScanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "oppscan",
		Name:      "scan_duration_seconds",
		Help:      "Wall time of one pipeline run.",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
	}, []string{"timeframe"})

	TickersScored = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oppscan",
		Name:      "tickers_scored_total",
		Help:      "Tickers scored by pipeline stage.",
	}, []string{"stage"})

	ProviderErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oppscan",
		Name:      "provider_errors_total",
		Help:      "External provider failures by provider.",
	}, []string{"provider"})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oppscan",
		Name:      "cache_hits_total",
		Help:      "Cache hits by cache kind.",
	}, []string{"kind"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oppscan",
		Name:      "cache_misses_total",
		Help:      "Cache misses by cache kind.",
	}, []string{"kind"})
)
