package common

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsRegistry collects counters from the cache and the fetch pipeline.
var MetricsRegistry = prometheus.NewRegistry()

var (
	CacheHits = promauto.With(MetricsRegistry).NewCounter(prometheus.CounterOpts{
		Namespace: "dexmetadata",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Number of pool lookups served from the cache.",
	})

	CacheMisses = promauto.With(MetricsRegistry).NewCounter(prometheus.CounterOpts{
		Namespace: "dexmetadata",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Number of pool lookups that missed the cache.",
	})

	CacheEvictions = promauto.With(MetricsRegistry).NewCounter(prometheus.CounterOpts{
		Namespace: "dexmetadata",
		Subsystem: "cache",
		Name:      "evictions_total",
		Help:      "Number of entries removed by the eviction policy.",
	})

	BatchesSucceeded = promauto.With(MetricsRegistry).NewCounter(prometheus.CounterOpts{
		Namespace: "dexmetadata",
		Subsystem: "fetcher",
		Name:      "batches_succeeded_total",
		Help:      "Number of RPC batches that returned decodable results.",
	})

	BatchesFailed = promauto.With(MetricsRegistry).NewCounter(prometheus.CounterOpts{
		Namespace: "dexmetadata",
		Subsystem: "fetcher",
		Name:      "batches_failed_total",
		Help:      "Number of RPC batches dropped due to network or decode errors.",
	})

	PoolsFetched = promauto.With(MetricsRegistry).NewCounter(prometheus.CounterOpts{
		Namespace: "dexmetadata",
		Subsystem: "fetcher",
		Name:      "pools_fetched_total",
		Help:      "Number of pool records fetched from RPC endpoints.",
	})
)

func NewMetricsHandler() http.Handler {
	return promhttp.HandlerFor(MetricsRegistry, promhttp.HandlerOpts{})
}
