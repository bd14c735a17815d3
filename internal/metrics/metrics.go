// Package metrics tracks cache, rate-limit, and completion-call activity.
//
// Counters are exported to Prometheus and mirrored in atomics so the
// performance-stats endpoint can return numeric snapshots without scraping.
package metrics

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalCollector *Collector
	collectorOnce   sync.Once
)

// Collector holds the process-wide performance counters.
type Collector struct {
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	apiCalls      atomic.Int64
	totalRequests atomic.Int64
	rateRefusals  atomic.Int64
	cachedBrands  atomic.Int64
	cachedCats    atomic.Int64

	promCacheHits     prometheus.Counter
	promCacheMisses   prometheus.Counter
	promAPICalls      prometheus.Counter
	promRateRefusals  prometheus.Counter
	promRateRemaining prometheus.Gauge
	promFallbacks     *prometheus.CounterVec
	promCallDuration  prometheus.Histogram
}

// NewCollector creates and registers the Prometheus metrics on the default
// registry. sync.Once keeps repeated construction from panicking on
// duplicate registration.
func NewCollector() *Collector {
	collectorOnce.Do(func() {
		globalCollector = newCollector(prometheus.DefaultRegisterer)
	})
	return globalCollector
}

// NewTestCollector builds a collector against a throwaway registry so tests
// get independent counters.
func NewTestCollector() *Collector {
	return newCollector(prometheus.NewRegistry())
}

func newCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		promCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "brandranker_cache_hits_total",
			Help: "Total number of cache hits",
		}),
		promCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "brandranker_cache_misses_total",
			Help: "Total number of cache misses",
		}),
		promAPICalls: factory.NewCounter(prometheus.CounterOpts{
			Name: "brandranker_completion_calls_total",
			Help: "Total number of outbound completion API calls",
		}),
		promRateRefusals: factory.NewCounter(prometheus.CounterOpts{
			Name: "brandranker_rate_limit_refusals_total",
			Help: "Total number of admissions refused by the rate window",
		}),
		promRateRemaining: factory.NewGauge(prometheus.GaugeOpts{
			Name: "brandranker_rate_limit_remaining",
			Help: "Remaining capacity in the current rate window",
		}),
		promFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brandranker_fallback_total",
				Help: "Total number of rankings served from the fallback table",
			},
			[]string{"category"},
		),
		promCallDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "brandranker_completion_call_seconds",
			Help:    "Latency of completion API calls",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (c *Collector) CacheHit() {
	c.cacheHits.Add(1)
	c.promCacheHits.Inc()
}

func (c *Collector) CacheMiss() {
	c.cacheMisses.Add(1)
	c.promCacheMisses.Inc()
}

func (c *Collector) APICall(seconds float64) {
	c.apiCalls.Add(1)
	c.promAPICalls.Inc()
	c.promCallDuration.Observe(seconds)
}

func (c *Collector) Request() {
	c.totalRequests.Add(1)
}

func (c *Collector) RateLimitRefused() {
	c.rateRefusals.Add(1)
	c.promRateRefusals.Inc()
}

func (c *Collector) RateLimitRemaining(remaining int) {
	c.promRateRemaining.Set(float64(remaining))
}

func (c *Collector) Fallback(category string) {
	c.promFallbacks.WithLabelValues(category).Inc()
}

// BrandCached records a brand verdict freshly written to the validation cache.
func (c *Collector) BrandCached() {
	c.cachedBrands.Add(1)
}

// CategoryCached records a category verdict freshly written to the validation cache.
func (c *Collector) CategoryCached() {
	c.cachedCats.Add(1)
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	CacheHits        int64   `json:"cache_hits"`
	CacheMisses      int64   `json:"cache_misses"`
	APICalls         int64   `json:"api_calls"`
	TotalRequests    int64   `json:"total_requests"`
	CacheHitRate     float64 `json:"cache_hit_rate"`
	CachedCompanies  int64   `json:"cached_companies"`
	CachedCategories int64   `json:"cached_categories"`
}

func (c *Collector) Snapshot() Snapshot {
	hits := c.cacheHits.Load()
	misses := c.cacheMisses.Load()

	var hitRate float64
	if hits+misses > 0 {
		hitRate = float64(hits) / float64(hits+misses) * 100
	}

	return Snapshot{
		CacheHits:        hits,
		CacheMisses:      misses,
		APICalls:         c.apiCalls.Load(),
		TotalRequests:    c.totalRequests.Load(),
		CacheHitRate:     hitRate,
		CachedCompanies:  c.cachedBrands.Load(),
		CachedCategories: c.cachedCats.Load(),
	}
}
