package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SunCalcMetrics contains Prometheus metrics for sun event calculations
type SunCalcMetrics struct {
	registry *prometheus.Registry

	operationsTotal  *prometheus.CounterVec
	durationSeconds  prometheus.Histogram
	cacheHitsTotal   prometheus.Counter
	cacheMissesTotal prometheus.Counter
	cacheSize        prometheus.Gauge
}

// NewSunCalcMetrics creates and registers new suncalc metrics
func NewSunCalcMetrics(registry *prometheus.Registry) (*SunCalcMetrics, error) {
	m := &SunCalcMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// initMetrics initializes all Prometheus metrics
func (m *SunCalcMetrics) initMetrics() {
	m.operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suncalc_operations_total",
			Help: "Total number of sun event calculations",
		},
		[]string{"status"},
	)

	m.durationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "suncalc_duration_seconds",
		Help:    "Time taken for sun event calculations",
		Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount10), // 1ms to ~1s
	})

	m.cacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "suncalc_cache_hits_total",
		Help: "Total number of sun event cache hits",
	})

	m.cacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "suncalc_cache_misses_total",
		Help: "Total number of sun event cache misses",
	})

	m.cacheSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "suncalc_cache_size",
		Help: "Current number of dates in the sun event cache",
	})
}

// Describe implements the Collector interface
func (m *SunCalcMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.operationsTotal.Describe(ch)
	m.durationSeconds.Describe(ch)
	m.cacheHitsTotal.Describe(ch)
	m.cacheMissesTotal.Describe(ch)
	m.cacheSize.Describe(ch)
}

// Collect implements the Collector interface
func (m *SunCalcMetrics) Collect(ch chan<- prometheus.Metric) {
	m.operationsTotal.Collect(ch)
	m.durationSeconds.Collect(ch)
	m.cacheHitsTotal.Collect(ch)
	m.cacheMissesTotal.Collect(ch)
	m.cacheSize.Collect(ch)
}

// RecordCalculation records a sun event calculation with its outcome
func (m *SunCalcMetrics) RecordCalculation(status string, seconds float64) {
	m.operationsTotal.WithLabelValues(status).Inc()
	m.durationSeconds.Observe(seconds)
}

// RecordCacheHit records a cache hit
func (m *SunCalcMetrics) RecordCacheHit() {
	m.cacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func (m *SunCalcMetrics) RecordCacheMiss() {
	m.cacheMissesTotal.Inc()
}

// UpdateCacheSize updates the cache size gauge
func (m *SunCalcMetrics) UpdateCacheSize(size int) {
	m.cacheSize.Set(float64(size))
}
