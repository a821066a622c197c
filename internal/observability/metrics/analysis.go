package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// AnalysisMetrics contains Prometheus metrics for analysis runs
type AnalysisMetrics struct {
	registry *prometheus.Registry

	// Stage metrics
	operationsTotal *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	durationSeconds *prometheus.HistogramVec

	// Dataset metrics
	detectionsLoaded *prometheus.GaugeVec
	speciesObserved  prometheus.Gauge

	// Result metrics
	diversityIndex    *prometheus.GaugeVec
	anomaliesFlagged  prometheus.Gauge
	clusterIterations prometheus.Gauge
	explainedVariance *prometheus.GaugeVec
}

// NewAnalysisMetrics creates and registers new analysis metrics
func NewAnalysisMetrics(registry *prometheus.Registry) (*AnalysisMetrics, error) {
	m := &AnalysisMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// initMetrics initializes all Prometheus metrics
func (m *AnalysisMetrics) initMetrics() {
	m.operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trapstats_operations_total",
			Help: "Total number of analysis stage executions",
		},
		[]string{"operation", "status"},
	)

	m.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trapstats_errors_total",
			Help: "Total number of analysis stage errors",
		},
		[]string{"operation", "error_type"},
	)

	m.durationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trapstats_operation_duration_seconds",
			Help:    "Time taken by analysis stages",
			Buckets: prometheus.ExponentialBuckets(BucketStart100us, BucketFactor2, BucketCount12), // 0.1ms to ~400ms
		},
		[]string{"operation"},
	)

	m.detectionsLoaded = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trapstats_detections_loaded",
			Help: "Number of detections in the last loaded dataset",
		},
		[]string{"source"},
	)

	m.speciesObserved = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "trapstats_species_observed",
		Help: "Species richness of the last analysed dataset",
	})

	m.diversityIndex = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trapstats_diversity_index",
			Help: "Diversity indices of the last analysed dataset",
		},
		[]string{"index"}, // index: shannon, simpson, evenness
	)

	m.anomaliesFlagged = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "trapstats_anomalies_flagged",
		Help: "Number of species flagged as anomalous in the last run",
	})

	m.clusterIterations = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "trapstats_kmeans_iterations",
		Help: "Lloyd iterations used by the last k-means run",
	})

	m.explainedVariance = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trapstats_pca_explained_variance_ratio",
			Help: "Explained variance ratio per principal component in the last run",
		},
		[]string{"component"},
	)
}

// Describe implements the Collector interface
func (m *AnalysisMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.operationsTotal.Describe(ch)
	m.errorsTotal.Describe(ch)
	m.durationSeconds.Describe(ch)
	m.detectionsLoaded.Describe(ch)
	m.speciesObserved.Describe(ch)
	m.diversityIndex.Describe(ch)
	m.anomaliesFlagged.Describe(ch)
	m.clusterIterations.Describe(ch)
	m.explainedVariance.Describe(ch)
}

// Collect implements the Collector interface
func (m *AnalysisMetrics) Collect(ch chan<- prometheus.Metric) {
	m.operationsTotal.Collect(ch)
	m.errorsTotal.Collect(ch)
	m.durationSeconds.Collect(ch)
	m.detectionsLoaded.Collect(ch)
	m.speciesObserved.Collect(ch)
	m.diversityIndex.Collect(ch)
	m.anomaliesFlagged.Collect(ch)
	m.clusterIterations.Collect(ch)
	m.explainedVariance.Collect(ch)
}

// RecordOperation implements Recorder
func (m *AnalysisMetrics) RecordOperation(operation, status string) {
	m.operationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordDuration implements Recorder
func (m *AnalysisMetrics) RecordDuration(operation string, seconds float64) {
	m.durationSeconds.WithLabelValues(operation).Observe(seconds)
}

// RecordError implements Recorder
func (m *AnalysisMetrics) RecordError(operation, errorType string) {
	m.errorsTotal.WithLabelValues(operation, errorType).Inc()
}

// SetDatasetSize records the size of a freshly loaded dataset
func (m *AnalysisMetrics) SetDatasetSize(source string, detections, species int) {
	m.detectionsLoaded.WithLabelValues(source).Set(float64(detections))
	m.speciesObserved.Set(float64(species))
}

// SetDiversity records the diversity indices of the last run
func (m *AnalysisMetrics) SetDiversity(shannon, simpson, evenness float64) {
	m.diversityIndex.WithLabelValues("shannon").Set(shannon)
	m.diversityIndex.WithLabelValues("simpson").Set(simpson)
	m.diversityIndex.WithLabelValues("evenness").Set(evenness)
}

// SetAnomaliesFlagged records how many rows were flagged
func (m *AnalysisMetrics) SetAnomaliesFlagged(n int) {
	m.anomaliesFlagged.Set(float64(n))
}

// SetClusterIterations records the iterations of the last k-means run
func (m *AnalysisMetrics) SetClusterIterations(n int) {
	m.clusterIterations.Set(float64(n))
}

// SetExplainedVariance records the explained variance ratio per component,
// labelled pc1, pc2, ...
func (m *AnalysisMetrics) SetExplainedVariance(ratios []float64) {
	for i, r := range ratios {
		m.explainedVariance.WithLabelValues(componentLabel(i)).Set(r)
	}
}

func componentLabel(i int) string {
	return "pc" + strconv.Itoa(i+1)
}
