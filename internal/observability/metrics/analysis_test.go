package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, registry *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)

	out := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func TestAnalysisMetricsRecord(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m, err := NewAnalysisMetrics(registry)
	require.NoError(t, err)

	m.RecordOperation(OpPCA, StatusSuccess)
	m.RecordOperation(OpPCA, StatusSuccess)
	m.RecordError(OpKMeans, "invalid-parameter")
	m.RecordDuration(OpPCA, 0.003)
	m.SetDatasetSize("mock", 3120, 8)
	m.SetDiversity(1.5, 0.7, 0.8)
	m.SetAnomaliesFlagged(2)
	m.SetClusterIterations(4)
	m.SetExplainedVariance([]float64{0.6, 0.3})

	assert.InDelta(t, 2, testutil.ToFloat64(m.operationsTotal.WithLabelValues(OpPCA, StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.errorsTotal.WithLabelValues(OpKMeans, "invalid-parameter")), 0)
	assert.InDelta(t, 3120, testutil.ToFloat64(m.detectionsLoaded.WithLabelValues("mock")), 0)
	assert.InDelta(t, 8, testutil.ToFloat64(m.speciesObserved), 0)
	assert.InDelta(t, 0.7, testutil.ToFloat64(m.diversityIndex.WithLabelValues("simpson")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.anomaliesFlagged), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(m.clusterIterations), 0)

	families := gather(t, registry)

	hist := families["trapstats_operation_duration_seconds"]
	require.NotNil(t, hist)
	require.Len(t, hist.GetMetric(), 1)
	assert.Equal(t, uint64(1), hist.GetMetric()[0].GetHistogram().GetSampleCount())

	pca := families["trapstats_pca_explained_variance_ratio"]
	require.NotNil(t, pca)
	labels := make(map[string]float64)
	for _, metric := range pca.GetMetric() {
		labels[metric.GetLabel()[0].GetValue()] = metric.GetGauge().GetValue()
	}
	assert.Equal(t, map[string]float64{"pc1": 0.6, "pc2": 0.3}, labels)
}

func TestAnalysisMetricsDoubleRegister(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	_, err := NewAnalysisMetrics(registry)
	require.NoError(t, err)

	_, err = NewAnalysisMetrics(registry)
	require.Error(t, err)
}

func TestSunCalcMetrics(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m, err := NewSunCalcMetrics(registry)
	require.NoError(t, err)

	m.RecordCacheMiss()
	m.RecordCalculation(StatusSuccess, 0.002)
	m.RecordCacheHit()
	m.RecordCacheHit()
	m.UpdateCacheSize(1)

	assert.InDelta(t, 2, testutil.ToFloat64(m.cacheHitsTotal), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.cacheMissesTotal), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.operationsTotal.WithLabelValues(StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.cacheSize), 0)
}
