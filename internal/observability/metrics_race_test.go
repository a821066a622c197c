package observability

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/trapstats/internal/observability/metrics"
)

// TestNewMetricsConcurrency verifies that NewMetrics can be called concurrently
// without causing race conditions
func TestNewMetricsConcurrency(t *testing.T) {
	t.Parallel()

	const numGoroutines = 50

	var wg sync.WaitGroup
	for range numGoroutines {
		wg.Go(func() {
			m, err := NewMetrics()
			if !assert.NoError(t, err) {
				return
			}
			assert.NotNil(t, m.registry)
			assert.NotNil(t, m.Analysis)
			assert.NotNil(t, m.SunCalc)
		})
	}
	wg.Wait()
}

// TestMetricsInstancesAreIndependent checks that two runs do not share
// counters.
func TestMetricsInstancesAreIndependent(t *testing.T) {
	t.Parallel()

	first, err := NewMetrics()
	require.NoError(t, err)
	second, err := NewMetrics()
	require.NoError(t, err)

	first.Analysis.RecordOperation(metrics.OpPCA, metrics.StatusSuccess)

	families, err := second.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		assert.NotEqual(t, "trapstats_operations_total", mf.GetName())
	}
}

func TestWriteToTextfile(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics()
	require.NoError(t, err)
	m.Analysis.RecordOperation(metrics.OpKMeans, metrics.StatusSuccess)
	m.Analysis.SetDiversity(1.2, 0.65, 0.58)

	path := filepath.Join(t.TempDir(), "nested", "trapstats.prom")
	require.NoError(t, m.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `trapstats_operations_total{operation="kmeans",status="success"} 1`)
	assert.Contains(t, text, `trapstats_diversity_index{index="shannon"} 1.2`)
}
