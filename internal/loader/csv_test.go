package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/trapstats/internal/errors"
)

func TestParseMonthlyTrends(t *testing.T) {
	t.Parallel()

	got, err := ParseMonthlyTrends(strings.NewReader("month,count\n2024-05, 120\n\n\"2024-06\",150.5\n"))
	require.NoError(t, err)
	assert.Equal(t, []MonthlyTrend{
		{Month: "2024-05", Count: 120},
		{Month: "2024-06", Count: 150.5},
	}, got)
	assert.Equal(t, []float64{120, 150.5}, TrendCounts(got))
}

func TestParseMonthlyTrendsHeaderOnly(t *testing.T) {
	t.Parallel()

	got, err := ParseMonthlyTrends(strings.NewReader("month,count\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseCSVErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		parse func(string) error
		input string
	}{
		{"bad count", func(s string) error { _, err := ParseMonthlyTrends(strings.NewReader(s)); return err }, "month,count\n2024-05,many\n"},
		{"short row", func(s string) error { _, err := ParseSiteDiversity(strings.NewReader(s)); return err }, "site,shannon\nNorth\n"},
		{"bad richness", func(s string) error { _, err := ParseDetailedMetrics(strings.NewReader(s)); return err }, "h\nA,all species,1.2,0.5,3.5\n"},
		{"bad simpson", func(s string) error { _, err := ParseDetailedMetrics(strings.NewReader(s)); return err }, "h\nA,all species,1.2,x,3\n"},
		{"unterminated quote", func(s string) error { _, err := ParseSiteDiversity(strings.NewReader(s)); return err }, "site,shannon\n\"North,1.2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, tt.parse(tt.input), errors.ErrInvalidInput)
		})
	}
}

func TestLoadAllCSV(t *testing.T) {
	t.Parallel()

	data, err := LoadAllCSV(context.Background(), "testdata")
	require.NoError(t, err)

	assert.Equal(t, []MonthlyTrend{
		{Month: "2024-05", Count: 120},
		{Month: "2024-06", Count: 150},
		{Month: "2024-07", Count: 135.5},
		{Month: "2024-08", Count: 98},
	}, data.MonthlyTrends)

	assert.Equal(t, []SiteDiversity{
		{Site: "Purcari North", Shannon: 2.31},
		{Site: "Purcari South", Shannon: 1.87},
	}, data.SiteDiversity)

	require.Len(t, data.DetailedMetrics, 4)
	assert.Equal(t, DetailedMetrics{
		Site: "Purcari South", Filter: "wild species", Shannon: 1.60, Simpson: 0.72, Richness: 11,
	}, data.DetailedMetrics[3])
}

func TestLoadAllCSVMissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src, err := os.ReadFile(filepath.Join("testdata", "monthly_trends.csv"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "monthly_trends.csv"), src, 0o600))

	_, err = LoadAllCSV(context.Background(), dir)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))
}

func TestLoadAllCSVCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadAllCSV(ctx, "testdata")
	require.ErrorIs(t, err, context.Canceled)
}

func TestMetricsForSite(t *testing.T) {
	t.Parallel()

	data, err := LoadAllCSV(context.Background(), "testdata")
	require.NoError(t, err)

	m, ok := MetricsForSite(data.DetailedMetrics, "Purcari North", "")
	require.True(t, ok)
	assert.Equal(t, 24, m.Richness)

	m, ok = MetricsForSite(data.DetailedMetrics, "Purcari North", "wild species")
	require.True(t, ok)
	assert.Equal(t, 18, m.Richness)

	_, ok = MetricsForSite(data.DetailedMetrics, "Nowhere", "")
	assert.False(t, ok)
}

func TestCompareSites(t *testing.T) {
	t.Parallel()

	data, err := LoadAllCSV(context.Background(), "testdata")
	require.NoError(t, err)

	cmp := CompareSites(data.DetailedMetrics, "Purcari North", "Purcari South", DefaultMetricsFilter)
	require.NotNil(t, cmp)
	assert.InDelta(t, 0.44, cmp.ShannonDiff, 1e-9)
	assert.InDelta(t, 0.07, cmp.SimpsonDiff, 1e-9)
	assert.Equal(t, 8, cmp.RichnessDiff)

	assert.Nil(t, CompareSites(data.DetailedMetrics, "Purcari North", "Nowhere", ""))
	assert.Nil(t, CompareSites(data.DetailedMetrics, "Nowhere", "Purcari South", ""))
}
