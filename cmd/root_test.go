package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/trapstats/internal/buildinfo"
	"github.com/tphakala/trapstats/internal/errors"
	"github.com/tphakala/trapstats/internal/runtime"
)

const testdata = "../internal/loader/testdata"

// run executes the CLI with args. Commands replace the global logger, so
// these tests do not run in parallel.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	rt := runtime.New(&buildinfo.Context{Version: "test"})
	root := RootCommand(rt)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(t.Context())
	if finishErr := rt.Finish(); err == nil {
		err = finishErr
	}
	return out.String(), err
}

func TestAnalyzeJSON(t *testing.T) {
	out, err := run(t, "analyze", "--format", "json")
	require.NoError(t, err)

	var got struct {
		Source    string `json:"source"`
		Diversity struct {
			Richness int `json:"richness"`
		} `json:"diversity"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "mock", got.Source)
	assert.Equal(t, 8, got.Diversity.Richness)
}

func TestAnalyzeGeoJSONTable(t *testing.T) {
	out, err := run(t, "analyze", "--input", filepath.Join(testdata, "export.geojson"))
	require.NoError(t, err)
	assert.Contains(t, out, "== Summary ==")
	assert.Contains(t, out, "geojson")
}

func TestAnalyzeRejectsUnknownFormat(t *testing.T) {
	_, err := run(t, "analyze", "--format", "xml")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryInvalidParameter))
}

func TestMLYAML(t *testing.T) {
	out, err := run(t, "ml", "--format", "yaml", "--clusters", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "feature_names:")
	assert.Contains(t, out, "anomalies:")
}

func TestForecastJSON(t *testing.T) {
	out, err := run(t, "forecast",
		"--input", filepath.Join(testdata, "monthly_trends.csv"),
		"--steps", "1", "--window", "2", "--format", "json")
	require.NoError(t, err)

	var got struct {
		History  []float64 `json:"history"`
		Forecast []float64 `json:"forecast"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []float64{120, 150, 135.5, 98}, got.History)
	require.Len(t, got.Forecast, 1)
	assert.InDelta(t, 116.75, got.Forecast[0], 1e-9)
}

func TestForecastNeedsInput(t *testing.T) {
	_, err := run(t, "forecast")
	require.Error(t, err)
}

func TestSitesTable(t *testing.T) {
	out, err := run(t, "sites", "--dir", testdata,
		"--site", "Purcari North", "--site-b", "Purcari South")
	require.NoError(t, err)
	assert.Contains(t, out, "Site comparison (all species)")
	assert.Contains(t, out, "0.4400")
}

func TestSitesUnknownSite(t *testing.T) {
	_, err := run(t, "sites", "--dir", testdata, "--site", "Nowhere", "--site-b", "Purcari South")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidParameter))
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "mammals.csv")
	out, err := run(t, "export", "--out", path, "--type", "mammal")
	require.NoError(t, err)
	assert.Contains(t, out, "exported 224 detections")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 225)
	assert.True(t, strings.HasPrefix(lines[0], "ID,Timestamp,Species"))
}

func TestExportRejectsUnknownRange(t *testing.T) {
	_, err := run(t, "export", "--out", "-", "--range", "dusk")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryInvalidParameter))
}

func TestReportHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	_, err := run(t, "report", "--out", path, "--title", "Vineyard")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Hourly Activity")
	assert.Contains(t, string(data), "Detection Forecast")
}

func TestMetricsFileFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trapstats.prom")
	_, err := run(t, "analyze", "--format", "json", "--metrics-file", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `trapstats_operations_total{operation="load",status="success"} 1`)
}
