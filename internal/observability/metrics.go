// Package observability wires the Prometheus collectors of a trapstats run
// and writes them out in the node_exporter textfile format.
package observability

import (
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tphakala/trapstats/internal/errors"
	"github.com/tphakala/trapstats/internal/logger"
	"github.com/tphakala/trapstats/internal/observability/metrics"
)

// Metrics holds all the metric collectors for one run.
type Metrics struct {
	registry *prometheus.Registry
	Analysis *metrics.AnalysisMetrics
	SunCalc  *metrics.SunCalcMetrics
}

// NewMetrics creates a new instance of Metrics on a private registry, so
// independent runs never share state.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	analysisMetrics, err := metrics.NewAnalysisMetrics(registry)
	if err != nil {
		return nil, errors.Newf("failed to create analysis metrics: %w", err).
			Component(componentName).
			Category(errors.CategoryConfiguration).
			Build()
	}

	sunCalcMetrics, err := metrics.NewSunCalcMetrics(registry)
	if err != nil {
		return nil, errors.Newf("failed to create SunCalc metrics: %w", err).
			Component(componentName).
			Category(errors.CategoryConfiguration).
			Build()
	}

	return &Metrics{
		registry: registry,
		Analysis: analysisMetrics,
		SunCalc:  sunCalcMetrics,
	}, nil
}

// Registry exposes the underlying registry for gathering
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteToTextfile writes every registered metric to path. The parent
// directory is created when missing. prometheus.WriteToTextfile writes via a
// temporary file and rename, so readers never see a partial file.
func (m *Metrics) WriteToTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.FileError(err, dir, 0)
		}
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.FileError(err, path, 0)
	}

	getLog().Debug("wrote metrics textfile", logger.String("path", path))
	return nil
}
