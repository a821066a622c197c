// Package loader turns external inputs into detections and AnalysisData.
//
// Three sources are supported: a seeded synthetic dataset, GeoJSON exports
// from camera-trap platforms and the CSV summaries produced by the site
// comparison tooling.
package loader

import (
	"github.com/tphakala/trapstats/internal/analysis/biodiversity"
	"github.com/tphakala/trapstats/internal/detection"
	"github.com/tphakala/trapstats/internal/logger"
)

const componentName = "loader"

func getLog() logger.Logger {
	return logger.Global().Module(componentName)
}

// Source names a kind of input
type Source string

const (
	SourceMock    Source = "mock"
	SourceGeoJSON Source = "geojson"
)

// Dataset is the result of a single data load
type Dataset struct {
	Source     Source                 `json:"source" yaml:"source"`
	Detections []detection.Detection  `json:"-" yaml:"-"`
	Analysis   detection.AnalysisData `json:"analysis" yaml:"analysis"`
	Hotspots   []detection.Hotspot    `json:"hotspots" yaml:"hotspots"`
}

// buildAnalysis aggregates detections into AnalysisData with the given
// rarity thresholds. Hypotheses are left empty.
func buildAnalysis(dets []detection.Detection, rareBelow, commonAbove int) detection.AnalysisData {
	species, hourly, types := detection.Aggregate(dets)
	rare, common := biodiversity.ClassifyRarity(species, rareBelow, commonAbove)

	return detection.AnalysisData{
		Summary:    detection.NewSummary(dets, species.Len()),
		Hourly:     hourly,
		Species:    species,
		Types:      types,
		Rare:       rare,
		Common:     common,
		Hypotheses: []detection.Hypothesis{},
	}
}
