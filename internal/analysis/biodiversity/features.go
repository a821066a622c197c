// Package biodiversity computes per-species features and community statistics
// from aggregated camera-trap detections.
package biodiversity

import (
	"math"
	"slices"

	"github.com/montanaflynn/stats"
	"github.com/paulmach/orb"

	"github.com/tphakala/trapstats/internal/detection"
	"github.com/tphakala/trapstats/internal/logger"
)

const componentName = "analysis.biodiversity"

func getLog() logger.Logger {
	return logger.Global().Module(componentName)
}

// Neutral feature values used when the supporting data is missing
const (
	DefaultActivityRatio    = 0.5
	DefaultSeasonalVariance = 0.5
	DefaultSpatialSpread    = 0.5
)

// FeatureNames are the column names of FeatureMatrix, in column order
var FeatureNames = []string{"count", "night_ratio", "day_ratio", "diversity", "seasonal_variance", "spatial_spread"}

// SpeciesFeatures is the feature vector of one species.
// NightRatio and DayRatio are derived independently and need not sum to 1.
type SpeciesFeatures struct {
	Name             string  `json:"name" yaml:"name"`
	Count            int     `json:"count" yaml:"count"`
	NightRatio       float64 `json:"night_ratio" yaml:"night_ratio"`
	DayRatio         float64 `json:"day_ratio" yaml:"day_ratio"`
	Diversity        float64 `json:"diversity" yaml:"diversity"`
	SeasonalVariance float64 `json:"seasonal_variance" yaml:"seasonal_variance"`
	SpatialSpread    float64 `json:"spatial_spread" yaml:"spatial_spread"`
}

// Vector returns the numeric features in FeatureNames order
func (f *SpeciesFeatures) Vector() []float64 {
	return []float64{
		float64(f.Count),
		f.NightRatio,
		f.DayRatio,
		f.Diversity,
		f.SeasonalVariance,
		f.SpatialSpread,
	}
}

// FeatureInputs carries optional per-species breakdowns. Any map may be nil.
type FeatureInputs struct {
	NightCounts    map[string]int
	DayCounts      map[string]int
	SeasonalSeries map[string][]float64
	Locations      map[string][]orb.Point // [lng, lat] per detection
}

// ExtractFeatures builds one SpeciesFeatures per species in counts, in the
// insertion order of counts. inputs may be nil.
//
// A species missing from NightCounts or DayCounts gets the neutral ratio 0.5.
// A species with count 0 gets ratio 0 instead of dividing by zero.
func ExtractFeatures(counts *detection.SpeciesCounts, inputs *FeatureInputs) []SpeciesFeatures {
	if inputs == nil {
		inputs = &FeatureInputs{}
	}

	total := counts.Total()
	features := make([]SpeciesFeatures, 0, counts.Len())

	for name, count := range counts.All() {
		f := SpeciesFeatures{
			Name:             name,
			Count:            count,
			NightRatio:       activityRatio(inputs.NightCounts, name, count),
			DayRatio:         activityRatio(inputs.DayCounts, name, count),
			SeasonalVariance: seasonalVariance(inputs.SeasonalSeries[name]),
			SpatialSpread:    SpatialSpread(inputs.Locations[name]),
		}
		if total > 0 {
			f.Diversity = float64(count) / float64(total)
		}
		features = append(features, f)
	}

	getLog().Debug("extracted species features",
		logger.Int("species", len(features)),
		logger.Int("total", total))

	return features
}

func activityRatio(breakdown map[string]int, name string, count int) float64 {
	if count == 0 {
		return 0
	}
	n, ok := breakdown[name]
	if !ok {
		return DefaultActivityRatio
	}
	return float64(n) / float64(count)
}

// seasonalVariance is the population standard deviation of the series
func seasonalVariance(series []float64) float64 {
	if len(series) == 0 {
		return DefaultSeasonalVariance
	}
	sd, err := stats.StandardDeviationPopulation(stats.Float64Data(series))
	if err != nil || math.IsNaN(sd) {
		return DefaultSeasonalVariance
	}
	return sd
}

// FeatureMatrix projects features onto the FeatureNames columns and returns
// the parallel row labels.
func FeatureMatrix(features []SpeciesFeatures) (matrix [][]float64, labels []string) {
	matrix = make([][]float64, len(features))
	labels = make([]string, len(features))
	for i := range features {
		matrix[i] = features[i].Vector()
		labels[i] = features[i].Name
	}
	return matrix, labels
}

// NightClassifier decides whether a detection happened at night
type NightClassifier func(d *detection.Detection) bool

// IsNightHour reports whether hour is in the night window 20:00-05:59
func IsNightHour(hour int) bool {
	return hour >= 20 || hour <= 5
}

// DefaultNightClassifier uses the detection's own night flag and falls back
// to the hour of day.
func DefaultNightClassifier(d *detection.Detection) bool {
	if d.IsNight != nil {
		return *d.IsNight
	}
	return IsNightHour(d.Hour())
}

// FeatureInputsFromDetections derives night/day counts, monthly seasonal
// series and locations from raw detections. isNight may be nil.
//
// Every species in dets has both a night and a day count, so a species seen
// only at night has a day ratio of 0 rather than the neutral default.
// Seasonal series cover every calendar month between the first and last
// detection so that species absent in a month contribute a zero.
func FeatureInputsFromDetections(dets []detection.Detection, isNight NightClassifier) *FeatureInputs {
	if isNight == nil {
		isNight = DefaultNightClassifier
	}

	inputs := &FeatureInputs{
		NightCounts:    make(map[string]int),
		DayCounts:      make(map[string]int),
		SeasonalSeries: make(map[string][]float64),
		Locations:      make(map[string][]orb.Point),
	}
	if len(dets) == 0 {
		return inputs
	}

	for i := range dets {
		inputs.NightCounts[dets[i].Species] = 0
		inputs.DayCounts[dets[i].Species] = 0
	}

	months := monthIndex(dets)
	for i := range dets {
		d := &dets[i]
		if isNight(d) {
			inputs.NightCounts[d.Species]++
		} else {
			inputs.DayCounts[d.Species]++
		}

		series, ok := inputs.SeasonalSeries[d.Species]
		if !ok {
			series = make([]float64, len(months))
			inputs.SeasonalSeries[d.Species] = series
		}
		series[months[monthKey(d)]]++

		if d.Coordinates != nil {
			inputs.Locations[d.Species] = append(inputs.Locations[d.Species],
				orb.Point{d.Coordinates.Lng, d.Coordinates.Lat})
		}
	}

	return inputs
}

func monthKey(d *detection.Detection) int {
	return d.Timestamp.Year()*12 + int(d.Timestamp.Month()) - 1
}

// monthIndex maps each month key in the span of dets to a series position
func monthIndex(dets []detection.Detection) map[int]int {
	keys := make([]int, 0, len(dets))
	for i := range dets {
		keys = append(keys, monthKey(&dets[i]))
	}
	lo, hi := slices.Min(keys), slices.Max(keys)

	index := make(map[int]int, hi-lo+1)
	for k := lo; k <= hi; k++ {
		index[k] = k - lo
	}
	return index
}
