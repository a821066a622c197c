package analysis

import (
	"time"

	"github.com/tphakala/trapstats/internal/analysis/biodiversity"
	"github.com/tphakala/trapstats/internal/analysis/ml"
	"github.com/tphakala/trapstats/internal/conf"
	"github.com/tphakala/trapstats/internal/errors"
	"github.com/tphakala/trapstats/internal/loader"
	"github.com/tphakala/trapstats/internal/suncalc"
)

// Options controls one pipeline run
type Options struct {
	Source   loader.Source
	Input    string // GeoJSON export path, unused for mock data
	MockSeed int64

	RareBelow   int
	CommonAbove int

	PCAComponents int
	PCA           ml.PCAOptions

	Clusters int
	KMeans   ml.KMeansOptions

	AnomalyThreshold float64

	ForecastSteps  int
	ForecastWindow int

	// Location and SunCalc classify night for GeoJSON items without an
	// isnight flag. Both may be nil.
	Location *time.Location
	SunCalc  *suncalc.SunCalc
}

// DefaultOptions runs on the mock dataset with the stock thresholds
func DefaultOptions() Options {
	return Options{
		Source:           loader.SourceMock,
		MockSeed:         loader.DefaultMockSeed,
		RareBelow:        biodiversity.DefaultRareBelow,
		CommonAbove:      biodiversity.DefaultCommonAbove,
		PCAComponents:    2,
		PCA:              ml.DefaultPCAOptions(),
		Clusters:         3,
		KMeans:           ml.KMeansOptions{Seed: loader.DefaultMockSeed, MaxIterations: ml.DefaultMaxIterations},
		AnomalyThreshold: ml.DefaultAnomalyThreshold,
		ForecastSteps:    ml.DefaultForecastSteps,
		ForecastWindow:   ml.DefaultForecastWindow,
	}
}

// OptionsFromSettings maps loaded settings onto Options. When a station
// location is configured a SunCalc for it is attached.
func OptionsFromSettings(settings *conf.Settings) (Options, error) {
	opts := DefaultOptions()
	if settings == nil {
		return opts, nil
	}

	a := settings.Analysis
	opts.MockSeed = settings.Mock.Seed
	opts.RareBelow = a.RareThreshold
	opts.CommonAbove = a.CommonThreshold
	opts.PCAComponents = a.PCA.Components
	opts.PCA = ml.PCAOptions{Scale: a.PCA.Scale}
	opts.Clusters = a.KMeans.K
	opts.KMeans = ml.KMeansOptions{Seed: a.KMeans.Seed, MaxIterations: a.KMeans.MaxIterations}
	opts.AnomalyThreshold = a.Anomaly.Threshold
	opts.ForecastSteps = a.Forecast.Steps
	opts.ForecastWindow = a.Forecast.Window

	if tz := settings.Station.Timezone; tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return Options{}, errors.New(err).
				Component(componentName).
				Category(errors.CategoryConfiguration).
				Context("timezone", tz).
				Build()
		}
		opts.Location = loc
	}
	if settings.Station.HasLocation() {
		opts.SunCalc = suncalc.NewSunCalc(settings.Station.Latitude, settings.Station.Longitude, opts.Location)
	}

	return opts, nil
}
