package ml

import (
	"github.com/montanaflynn/stats"

	"github.com/tphakala/trapstats/internal/errors"
)

// Forecast defaults
const (
	DefaultForecastSteps  = 7
	DefaultForecastWindow = 5

	// confidenceZ is the two-sided 95% normal quantile
	confidenceZ = 1.96
)

// ForecastResult holds point forecasts and their 95% half-widths
type ForecastResult struct {
	Forecast   []float64 `json:"forecast" yaml:"forecast"`
	Confidence []float64 `json:"confidence" yaml:"confidence"`
}

// Lower returns the lower confidence bound of step i
func (r ForecastResult) Lower(i int) float64 { return r.Forecast[i] - r.Confidence[i] }

// Upper returns the upper confidence bound of step i
func (r ForecastResult) Upper(i int) float64 { return r.Forecast[i] + r.Confidence[i] }

// Forecast extends history by steps moving-average points. Each step averages
// the trailing window values of the working series, records 1.96 times their
// population standard deviation as the confidence half-width, then appends
// the average to the series. Later steps therefore average over earlier
// forecasts and the band narrows as the window fills with them.
//
// When history is shorter than window the whole history is used.
func Forecast(history []float64, steps, window int) (ForecastResult, error) {
	if len(history) == 0 {
		return ForecastResult{}, errors.InvalidInput(componentName, "forecast history is empty")
	}
	if steps < 0 {
		return ForecastResult{}, errors.InvalidParameter(componentName, "steps", steps, "steps must be non-negative")
	}
	if window < 1 {
		return ForecastResult{}, errors.InvalidParameter(componentName, "window", window, "window must be at least 1")
	}

	series := make([]float64, len(history), len(history)+steps)
	copy(series, history)

	result := ForecastResult{
		Forecast:   make([]float64, 0, steps),
		Confidence: make([]float64, 0, steps),
	}

	for range steps {
		tail := stats.Float64Data(series[max(0, len(series)-window):])
		mean, err := stats.Mean(tail)
		if err != nil {
			return ForecastResult{}, errors.New(err).Component(componentName).Build()
		}
		sd, err := stats.StandardDeviationPopulation(tail)
		if err != nil {
			return ForecastResult{}, errors.New(err).Component(componentName).Build()
		}

		result.Forecast = append(result.Forecast, mean)
		result.Confidence = append(result.Confidence, confidenceZ*sd)
		series = append(series, mean)
	}

	return result, nil
}
