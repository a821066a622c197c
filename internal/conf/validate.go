// conf/validate.go

package conf

import (
	"fmt"
	"time"

	"github.com/tphakala/trapstats/internal/errors"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ErrorCategory lets the errors package classify validation failures
func (ve ValidationError) ErrorCategory() errors.ErrorCategory {
	return errors.CategoryConfiguration
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateStationSettings(&settings.Station); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	for _, err := range validateAnalysisSettings(&settings.Analysis) {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateTelemetrySettings(&settings.Telemetry); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}

	return nil
}

// validateStationSettings validates the station location
func validateStationSettings(settings *StationSettings) error {
	if settings.Latitude < -90 || settings.Latitude > 90 {
		return fmt.Errorf("station latitude must be between -90 and 90, got %v", settings.Latitude)
	}
	if settings.Longitude < -180 || settings.Longitude > 180 {
		return fmt.Errorf("station longitude must be between -180 and 180, got %v", settings.Longitude)
	}
	if settings.Timezone != "" {
		if _, err := time.LoadLocation(settings.Timezone); err != nil {
			return fmt.Errorf("invalid station timezone %q: %w", settings.Timezone, err)
		}
	}
	return nil
}

// validateAnalysisSettings collects every out of range analysis parameter
func validateAnalysisSettings(settings *AnalysisSettings) []error {
	var errs []error

	if settings.RareThreshold < 0 {
		errs = append(errs, fmt.Errorf("analysis.rare_threshold must be non-negative, got %d", settings.RareThreshold))
	}
	if settings.CommonThreshold < settings.RareThreshold {
		errs = append(errs, fmt.Errorf("analysis.common_threshold (%d) must not be below rare_threshold (%d)",
			settings.CommonThreshold, settings.RareThreshold))
	}
	if settings.PCA.Components < 1 {
		errs = append(errs, fmt.Errorf("analysis.pca.components must be at least 1, got %d", settings.PCA.Components))
	}
	if settings.KMeans.K < 1 {
		errs = append(errs, fmt.Errorf("analysis.kmeans.k must be at least 1, got %d", settings.KMeans.K))
	}
	if settings.KMeans.MaxIterations < 1 {
		errs = append(errs, fmt.Errorf("analysis.kmeans.max_iterations must be at least 1, got %d", settings.KMeans.MaxIterations))
	}
	if settings.Anomaly.Threshold <= 0 {
		errs = append(errs, fmt.Errorf("analysis.anomaly.threshold must be positive, got %v", settings.Anomaly.Threshold))
	}
	if settings.Forecast.Steps < 0 {
		errs = append(errs, fmt.Errorf("analysis.forecast.steps must be non-negative, got %d", settings.Forecast.Steps))
	}
	if settings.Forecast.Window < 1 {
		errs = append(errs, fmt.Errorf("analysis.forecast.window must be at least 1, got %d", settings.Forecast.Window))
	}

	return errs
}

// validateTelemetrySettings requires a DSN when telemetry is on
func validateTelemetrySettings(settings *TelemetrySettings) error {
	if settings.Enabled && settings.DSN == "" {
		return fmt.Errorf("telemetry.dsn is required when telemetry is enabled")
	}
	return nil
}
