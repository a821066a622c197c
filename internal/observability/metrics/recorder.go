// Package metrics provides custom Prometheus metrics for trapstats runs.
package metrics

// Recorder defines a minimal interface for recording metrics.
// Pipeline stages depend on this rather than on concrete collectors so they
// can run with metrics disabled.
type Recorder interface {
	// RecordOperation records a pipeline stage with its outcome.
	// The operation parameter is one of the Op constants, status is
	// StatusSuccess or StatusError.
	RecordOperation(operation, status string)

	// RecordDuration records how long a stage took in seconds.
	RecordDuration(operation string, seconds float64)

	// RecordError records a failure with the error category.
	RecordError(operation, errorType string)
}

// NoOpRecorder discards everything. It is used when metrics are off.
type NoOpRecorder struct{}

// RecordOperation does nothing.
func (NoOpRecorder) RecordOperation(operation, status string) {}

// RecordDuration does nothing.
func (NoOpRecorder) RecordDuration(operation string, seconds float64) {}

// RecordError does nothing.
func (NoOpRecorder) RecordError(operation, errorType string) {}
