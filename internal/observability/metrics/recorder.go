// Package metrics provides custom Prometheus metrics for the fretboard service.
package metrics

// Recorder defines a minimal interface for recording metrics.
// Components depend on it instead of a concrete collector so tests can
// pass nil or a fake.
type Recorder interface {
	// RecordOperation records an operation with its status ("success", "error").
	RecordOperation(operation, status string)

	// RecordDuration records the duration of an operation in seconds.
	RecordDuration(operation string, seconds float64)

	// RecordError records an error occurrence with its type.
	RecordError(operation, errorType string)
}
