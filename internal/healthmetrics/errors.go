package healthmetrics

import "errors"

var (
	// ErrUnknownMetric is returned when a metric id is not tracked.
	ErrUnknownMetric = errors.New("health metric not found")

	// ErrDuplicateMetric is returned when a custom metric reuses a tracked name.
	ErrDuplicateMetric = errors.New("health metric already tracked")

	// ErrInvalidInput wraps validation failures for scores, names and feedback.
	ErrInvalidInput = errors.New("invalid health input")
)
