package therapies

import "errors"

var (
	// ErrTherapyNotFound is returned when an id is not in the catalog
	ErrTherapyNotFound = errors.New("therapy not found")
)
