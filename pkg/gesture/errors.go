package gesture

import "errors"

var (
	// ErrNotFound is returned when a gesture is not found.
	ErrNotFound = errors.New("gesture not found")
)
