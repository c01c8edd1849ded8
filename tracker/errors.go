package tracker

import "errors"

var (
	// ErrNotFound is returned when a nickname, channel or key is not
	// currently known by the tracker.
	ErrNotFound = errors.New("not found")

	// ErrInvalidValue is returned for unsupported fields or reference types.
	ErrInvalidValue = errors.New("invalid value")
)
