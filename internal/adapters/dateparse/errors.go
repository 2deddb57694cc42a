package dateparse

import "errors"

var (
	// ErrEmptyDate is returned for blank input.
	ErrEmptyDate = errors.New("date is required")
	// ErrUnrecognizedDate is returned when no rule understands the input.
	ErrUnrecognizedDate = errors.New("unrecognized date")
)
