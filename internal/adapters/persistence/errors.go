package persistence

import "errors"

// Sentinel kinds for persistence errors.
var (
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrEmptyPath     = errors.New("storage path is required")
	ErrCorrupt       = errors.New("stored snapshot is corrupt")
	ErrClosed        = errors.New("backend closed")
)
