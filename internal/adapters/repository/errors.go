package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrEventNotFound  = errors.New("event not found")
	ErrDuplicateEvent = errors.New("duplicate event id")
)
