package model

import "errors"

// Sentinel error kinds for domain validation.
var (
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	ErrInvalidEvent      = errors.New("invalid event")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrUnknownEventType  = errors.New("unknown event type")
	ErrUnknownDataKind   = errors.New("unknown data kind")
)
