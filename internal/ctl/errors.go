package ctl

import "errors"

var (
	// ErrStatus is returned when the service answers with an unexpected status.
	ErrStatus = errors.New("unexpected status")
	// ErrVerification is returned when the demo observes inconsistent state.
	ErrVerification = errors.New("verification failed")
	// ErrUsage is returned for missing or conflicting command arguments.
	ErrUsage = errors.New("usage")
)
