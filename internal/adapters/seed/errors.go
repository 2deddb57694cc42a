package seed

import "errors"

// ErrInvalidDirectory reports a school directory that cannot be used.
var ErrInvalidDirectory = errors.New("invalid school directory")
