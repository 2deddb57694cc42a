package service

import "errors"

// ErrStart reports that the service could not load its initial state.
var ErrStart = errors.New("start service")
