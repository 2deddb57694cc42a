package summary

import "errors"

// ErrClient reports that the generator client could not be created.
var ErrClient = errors.New("summary client")
