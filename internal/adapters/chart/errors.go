package chart

import "errors"

// ErrRender wraps go-chart rendering failures.
var ErrRender = errors.New("render chart")
