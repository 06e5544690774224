package dispatch

import "errors"

// Sentinel kinds for dispatch errors.
var (
	ErrEmptyResponse = errors.New("handler produced no response")
	ErrNoRoute       = errors.New("route has no matcher or handler")
)
