package ai

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrUnavailable marks any capability failure. It never crosses the API
	// boundary: consumers absorb it into their fallback path.
	ErrUnavailable = errors.New("text capability unavailable")
)
