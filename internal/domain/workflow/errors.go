package workflow

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidTransition = errors.New("invalid workflow transition")
	ErrMissingReason     = errors.New("missing rejection reason")
)
