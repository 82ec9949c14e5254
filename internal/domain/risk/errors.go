package risk

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInsufficientHistory = errors.New("insufficient evaluation history")
)
