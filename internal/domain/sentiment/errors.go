package sentiment

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrEmptyInput = errors.New("empty check-in text")
)
