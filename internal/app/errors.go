package service

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrNotStarted is returned when an operation needs a running service.
	ErrNotStarted = errors.New("service not started")

	// ErrInvalidCheckin flags a check-in that fails intake validation.
	ErrInvalidCheckin = errors.New("invalid check-in")

	// ErrDuplicateCheckin flags a message ID that was already accepted.
	ErrDuplicateCheckin = errors.New("duplicate check-in")

	// ErrBacklogFull signals intake backpressure; the caller may retry later.
	ErrBacklogFull = errors.New("check-in backlog full")
)
