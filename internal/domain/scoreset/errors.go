package scoreset

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidScoreSet = errors.New("invalid score set")
)
