package ai

import (
	"context"
	"strings"
)

// Stub is a deterministic in-process Capability used in tests and offline
// deployments. Responses are fixed functions of the input, never errors.
type Stub struct {
	// Label and Confidence are returned by ClassifyText when set; otherwise
	// a simple length-based default applies.
	Label      string
	Confidence float64

	// Reply is returned by GenerateText when set; otherwise the prompt's
	// first line is echoed back.
	Reply string
}

var _ Capability = (*Stub)(nil)

// ClassifyText returns the configured classification.
func (s *Stub) ClassifyText(_ context.Context, text string) (Classification, error) {
	if s.Label != "" {
		return Classification{Label: s.Label, Confidence: s.Confidence}, nil
	}
	return Classification{Label: "neutral", Confidence: 0.5}, nil
}

// GenerateText returns the configured reply or echoes the first prompt line.
func (s *Stub) GenerateText(_ context.Context, prompt string) (string, error) {
	if s.Reply != "" {
		return s.Reply, nil
	}
	line, _, _ := strings.Cut(strings.TrimSpace(prompt), "\n")
	return line, nil
}
