// Package ai defines the contract for the optional external text capability.
//
// The engine never requires connectivity: every consumer of a Capability has
// a deterministic local fallback and treats any error from these calls as
// "capability unavailable".
package ai

import "context"

// Classification is the label/confidence pair returned by ClassifyText.
// The label vocabulary is provider-specific; callers map it into their own
// domain labels.
type Classification struct {
	Label      string
	Confidence float64
}

// Capability is the narrow contract for an external language service.
// Implementations must honor ctx cancellation; callers bound every call with
// a timeout.
type Capability interface {
	// ClassifyText assigns a sentiment-style label to free text.
	ClassifyText(ctx context.Context, text string) (Classification, error)

	// GenerateText produces free text for a prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)
}
