package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hrforge/talentd/internal/ai"
	"github.com/hrforge/talentd/pkg/logger"
)

// Default insight configuration constants.
const (
	defaultCapabilityTimeout = 5 * time.Second
)

// recommendationSentences are the deterministic closing lines of the fallback
// narrative, keyed by recommendation band.
var recommendationSentences = map[Recommendation]string{
	RecommendPromote: "Exceptional performance across all criteria; ready for expanded responsibilities.",
	RecommendRetain:  "Strong performer with good growth potential.",
	RecommendImprove: "Meets expectations but needs development in key areas; an improvement plan is advised.",
	RecommendReplace: "Performance below expectations despite support; consider a role adjustment.",
}

// InsightOption applies a configuration option to the Insighter.
type InsightOption func(*Insighter)

// WithCapability sets the optional text-generation capability. Absence means
// the deterministic template is always used.
func WithCapability(capability ai.Capability) InsightOption {
	return func(i *Insighter) {
		i.capability = capability
	}
}

// WithCapabilityTimeout bounds each capability call.
func WithCapabilityTimeout(timeout time.Duration) InsightOption {
	return func(i *Insighter) {
		if timeout > 0 {
			i.timeout = timeout
		}
	}
}

// WithLogger sets a custom logger for capability failures.
func WithLogger(log logger.Logger) InsightOption {
	return func(i *Insighter) {
		if log != nil {
			i.log = log
		}
	}
}

// Insighter produces a short narrative summary for a submitted evaluation.
// It never changes workflow state and never fails: a capability error is
// logged and absorbed into the deterministic template.
type Insighter struct {
	capability ai.Capability
	timeout    time.Duration
	log        logger.Logger
}

// NewInsighter creates an Insighter with configuration options.
func NewInsighter(opts ...InsightOption) *Insighter {
	i := &Insighter{
		timeout: defaultCapabilityTimeout,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Generate returns the narrative for an evaluation. Callable any time after
// Submit; returns ErrInvalidTransition for a Draft record, since the weighted
// average does not exist yet.
func (i *Insighter) Generate(ctx context.Context, e *Evaluation) (string, error) {
	if e.State == StateDraft {
		return "", fmt.Errorf("%w: insight requires a submitted record", ErrInvalidTransition)
	}

	narrative := i.fallbackNarrative(e)

	if i.capability == nil {
		return narrative, nil
	}

	generated, err := i.generated(ctx, e)
	if err != nil {
		if i.log != nil {
			i.log.Warn(ctx, "insight generation fell back to template",
				logger.String("evaluation", e.ID),
				logger.Error(err),
			)
		}
		return narrative, nil
	}

	return narrative + " " + generated, nil
}

func (i *Insighter) generated(ctx context.Context, e *Evaluation) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"Write one or two sentences of performance feedback for an employee whose weighted evaluation score is %.2f/10, strongest in %s (%.1f) and weakest in %s (%.1f). Plain text only.",
		e.WeightedAverage,
		e.Scores.Highest().Name, e.Scores.Highest().Value,
		e.Scores.Lowest().Name, e.Scores.Lowest().Value,
	)

	text, err := i.capability.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty generated summary", ai.ErrUnavailable)
	}
	return text, nil
}

// fallbackNarrative is the deterministic templated sentence. Ties on the
// extreme criteria resolve to the lexicographically first name, so repeated
// calls yield byte-identical output.
func (i *Insighter) fallbackNarrative(e *Evaluation) string {
	high := e.Scores.Highest()
	low := e.Scores.Lowest()
	return fmt.Sprintf(
		"Overall weighted score %.2f/10. Strongest criterion: %s (%.1f). Weakest criterion: %s (%.1f). %s",
		e.WeightedAverage,
		high.Name, high.Value,
		low.Name, low.Value,
		recommendationSentences[e.Recommendation],
	)
}
