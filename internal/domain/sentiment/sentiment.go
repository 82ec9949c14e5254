// Package sentiment maps free-text progress check-ins onto a sentiment label.
//
// The classifier prefers the external text capability when one is configured
// and falls back to a fixed keyword lexicon otherwise. The fallback is
// deterministic and never errors for non-empty input.
package sentiment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hrforge/talentd/internal/ai"
	"github.com/hrforge/talentd/pkg/logger"
)

// Default classifier configuration constants.
const (
	defaultCapabilityTimeout = 5 * time.Second

	// Confidence reported when the fallback finds no lexicon hits.
	neutralConfidence = 0.5
)

// Label is the normalized sentiment vocabulary.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
)

// Result is the classification of one message.
type Result struct {
	Label      Label
	Confidence float64
}

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithCapability sets the optional text-classification capability.
func WithCapability(capability ai.Capability) Option {
	return func(c *Classifier) {
		c.capability = capability
	}
}

// WithCapabilityTimeout bounds each capability call.
func WithCapabilityTimeout(timeout time.Duration) Option {
	return func(c *Classifier) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLexicon replaces the fallback lexicon.
func WithLexicon(lexicon Lexicon) Option {
	return func(c *Classifier) {
		if len(lexicon.Positive) > 0 || len(lexicon.Negative) > 0 {
			c.lexicon = lexicon
		}
	}
}

// WithLogger sets a custom logger for capability failures.
func WithLogger(log logger.Logger) Option {
	return func(c *Classifier) {
		if log != nil {
			c.log = log
		}
	}
}

// Classifier assigns sentiment labels. Stateless and safe for concurrent use.
type Classifier struct {
	capability ai.Capability
	timeout    time.Duration
	lexicon    Lexicon
	log        logger.Logger
}

// NewClassifier creates a classifier with configuration options.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		timeout: defaultCapabilityTimeout,
		lexicon: DefaultLexicon(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify labels the text. Fails with ErrEmptyInput on blank input; any
// capability failure is absorbed into the keyword fallback.
func (c *Classifier) Classify(ctx context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, fmt.Errorf("%w: check-in text is blank", ErrEmptyInput)
	}

	if c.capability != nil {
		result, err := c.classifyExternal(ctx, text)
		if err == nil {
			return result, nil
		}
		if c.log != nil {
			c.log.Warn(ctx, "sentiment classification fell back to lexicon", logger.Error(err))
		}
	}

	return c.classifyLexicon(text), nil
}

func (c *Classifier) classifyExternal(ctx context.Context, text string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	classification, err := c.capability.ClassifyText(ctx, text)
	if err != nil {
		return Result{}, err
	}

	label, ok := mapVocabulary(classification.Label)
	if !ok {
		return Result{}, fmt.Errorf("%w: unknown label %q", ai.ErrUnavailable, classification.Label)
	}

	confidence := classification.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return Result{Label: label, Confidence: confidence}, nil
}

// mapVocabulary folds provider label vocabularies into the local one.
// "concerning" is the historical vocabulary for negative check-ins.
func mapVocabulary(raw string) (Label, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "positive", "pos", "good":
		return LabelPositive, true
	case "negative", "neg", "bad", "concerning":
		return LabelNegative, true
	case "neutral", "mixed":
		return LabelNeutral, true
	default:
		return "", false
	}
}

// classifyLexicon counts positive and negative keyword hits and labels by
// majority. Confidence is majority/(total+1); ties including zero hits are
// Neutral, with 0.5 confidence when nothing matched at all.
func (c *Classifier) classifyLexicon(text string) Result {
	positive, negative := 0, 0
	for _, token := range tokenize(text) {
		if c.lexicon.positive[token] {
			positive++
		}
		if c.lexicon.negative[token] {
			negative++
		}
	}

	total := positive + negative
	switch {
	case total == 0:
		return Result{Label: LabelNeutral, Confidence: neutralConfidence}
	case positive > negative:
		return Result{Label: LabelPositive, Confidence: float64(positive) / float64(total+1)}
	case negative > positive:
		return Result{Label: LabelNegative, Confidence: float64(negative) / float64(total+1)}
	default:
		return Result{Label: LabelNeutral, Confidence: float64(positive) / float64(total+1)}
	}
}

// tokenize lowercases the text and splits on anything that is not a letter
// or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && !(r >= 'à' && r <= 'ÿ')
	})
}
