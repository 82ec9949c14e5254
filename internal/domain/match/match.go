// Package match scores candidate fit against role requirements.
package match

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hrforge/talentd/internal/ai"
	"github.com/hrforge/talentd/internal/domain/scoreset"
	"github.com/hrforge/talentd/pkg/logger"
)

// Default scoring configuration constants. The weights are inferred defaults,
// configurable via options.
const (
	defaultOverlapWeight    = 0.7
	defaultSimilarityWeight = 0.3

	defaultCapabilityTimeout = 5 * time.Second

	strongThreshold   = 80
	moderateThreshold = 60
	weakThreshold     = 30
)

// Recommendation is the discrete fit band derived from the percentage.
type Recommendation string

const (
	RecommendStrong   Recommendation = "strong"
	RecommendModerate Recommendation = "moderate"
	RecommendWeak     Recommendation = "weak"
	RecommendNoMatch  Recommendation = "no_match"
)

// Candidate describes the skills and interests of an applicant. An empty
// candidate is valid and scores 0%.
type Candidate struct {
	Skills    []string
	Interests string
}

// Role describes what an opening requires.
type Role struct {
	RequiredSkills []string
	Description    string
}

// Result is the fit computed for one candidate/role pair. It is ephemeral:
// computed on demand and never retained by the scorer.
type Result struct {
	Percent        int
	Recommendation Recommendation
	Matched        []string
	Missing        []string
	Overlap        float64
	Similarity     float64
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithCapability sets the optional semantic-similarity capability.
func WithCapability(capability ai.Capability) Option {
	return func(s *Scorer) {
		s.capability = capability
	}
}

// WithWeights overrides the overlap/similarity mix. Ignored unless both
// weights are non-negative and sum to 1.0.
func WithWeights(overlap, similarity float64) Option {
	return func(s *Scorer) {
		if overlap >= 0 && similarity >= 0 && math.Abs(overlap+similarity-1.0) < 1e-9 {
			s.overlapWeight = overlap
			s.similarityWeight = similarity
		}
	}
}

// WithCapabilityTimeout bounds each capability call.
func WithCapabilityTimeout(timeout time.Duration) Option {
	return func(s *Scorer) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithLogger sets a custom logger for capability failures.
func WithLogger(log logger.Logger) Option {
	return func(s *Scorer) {
		if log != nil {
			s.log = log
		}
	}
}

// Scorer computes fit percentages. Stateless and safe for concurrent use.
type Scorer struct {
	capability       ai.Capability
	overlapWeight    float64
	similarityWeight float64
	timeout          time.Duration
	log              logger.Logger
}

// NewScorer creates a match scorer with configuration options.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		overlapWeight:    defaultOverlapWeight,
		similarityWeight: defaultSimilarityWeight,
		timeout:          defaultCapabilityTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the fit between a candidate and a role. Fails with
// ErrInvalidInput only when role is nil; an empty candidate yields 0%.
func (s *Scorer) Score(ctx context.Context, candidate Candidate, role *Role) (Result, error) {
	if role == nil {
		return Result{}, fmt.Errorf("%w: role requirement is required", ErrInvalidInput)
	}

	required := normalizeTokens(role.RequiredSkills)
	if len(required) == 0 {
		return Result{Recommendation: RecommendNoMatch}, nil
	}
	skills := normalizeTokens(candidate.Skills)

	matched := make([]string, 0, len(required))
	missing := make([]string, 0, len(required))
	skillSet := make(map[string]struct{}, len(skills))
	for _, t := range skills {
		skillSet[t] = struct{}{}
	}
	for _, t := range required {
		if _, ok := skillSet[t]; ok {
			matched = append(matched, t)
		} else {
			missing = append(missing, t)
		}
	}

	overlap := float64(len(matched)) / float64(len(required))

	// Degrade gracefully: without a capability the secondary term simply
	// mirrors the overlap ratio.
	similarity := overlap
	if s.capability != nil {
		if sim, err := s.semanticSimilarity(ctx, candidate.Interests, role.Description); err == nil {
			similarity = sim
		} else if s.log != nil {
			s.log.Warn(ctx, "semantic similarity fell back to overlap ratio", logger.Error(err))
		}
	}

	percent, err := s.combine(overlap, similarity)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Percent:        percent,
		Recommendation: recommendationFor(percent),
		Matched:        matched,
		Missing:        missing,
		Overlap:        overlap,
		Similarity:     similarity,
	}, nil
}

// combine mixes the two ratios through a weighted score set on the [1,10]
// scale and rescales to a 0-100 percentage.
func (s *Scorer) combine(overlap, similarity float64) (int, error) {
	set, err := scoreset.New(
		map[string]float64{
			"skill_overlap":       scaleToScore(overlap),
			"semantic_similarity": scaleToScore(similarity),
		},
		map[string]float64{
			"skill_overlap":       s.overlapWeight,
			"semantic_similarity": s.similarityWeight,
		},
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	avg := set.WeightedAverage()
	return int(math.Round(scoreToPercent(avg))), nil
}

func (s *Scorer) semanticSimilarity(ctx context.Context, interests, description string) (float64, error) {
	interests = strings.TrimSpace(interests)
	description = strings.TrimSpace(description)
	if interests == "" || description == "" {
		return 0, fmt.Errorf("%w: no text to compare", ai.ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"Rate the semantic similarity between these two texts on a 0.0-1.0 scale. Reply with the number only.\n\nText A:\n%s\n\nText B:\n%s",
		interests, description,
	)
	raw, err := s.capability.GenerateText(ctx, prompt)
	if err != nil {
		return 0, err
	}

	sim, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unparseable similarity %q", ai.ErrUnavailable, raw)
	}
	return clamp01(sim), nil
}

func recommendationFor(percent int) Recommendation {
	switch {
	case percent >= strongThreshold:
		return RecommendStrong
	case percent >= moderateThreshold:
		return RecommendModerate
	case percent >= weakThreshold:
		return RecommendWeak
	default:
		return RecommendNoMatch
	}
}

// normalizeTokens lowercases, trims, deduplicates, and sorts skill tokens.
func normalizeTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// scaleToScore maps a [0,1] ratio onto the [1,10] scoring scale.
func scaleToScore(ratio float64) float64 {
	return scoreset.MinValue + clamp01(ratio)*(scoreset.MaxValue-scoreset.MinValue)
}

// scoreToPercent maps a [1,10] weighted average back onto [0,100].
func scoreToPercent(score float64) float64 {
	return (score - scoreset.MinValue) / (scoreset.MaxValue - scoreset.MinValue) * 100
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
