// Package risk estimates turnover risk from evaluation history and tenure.
package risk

import (
	"fmt"
	"math"
	"time"

	"github.com/hrforge/talentd/internal/domain/scoreset"
)

// Default risk configuration constants. The trend/tenure weights are fixed;
// the tenure saturation threshold is configurable.
const (
	trendWeight  = 0.6
	tenureWeight = 0.4

	defaultTenureThreshold = 5 * 365 * 24 * time.Hour // risk saturates to zero beyond five years

	// Largest possible swing between two averages on the [1,10] scale.
	maxTrendDelta = scoreset.MaxValue - scoreset.MinValue

	lowBandLimit    = 30.0
	mediumBandLimit = 70.0

	minHistoryPoints = 2
)

// Band is the discrete risk class derived from the 0-100 score.
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// History is an employee's evaluation record feed: weighted averages in
// chronological order plus tenure.
type History struct {
	Scores []float64
	Tenure time.Duration
}

// Result is the computed turnover risk.
type Result struct {
	Score float64
	Band  Band

	// Term breakdown on the 0-100 risk scale, for reporting.
	TrendRisk  float64
	TenureRisk float64
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithTenureThreshold sets the tenure beyond which the tenure term saturates
// to zero risk.
func WithTenureThreshold(threshold time.Duration) Option {
	return func(s *Scorer) {
		if threshold > 0 {
			s.tenureThreshold = threshold
		}
	}
}

// Scorer computes turnover risk. Stateless and safe for concurrent use.
type Scorer struct {
	tenureThreshold time.Duration
}

// NewScorer creates a risk scorer with configuration options.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		tenureThreshold: defaultTenureThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the 0-100 turnover risk for a history. Fails with
// ErrInsufficientHistory when fewer than two evaluation points exist, so the
// caller can surface "not enough data" instead of a guess.
func (s *Scorer) Score(h History) (Result, error) {
	if len(h.Scores) < minHistoryPoints {
		return Result{}, fmt.Errorf("%w: %d evaluation points, need at least %d",
			ErrInsufficientHistory, len(h.Scores), minHistoryPoints)
	}

	trendRisk := trendRisk(h.Scores)
	tenureRisk := s.tenureRisk(h.Tenure)

	// Combine the two terms through a weighted score set on the [1,10]
	// scale, then rescale back to 0-100.
	set, err := scoreset.New(
		map[string]float64{
			"trend":  riskToScore(trendRisk),
			"tenure": riskToScore(tenureRisk),
		},
		map[string]float64{
			"trend":  trendWeight,
			"tenure": tenureWeight,
		},
	)
	if err != nil {
		return Result{}, err
	}
	score := scoreToRisk(set.WeightedAverage())

	return Result{
		Score:      score,
		Band:       bandFor(score),
		TrendRisk:  trendRisk,
		TenureRisk: tenureRisk,
	}, nil
}

// trendRisk compares the average of the most recent third of scores with the
// average of the earliest third. A flat trend sits at 50; the steepest
// possible decline saturates at 100, the steepest improvement at 0.
func trendRisk(scores []float64) float64 {
	third := len(scores) / 3
	if third < 1 {
		third = 1
	}

	early := mean(scores[:third])
	recent := mean(scores[len(scores)-third:])
	delta := recent - early

	return clamp(50-(delta/maxTrendDelta)*50, 0, 100)
}

// tenureRisk decreases linearly with tenure and saturates to zero at the
// threshold.
func (s *Scorer) tenureRisk(tenure time.Duration) float64 {
	if tenure <= 0 {
		return 100
	}
	ratio := float64(tenure) / float64(s.tenureThreshold)
	return clamp(100*(1-ratio), 0, 100)
}

// Trend classifies the recent score direction using the latest-vs-previous
// rule: a move of more than half a point either way breaks "stable".
func Trend(scores []float64) TrendLabel {
	if len(scores) < 2 {
		return TrendStable
	}
	latest := scores[len(scores)-1]
	previous := scores[len(scores)-2]
	switch {
	case latest > previous+trendStep:
		return TrendImproving
	case latest < previous-trendStep:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// TrendLabel is the coarse direction of recent evaluations.
type TrendLabel string

const (
	TrendImproving TrendLabel = "improving"
	TrendStable    TrendLabel = "stable"
	TrendDeclining TrendLabel = "declining"
)

const trendStep = 0.5

func bandFor(score float64) Band {
	switch {
	case score < lowBandLimit:
		return BandLow
	case score < mediumBandLimit:
		return BandMedium
	default:
		return BandHigh
	}
}

// riskToScore maps a 0-100 risk term onto the [1,10] scoring scale.
func riskToScore(risk float64) float64 {
	return scoreset.MinValue + (risk/100)*(scoreset.MaxValue-scoreset.MinValue)
}

// scoreToRisk maps a [1,10] weighted average back onto 0-100.
func scoreToRisk(score float64) float64 {
	return (score - scoreset.MinValue) / (scoreset.MaxValue - scoreset.MinValue) * 100
}

func mean(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
