// Package scoreset computes weighted composite scores from named criteria.
package scoreset

import (
	"fmt"
	"math"
	"sort"
)

// Scoring scale and validation bounds.
const (
	MinValue = 1.0
	MaxValue = 10.0

	minWeight = 0.0
	maxWeight = 1.0

	// Weight sums within this distance of 1.0 are accepted.
	weightSumTolerance = 0.01
)

// ScoreSet maps criterion names to values on the [1,10] scale and to their
// weights. The weight key set must match the value key set exactly, and the
// weights must sum to 1.0 within tolerance.
type ScoreSet struct {
	values  map[string]float64
	weights map[string]float64
}

// Criterion pairs a name with its value, used for reporting extremes.
type Criterion struct {
	Name  string
	Value float64
}

// New validates and constructs a ScoreSet. The maps are copied, so later
// mutation of the arguments does not affect the set.
func New(values, weights map[string]float64) (ScoreSet, error) {
	if len(values) == 0 {
		return ScoreSet{}, fmt.Errorf("%w: no criteria provided", ErrInvalidScoreSet)
	}
	if len(values) != len(weights) {
		return ScoreSet{}, fmt.Errorf("%w: %d values for %d weights", ErrInvalidScoreSet, len(values), len(weights))
	}

	sum := 0.0
	for name, w := range weights {
		if _, ok := values[name]; !ok {
			return ScoreSet{}, fmt.Errorf("%w: criterion %q has a weight but no value", ErrInvalidScoreSet, name)
		}
		if w < minWeight || w > maxWeight {
			return ScoreSet{}, fmt.Errorf("%w: weight for %q is %v, must be in [0,1]", ErrInvalidScoreSet, name, w)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return ScoreSet{}, fmt.Errorf("%w: weights sum to %v, must be 1.0 within %v", ErrInvalidScoreSet, sum, weightSumTolerance)
	}
	for name, v := range values {
		if _, ok := weights[name]; !ok {
			return ScoreSet{}, fmt.Errorf("%w: criterion %q has a value but no weight", ErrInvalidScoreSet, name)
		}
		if v < MinValue || v > MaxValue {
			return ScoreSet{}, fmt.Errorf("%w: value for %q is %v, must be in [1,10]", ErrInvalidScoreSet, name, v)
		}
	}

	s := ScoreSet{
		values:  make(map[string]float64, len(values)),
		weights: make(map[string]float64, len(weights)),
	}
	for name, v := range values {
		s.values[name] = v
	}
	for name, w := range weights {
		s.weights[name] = w
	}
	return s, nil
}

// WeightedAverage returns the weighted composite score in [1,10].
func (s ScoreSet) WeightedAverage() float64 {
	total := 0.0
	for name, v := range s.values {
		total += v * s.weights[name]
	}
	return total
}

// Criteria returns the criterion names in lexicographic order.
func (s ScoreSet) Criteria() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value returns the score recorded for a criterion, and whether it exists.
func (s ScoreSet) Value(name string) (float64, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Len returns the number of criteria in the set.
func (s ScoreSet) Len() int {
	return len(s.values)
}

// Highest returns the highest-scoring criterion. When several criteria share
// the maximum value the lexicographically first name wins, so reports built
// from a ScoreSet are deterministic.
func (s ScoreSet) Highest() Criterion {
	return s.extreme(func(candidate, current float64) bool { return candidate > current })
}

// Lowest returns the lowest-scoring criterion with the same tie-break rule as
// Highest.
func (s ScoreSet) Lowest() Criterion {
	return s.extreme(func(candidate, current float64) bool { return candidate < current })
}

func (s ScoreSet) extreme(better func(candidate, current float64) bool) Criterion {
	var best Criterion
	for _, name := range s.Criteria() {
		v := s.values[name]
		if best.Name == "" || better(v, best.Value) {
			best = Criterion{Name: name, Value: v}
		}
	}
	return best
}
