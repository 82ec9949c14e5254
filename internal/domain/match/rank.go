package match

import (
	"context"
	"math"
	"sort"
)

// Success-probability weighting, carried over from the historical matching
// engine. The result is clamped to [0.10, 0.95].
const (
	performanceWeight  = 0.3
	matchQualityWeight = 0.4

	consistencyBonus   = 0.2
	consistencyDefault = 0.1

	supervisorBonus   = 0.15
	supervisorDefault = 0.05

	minProbability = 0.10
	maxProbability = 0.95
)

// RankedCandidate pairs a candidate profile with its identity for ranking.
type RankedCandidate struct {
	ID        string
	Name      string
	Candidate Candidate
}

// RankedResult is one row of a ranking: the candidate identity plus its fit.
type RankedResult struct {
	CandidateID string
	Name        string
	Result      Result
}

// Rank scores every candidate against the role and returns the list ordered
// by fit percentage descending. Ties order by candidate ID for determinism.
func (s *Scorer) Rank(ctx context.Context, candidates []RankedCandidate, role *Role) ([]RankedResult, error) {
	results := make([]RankedResult, 0, len(candidates))
	for _, c := range candidates {
		r, err := s.Score(ctx, c.Candidate, role)
		if err != nil {
			return nil, err
		}
		results = append(results, RankedResult{CandidateID: c.ID, Name: c.Name, Result: r})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Result.Percent != results[j].Result.Percent {
			return results[i].Result.Percent > results[j].Result.Percent
		}
		return results[i].CandidateID < results[j].CandidateID
	})
	return results, nil
}

// SuccessProbability estimates how likely a placement is to succeed, from the
// candidate's average evaluation score on the [1,10] scale, whether their
// performance trend is improving, whether the opening has a supervisor, and
// the precomputed match percentage.
func SuccessProbability(avgScore float64, improving, hasSupervisor bool, percent int) float64 {
	performance := math.Max(0, math.Min(1, avgScore/10))
	quality := math.Max(0, math.Min(1, float64(percent)/100))

	p := performance*performanceWeight + quality*matchQualityWeight
	if improving {
		p += consistencyBonus
	} else {
		p += consistencyDefault
	}
	if hasSupervisor {
		p += supervisorBonus
	} else {
		p += supervisorDefault
	}

	return math.Max(minProbability, math.Min(maxProbability, p))
}
