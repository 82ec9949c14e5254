// Package workflow governs the evaluation record lifecycle:
// Draft -> Submitted -> {Approved, Rejected}. Approved and Rejected are
// terminal. Transitions validate the current state and never mutate a record
// on failure.
package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/hrforge/talentd/internal/domain/scoreset"
)

// State is the lifecycle state of an evaluation record.
type State int

const (
	StateDraft State = iota
	StateSubmitted
	StateApproved
	StateRejected
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case StateDraft:
		return "draft"
	case StateSubmitted:
		return "submitted"
	case StateApproved:
		return "approved"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state has no outgoing transitions.
func (s State) Terminal() bool {
	return s == StateApproved || s == StateRejected
}

// Recommendation is the coarse performance band derived from the weighted
// average at submit time.
type Recommendation string

const (
	RecommendPromote Recommendation = "promote"
	RecommendRetain  Recommendation = "retain"
	RecommendImprove Recommendation = "improve"
	RecommendReplace Recommendation = "replace"
)

// Recommendation bands on the [1,10] weighted-average scale.
const (
	promoteThreshold = 8.5
	retainThreshold  = 7.0
	improveThreshold = 5.0
)

// RecommendationFor maps a weighted average onto its recommendation band.
func RecommendationFor(avg float64) Recommendation {
	switch {
	case avg >= promoteThreshold:
		return RecommendPromote
	case avg >= retainThreshold:
		return RecommendRetain
	case avg >= improveThreshold:
		return RecommendImprove
	default:
		return RecommendReplace
	}
}

// Evaluation is a performance evaluation record. It is a value object owned
// by the caller; the workflow mutates it only through transitions.
type Evaluation struct {
	ID         string
	EmployeeID string
	Period     string
	Scores     scoreset.ScoreSet
	State      State

	// Set on Submit.
	WeightedAverage float64
	Recommendation  Recommendation
	SubmittedAt     time.Time

	// Set on Approve/Reject.
	Approver     string
	RejectReason string
	DecidedAt    time.Time

	// Optional narrative, produced by GenerateInsight.
	Insight string
}

// NewEvaluation creates an evaluation record in Draft.
func NewEvaluation(id, employeeID, period string, scores scoreset.ScoreSet) Evaluation {
	return Evaluation{
		ID:         id,
		EmployeeID: employeeID,
		Period:     period,
		Scores:     scores,
		State:      StateDraft,
	}
}

// SetScores replaces the score set. Scores are frozen once the record leaves
// Draft.
func (e *Evaluation) SetScores(scores scoreset.ScoreSet) error {
	if e.State != StateDraft {
		return fmt.Errorf("%w: scores are frozen in state %s", ErrInvalidTransition, e.State)
	}
	e.Scores = scores
	return nil
}

// Submit computes the weighted average, derives the recommendation band, and
// moves the record from Draft to Submitted.
func (e *Evaluation) Submit(now time.Time) error {
	if e.State != StateDraft {
		return fmt.Errorf("%w: submit requires draft, record is %s", ErrInvalidTransition, e.State)
	}
	if e.Scores.Len() == 0 {
		return fmt.Errorf("%w: submit requires a score set", ErrInvalidTransition)
	}

	e.WeightedAverage = e.Scores.WeightedAverage()
	e.Recommendation = RecommendationFor(e.WeightedAverage)
	e.SubmittedAt = now
	e.State = StateSubmitted
	return nil
}

// Approve records the approver and moves the record to the terminal Approved
// state. Allowed only from Submitted.
func (e *Evaluation) Approve(approver string, now time.Time) error {
	if e.State != StateSubmitted {
		return fmt.Errorf("%w: approve requires submitted, record is %s", ErrInvalidTransition, e.State)
	}
	if strings.TrimSpace(approver) == "" {
		return fmt.Errorf("%w: approver identity is required", ErrInvalidTransition)
	}

	e.Approver = approver
	e.DecidedAt = now
	e.State = StateApproved
	return nil
}

// Reject records the approver and a mandatory reason and moves the record to
// the terminal Rejected state. Allowed only from Submitted.
func (e *Evaluation) Reject(approver, reason string, now time.Time) error {
	if e.State != StateSubmitted {
		return fmt.Errorf("%w: reject requires submitted, record is %s", ErrInvalidTransition, e.State)
	}
	if strings.TrimSpace(approver) == "" {
		return fmt.Errorf("%w: approver identity is required", ErrInvalidTransition)
	}
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: a rejection reason is required", ErrMissingReason)
	}

	e.Approver = approver
	e.RejectReason = reason
	e.DecidedAt = now
	e.State = StateRejected
	return nil
}
