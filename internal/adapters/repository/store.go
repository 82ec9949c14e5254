// Package repository defines the record store interfaces and errors.
//
// Persistence proper belongs to the surrounding platform; these stores hold
// the engine's working copies and, critically, serialize workflow transitions
// per record so two concurrent submit/approve calls cannot race past the same
// state precondition.
package repository

import (
	"context"

	"github.com/hrforge/talentd/internal/domain/model"
	"github.com/hrforge/talentd/internal/domain/workflow"
)

// EvaluationStore provides access to evaluation records.
type EvaluationStore interface {
	// Create stores a new record and returns it with its assigned ID.
	Create(ctx context.Context, ev workflow.Evaluation) (workflow.Evaluation, error)

	// Get returns the latest committed state of a record.
	// Returns ErrNotFound for unknown IDs.
	Get(ctx context.Context, id string) (workflow.Evaluation, error)

	// Update applies mutate to the record under its per-record lock. The
	// closure sees the latest committed state; if it returns an error the
	// record is left untouched and the error is passed through.
	Update(ctx context.Context, id string, mutate func(*workflow.Evaluation) error) (workflow.Evaluation, error)

	// List returns a snapshot of all records.
	List(ctx context.Context) []workflow.Evaluation

	// Count returns the number of records stored.
	Count(ctx context.Context) int
}

// CheckinStore provides access to classified check-in records.
type CheckinStore interface {
	// Put stores a classified check-in, keyed by message ID.
	Put(ctx context.Context, rec model.CheckinRecord) error

	// Get returns a check-in by message ID. Returns ErrNotFound when the
	// message is unknown or still queued for classification.
	Get(ctx context.Context, messageID string) (model.CheckinRecord, error)

	// List returns a snapshot of all classified check-ins.
	List(ctx context.Context) []model.CheckinRecord

	// Count returns the number of classified check-ins.
	Count(ctx context.Context) int
}
