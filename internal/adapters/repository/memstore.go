package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hrforge/talentd/internal/domain/model"
	"github.com/hrforge/talentd/internal/domain/workflow"
	"github.com/hrforge/talentd/pkg/metrics"
)

// evalEntry pairs an evaluation with its transition lock. The lock serializes
// Update calls on one record; the map lock only guards map shape.
type evalEntry struct {
	mu sync.Mutex
	ev workflow.Evaluation
}

// MemEvaluationStore implements EvaluationStore in memory.
type MemEvaluationStore struct {
	mu      sync.RWMutex
	records map[string]*evalEntry
	newID   func() string
}

// NewMemEvaluationStore creates an empty in-memory evaluation store.
func NewMemEvaluationStore(opts ...Option) *MemEvaluationStore {
	s := &MemEvaluationStore{
		records: make(map[string]*evalEntry),
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new record, assigning an ID when the caller left it blank.
func (s *MemEvaluationStore) Create(_ context.Context, ev workflow.Evaluation) (workflow.Evaluation, error) {
	if ev.ID == "" {
		ev.ID = s.newID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[ev.ID]; exists {
		return workflow.Evaluation{}, fmt.Errorf("%w: evaluation %s", ErrAlreadyExists, ev.ID)
	}
	s.records[ev.ID] = &evalEntry{ev: ev}
	metrics.UpdateEvaluationCount(len(s.records))
	return ev, nil
}

// Get returns the latest committed state of a record.
func (s *MemEvaluationStore) Get(_ context.Context, id string) (workflow.Evaluation, error) {
	entry, err := s.entry(id)
	if err != nil {
		return workflow.Evaluation{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.ev, nil
}

// Update applies mutate under the record's lock. Transition preconditions are
// therefore always checked against the latest committed state.
func (s *MemEvaluationStore) Update(_ context.Context, id string, mutate func(*workflow.Evaluation) error) (workflow.Evaluation, error) {
	entry, err := s.entry(id)
	if err != nil {
		return workflow.Evaluation{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := entry.ev
	if err := mutate(&working); err != nil {
		return workflow.Evaluation{}, err
	}
	entry.ev = working
	return working, nil
}

// List returns a snapshot of all records.
func (s *MemEvaluationStore) List(_ context.Context) []workflow.Evaluation {
	s.mu.RLock()
	entries := make([]*evalEntry, 0, len(s.records))
	for _, e := range s.records {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	out := make([]workflow.Evaluation, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.ev)
		e.mu.Unlock()
	}
	return out
}

// Count returns the number of records stored.
func (s *MemEvaluationStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemEvaluationStore) entry(id string) (*evalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: evaluation %s", ErrNotFound, id)
	}
	return entry, nil
}

// MemCheckinStore implements CheckinStore in memory. Records are write-once:
// a check-in's classification never changes after it is stored.
type MemCheckinStore struct {
	mu      sync.RWMutex
	records map[string]model.CheckinRecord
}

// NewMemCheckinStore creates an empty in-memory check-in store.
func NewMemCheckinStore() *MemCheckinStore {
	return &MemCheckinStore{
		records: make(map[string]model.CheckinRecord),
	}
}

// Put stores a classified check-in. The first classification wins; replays
// are ignored to keep results immutable.
func (s *MemCheckinStore) Put(_ context.Context, rec model.CheckinRecord) error {
	if rec.MessageID == "" {
		return fmt.Errorf("%w: check-in message id is blank", ErrInvalidRecord)
	}
	if rec.ClassifiedAt.IsZero() {
		rec.ClassifiedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.MessageID]; exists {
		return nil
	}
	s.records[rec.MessageID] = rec
	metrics.UpdateCheckinCount(len(s.records))
	return nil
}

// Get returns a check-in by message ID.
func (s *MemCheckinStore) Get(_ context.Context, messageID string) (model.CheckinRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[messageID]
	if !ok {
		return model.CheckinRecord{}, fmt.Errorf("%w: check-in %s", ErrNotFound, messageID)
	}
	return rec, nil
}

// List returns a snapshot of all classified check-ins.
func (s *MemCheckinStore) List(_ context.Context) []model.CheckinRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.CheckinRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out
}

// Count returns the number of classified check-ins.
func (s *MemCheckinStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
