package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/hrforge/talentd/internal/domain/model"
)

// DirectoryStore holds the employee, equipment, and training records the
// dashboard rolls up. The engine only reads them; writes are upserts keyed
// by record ID.
type DirectoryStore interface {
	UpsertEmployee(ctx context.Context, e model.Employee) (model.Employee, error)
	UpsertEquipment(ctx context.Context, e model.Equipment) (model.Equipment, error)
	UpsertTraining(ctx context.Context, t model.Training) (model.Training, error)

	Employees(ctx context.Context) []model.Employee
	Equipment(ctx context.Context) []model.Equipment
	Trainings(ctx context.Context) []model.Training
}

// MemDirectoryStore implements DirectoryStore in memory.
type MemDirectoryStore struct {
	mu        sync.RWMutex
	employees map[string]model.Employee
	equipment map[string]model.Equipment
	trainings map[string]model.Training
}

// NewMemDirectoryStore creates an empty in-memory directory store.
func NewMemDirectoryStore() *MemDirectoryStore {
	return &MemDirectoryStore{
		employees: make(map[string]model.Employee),
		equipment: make(map[string]model.Equipment),
		trainings: make(map[string]model.Training),
	}
}

// UpsertEmployee stores an employee record, assigning an ID when blank.
func (s *MemDirectoryStore) UpsertEmployee(_ context.Context, e model.Employee) (model.Employee, error) {
	if e.Name == "" {
		return model.Employee{}, fmt.Errorf("%w: employee name is blank", ErrInvalidRecord)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
	return e, nil
}

// UpsertEquipment stores an equipment record, assigning an ID when blank.
func (s *MemDirectoryStore) UpsertEquipment(_ context.Context, e model.Equipment) (model.Equipment, error) {
	if e.Name == "" {
		return model.Equipment{}, fmt.Errorf("%w: equipment name is blank", ErrInvalidRecord)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.equipment[e.ID] = e
	return e, nil
}

// UpsertTraining stores a training record, assigning an ID when blank.
func (s *MemDirectoryStore) UpsertTraining(_ context.Context, t model.Training) (model.Training, error) {
	if t.Category == "" {
		return model.Training{}, fmt.Errorf("%w: training category is blank", ErrInvalidRecord)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.trainings[t.ID] = t
	return t, nil
}

// Employees returns a snapshot of all employee records.
func (s *MemDirectoryStore) Employees(_ context.Context) []model.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, e)
	}
	return out
}

// Equipment returns a snapshot of all equipment records.
func (s *MemDirectoryStore) Equipment(_ context.Context) []model.Equipment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Equipment, 0, len(s.equipment))
	for _, e := range s.equipment {
		out = append(out, e)
	}
	return out
}

// Trainings returns a snapshot of all training records.
func (s *MemDirectoryStore) Trainings(_ context.Context) []model.Training {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Training, 0, len(s.trainings))
	for _, t := range s.trainings {
		out = append(out, t)
	}
	return out
}
