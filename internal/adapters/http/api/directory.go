// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/hrforge/talentd/internal/domain/model"
)

// DirectoryHandler ingests the employee, equipment, and training records the
// dashboard rolls up.
type DirectoryHandler struct {
	deps DirectoryDependencies
}

// NewDirectoryHandler creates a new directory handler.
func NewDirectoryHandler(deps DirectoryDependencies) *DirectoryHandler {
	return &DirectoryHandler{deps: deps}
}

// employeeRequest mirrors the OpenAPI schema for POST /employees.
type employeeRequest struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	SkillLevel string `json:"skill_level,omitempty"`
	HireDate   string `json:"hire_date,omitempty"`
}

// equipmentRequest mirrors the OpenAPI schema for POST /equipment.
type equipmentRequest struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	EmployeeID string `json:"employee_id,omitempty"`
	Status     string `json:"status,omitempty"`
}

// trainingRequest mirrors the OpenAPI schema for POST /trainings.
type trainingRequest struct {
	ID         string  `json:"id,omitempty"`
	EmployeeID string  `json:"employee_id,omitempty"`
	Category   string  `json:"category"`
	Status     string  `json:"status,omitempty"`
	Score      float64 `json:"score,omitempty"`
	StartDate  string  `json:"start_date,omitempty"`
}

// idResponse acknowledges an upsert with the stored record's ID.
type idResponse struct {
	ID string `json:"id"`
}

// HandleEmployee handles POST /employees requests.
func (h *DirectoryHandler) HandleEmployee(w http.ResponseWriter, r *http.Request) {
	const op = "api.upsert_employee"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing name")))
		return
	}
	hireDate, err := parseOptionalDate(req.HireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	stored, err := h.deps.UpsertEmployee(r.Context(), model.Employee{
		ID:         req.ID,
		Name:       req.Name,
		Department: req.Department,
		SkillLevel: model.SkillLevel(req.SkillLevel),
		HireDate:   hireDate,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: stored.ID})
}

// HandleEquipment handles POST /equipment requests.
func (h *DirectoryHandler) HandleEquipment(w http.ResponseWriter, r *http.Request) {
	const op = "api.upsert_equipment"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req equipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing name")))
		return
	}

	stored, err := h.deps.UpsertEquipment(r.Context(), model.Equipment{
		ID:         req.ID,
		Name:       req.Name,
		EmployeeID: req.EmployeeID,
		Status:     model.EquipmentStatus(req.Status),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: stored.ID})
}

// HandleTraining handles POST /trainings requests.
func (h *DirectoryHandler) HandleTraining(w http.ResponseWriter, r *http.Request) {
	const op = "api.upsert_training"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req trainingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Category) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing category")))
		return
	}
	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	stored, err := h.deps.UpsertTraining(r.Context(), model.Training{
		ID:         req.ID,
		EmployeeID: req.EmployeeID,
		Category:   req.Category,
		Status:     model.TrainingStatus(req.Status),
		Score:      req.Score,
		StartDate:  startDate,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: stored.ID})
}

// parseOptionalDate accepts RFC3339 or plain dates, blank means zero.
func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errors.New("invalid date; must be RFC3339 or YYYY-MM-DD")
	}
	return t, nil
}
