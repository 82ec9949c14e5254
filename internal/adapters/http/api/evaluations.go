// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/hrforge/talentd/internal/domain/workflow"
)

// EvaluationsHandler handles evaluation workflow requests.
type EvaluationsHandler struct {
	deps EvaluationDependencies
}

// NewEvaluationsHandler creates a new evaluations handler.
func NewEvaluationsHandler(deps EvaluationDependencies) *EvaluationsHandler {
	return &EvaluationsHandler{deps: deps}
}

// evaluationRequest mirrors the OpenAPI schema for POST /evaluations.
type evaluationRequest struct {
	EmployeeID string             `json:"employee_id"`
	Period     string             `json:"period"`
	Scores     map[string]float64 `json:"scores"`
	Weights    map[string]float64 `json:"weights,omitempty"`
}

func (e evaluationRequest) validate() error {
	switch {
	case strings.TrimSpace(e.EmployeeID) == "":
		return errors.New("missing employee_id")
	case strings.TrimSpace(e.Period) == "":
		return errors.New("missing period")
	case len(e.Scores) == 0:
		return errors.New("missing scores")
	}
	return nil
}

// decisionRequest carries the approver identity (and, for rejections, the
// mandatory reason) for approve/reject calls.
type decisionRequest struct {
	Approver string `json:"approver"`
	Reason   string `json:"reason,omitempty"`
}

// evaluationResponse is the read shape for evaluation records.
type evaluationResponse struct {
	ID              string             `json:"id"`
	EmployeeID      string             `json:"employee_id"`
	Period          string             `json:"period"`
	State           string             `json:"state"`
	Scores          map[string]float64 `json:"scores"`
	WeightedAverage float64            `json:"weighted_average,omitempty"`
	Recommendation  string             `json:"recommendation,omitempty"`
	SubmittedAt     *time.Time         `json:"submitted_at,omitempty"`
	Approver        string             `json:"approver,omitempty"`
	RejectReason    string             `json:"reject_reason,omitempty"`
	DecidedAt       *time.Time         `json:"decided_at,omitempty"`
	Insight         string             `json:"insight,omitempty"`
}

func toEvaluationResponse(ev workflow.Evaluation) evaluationResponse {
	scores := make(map[string]float64, ev.Scores.Len())
	for _, criterion := range ev.Scores.Criteria() {
		scores[criterion], _ = ev.Scores.Value(criterion)
	}

	resp := evaluationResponse{
		ID:              ev.ID,
		EmployeeID:      ev.EmployeeID,
		Period:          ev.Period,
		State:           ev.State.String(),
		Scores:          scores,
		WeightedAverage: ev.WeightedAverage,
		Recommendation:  string(ev.Recommendation),
		Approver:        ev.Approver,
		RejectReason:    ev.RejectReason,
		Insight:         ev.Insight,
	}
	if !ev.SubmittedAt.IsZero() {
		t := ev.SubmittedAt
		resp.SubmittedAt = &t
	}
	if !ev.DecidedAt.IsZero() {
		t := ev.DecidedAt
		resp.DecidedAt = &t
	}
	return resp
}

// insightResponse is the read shape for GET /evaluations/{id}/insight.
type insightResponse struct {
	ID      string `json:"id"`
	Insight string `json:"insight"`
}

// HandleCreate handles POST /evaluations requests.
func (h *EvaluationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_evaluation"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req evaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	ev, err := h.deps.CreateEvaluation(r.Context(), req.EmployeeID, req.Period, req.Scores, req.Weights)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEvaluationResponse(ev))
}

// HandleByID dispatches /evaluations/{id} and its transition subpaths:
// GET  /evaluations/{id}
// POST /evaluations/{id}/submit
// POST /evaluations/{id}/approve
// POST /evaluations/{id}/reject
// GET  /evaluations/{id}/insight
func (h *EvaluationsHandler) HandleByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.evaluation_by_id"

	path := strings.TrimPrefix(r.URL.Path, "/evaluations/")
	id, action, _ := strings.Cut(path, "/")
	if id == "" || strings.Contains(action, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.handleGet(w, r, id)
	case action == "submit" && r.Method == http.MethodPost:
		h.handleSubmit(w, r, id)
	case action == "approve" && r.Method == http.MethodPost:
		h.handleDecision(w, r, id, false)
	case action == "reject" && r.Method == http.MethodPost:
		h.handleDecision(w, r, id, true)
	case action == "insight" && r.Method == http.MethodGet:
		h.handleInsight(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (h *EvaluationsHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	ev, err := h.deps.GetEvaluation(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEvaluationResponse(ev))
}

func (h *EvaluationsHandler) handleSubmit(w http.ResponseWriter, r *http.Request, id string) {
	ev, err := h.deps.SubmitEvaluation(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEvaluationResponse(ev))
}

func (h *EvaluationsHandler) handleDecision(w http.ResponseWriter, r *http.Request, id string, reject bool) {
	const op = "api.evaluation_decision"

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Approver) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing approver")))
		return
	}

	var (
		ev  workflow.Evaluation
		err error
	)
	if reject {
		ev, err = h.deps.RejectEvaluation(r.Context(), id, req.Approver, req.Reason)
	} else {
		ev, err = h.deps.ApproveEvaluation(r.Context(), id, req.Approver)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEvaluationResponse(ev))
}

func (h *EvaluationsHandler) handleInsight(w http.ResponseWriter, r *http.Request, id string) {
	insight, err := h.deps.GenerateInsight(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insightResponse{ID: id, Insight: insight})
}
