// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hrforge/talentd/internal/adapters/repository"
	service "github.com/hrforge/talentd/internal/app"
	"github.com/hrforge/talentd/internal/domain/dashboard"
	"github.com/hrforge/talentd/internal/domain/match"
	"github.com/hrforge/talentd/internal/domain/model"
	"github.com/hrforge/talentd/internal/domain/risk"
	"github.com/hrforge/talentd/internal/domain/scoreset"
	"github.com/hrforge/talentd/internal/domain/sentiment"
	"github.com/hrforge/talentd/internal/domain/workflow"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	EvaluationDependencies
	MatchDependencies
	CheckinDependencies
	RiskDependencies
	DirectoryDependencies
	DashboardDependencies
}

// EvaluationDependencies drives the evaluation workflow endpoints.
type EvaluationDependencies interface {
	CreateEvaluation(ctx context.Context, employeeID, period string, values, weights map[string]float64) (workflow.Evaluation, error)
	GetEvaluation(ctx context.Context, id string) (workflow.Evaluation, error)
	SubmitEvaluation(ctx context.Context, id string) (workflow.Evaluation, error)
	ApproveEvaluation(ctx context.Context, id, approver string) (workflow.Evaluation, error)
	RejectEvaluation(ctx context.Context, id, approver, reason string) (workflow.Evaluation, error)
	GenerateInsight(ctx context.Context, id string) (string, error)
}

// MatchDependencies drives candidate-role fit scoring.
type MatchDependencies interface {
	ScoreMatch(ctx context.Context, candidate match.Candidate, role *match.Role) (match.Result, error)
	RankCandidates(ctx context.Context, candidates []match.RankedCandidate, role *match.Role) ([]match.RankedResult, error)
}

// CheckinDependencies drives the asynchronous check-in intake.
type CheckinDependencies interface {
	SubmitCheckin(ctx context.Context, event model.CheckinEvent) error
	GetCheckin(ctx context.Context, messageID string) (model.CheckinRecord, error)
}

// RiskDependencies drives turnover risk scoring.
type RiskDependencies interface {
	ScoreRisk(ctx context.Context, history risk.History) (risk.Result, error)
}

// DirectoryDependencies ingests the records the dashboard rolls up.
type DirectoryDependencies interface {
	UpsertEmployee(ctx context.Context, e model.Employee) (model.Employee, error)
	UpsertEquipment(ctx context.Context, e model.Equipment) (model.Equipment, error)
	UpsertTraining(ctx context.Context, t model.Training) (model.Training, error)
}

// DashboardDependencies serves the aggregated rollups.
type DashboardDependencies interface {
	Dashboard(ctx context.Context) dashboard.Rollups
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	evaluationsHandler *EvaluationsHandler
	matchHandler       *MatchHandler
	checkinsHandler    *CheckinsHandler
	riskHandler        *RiskHandler
	directoryHandler   *DirectoryHandler
	dashboardHandler   *DashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		evaluationsHandler: NewEvaluationsHandler(deps),
		matchHandler:       NewMatchHandler(deps),
		checkinsHandler:    NewCheckinsHandler(deps),
		riskHandler:        NewRiskHandler(deps),
		directoryHandler:   NewDirectoryHandler(deps),
		dashboardHandler:   NewDashboardHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("/evaluations", MetricsMiddleware(s.evaluationsHandler.HandleCreate, "evaluations"))
	mux.HandleFunc("/evaluations/", MetricsMiddleware(s.evaluationsHandler.HandleByID, "evaluations"))
	mux.HandleFunc("/match", MetricsMiddleware(s.matchHandler.HandleScore, "match"))
	mux.HandleFunc("/match/rank", MetricsMiddleware(s.matchHandler.HandleRank, "match_rank"))
	mux.HandleFunc("/checkins", MetricsMiddleware(s.checkinsHandler.HandleSubmit, "checkins"))
	mux.HandleFunc("/checkins/", MetricsMiddleware(s.checkinsHandler.HandleGet, "checkins"))
	mux.HandleFunc("/risk", MetricsMiddleware(s.riskHandler.HandleScore, "risk"))
	mux.HandleFunc("/employees", MetricsMiddleware(s.directoryHandler.HandleEmployee, "employees"))
	mux.HandleFunc("/equipment", MetricsMiddleware(s.directoryHandler.HandleEquipment, "equipment"))
	mux.HandleFunc("/trainings", MetricsMiddleware(s.directoryHandler.HandleTraining, "trainings"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates engine errors into the API's status mapping:
// validation 400, invalid transition 409, missing record 404, backpressure 429.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scoreset.ErrInvalidScoreSet),
		errors.Is(err, workflow.ErrMissingReason),
		errors.Is(err, match.ErrInvalidInput),
		errors.Is(err, sentiment.ErrEmptyInput),
		errors.Is(err, risk.ErrInsufficientHistory),
		errors.Is(err, service.ErrInvalidCheckin),
		errors.Is(err, repository.ErrInvalidRecord):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, workflow.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_transition", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrBacklogFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
