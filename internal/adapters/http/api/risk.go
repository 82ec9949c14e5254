// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hrforge/talentd/internal/domain/risk"
)

// RiskHandler handles turnover risk requests.
type RiskHandler struct {
	deps RiskDependencies
}

// NewRiskHandler creates a new risk handler.
func NewRiskHandler(deps RiskDependencies) *RiskHandler {
	return &RiskHandler{deps: deps}
}

// riskRequest mirrors the OpenAPI schema for POST /risk. Scores are ordered
// oldest first; tenure is whole days.
type riskRequest struct {
	Scores     []float64 `json:"scores"`
	TenureDays int       `json:"tenure_days"`
}

// riskResponse is the read shape for a risk computation.
type riskResponse struct {
	Score      float64 `json:"score"`
	Band       string  `json:"band"`
	TrendRisk  float64 `json:"trend_risk"`
	TenureRisk float64 `json:"tenure_risk"`
	Trend      string  `json:"trend"`
}

// HandleScore handles POST /risk requests.
func (h *RiskHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score_risk"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req riskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	result, err := h.deps.ScoreRisk(r.Context(), risk.History{
		Scores: req.Scores,
		Tenure: time.Duration(req.TenureDays) * 24 * time.Hour,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, riskResponse{
		Score:      result.Score,
		Band:       string(result.Band),
		TrendRisk:  result.TrendRisk,
		TenureRisk: result.TenureRisk,
		Trend:      string(risk.Trend(req.Scores)),
	})
}
