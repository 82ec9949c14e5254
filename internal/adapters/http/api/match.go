// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hrforge/talentd/internal/domain/match"
)

// MatchHandler handles candidate-role fit requests.
type MatchHandler struct {
	deps MatchDependencies
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps MatchDependencies) *MatchHandler {
	return &MatchHandler{deps: deps}
}

// matchRequest mirrors the OpenAPI schema for POST /match.
type matchRequest struct {
	Candidate candidatePayload `json:"candidate"`
	Role      rolePayload      `json:"role"`
}

type candidatePayload struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name,omitempty"`
	Skills    []string `json:"skills"`
	Interests string   `json:"interests,omitempty"`
}

type rolePayload struct {
	RequiredSkills []string `json:"required_skills"`
	Description    string   `json:"description,omitempty"`
}

func (r rolePayload) validate() error {
	if len(r.RequiredSkills) == 0 && strings.TrimSpace(r.Description) == "" {
		return errors.New("role must carry required_skills or a description")
	}
	return nil
}

// matchResponse is the read shape for a single fit computation.
type matchResponse struct {
	Percent        int      `json:"percent"`
	Recommendation string   `json:"recommendation"`
	Matched        []string `json:"matched"`
	Missing        []string `json:"missing"`
}

func toMatchResponse(result match.Result) matchResponse {
	return matchResponse{
		Percent:        result.Percent,
		Recommendation: string(result.Recommendation),
		Matched:        result.Matched,
		Missing:        result.Missing,
	}
}

// rankRequest mirrors the OpenAPI schema for POST /match/rank.
type rankRequest struct {
	Candidates []candidatePayload `json:"candidates"`
	Role       rolePayload        `json:"role"`
}

// rankEntryResponse is one row of the ranked result list.
type rankEntryResponse struct {
	CandidateID string        `json:"candidate_id"`
	Name        string        `json:"name,omitempty"`
	Result      matchResponse `json:"result"`
}

// HandleScore handles POST /match requests.
func (h *MatchHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score_match"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.Role.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	result, err := h.deps.ScoreMatch(r.Context(), match.Candidate{
		Skills:    req.Candidate.Skills,
		Interests: req.Candidate.Interests,
	}, &match.Role{
		RequiredSkills: req.Role.RequiredSkills,
		Description:    req.Role.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMatchResponse(result))
}

// HandleRank handles POST /match/rank requests.
func (h *MatchHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.rank_candidates"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req rankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Candidates) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing candidates")))
		return
	}
	if err := req.Role.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	candidates := make([]match.RankedCandidate, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		candidates = append(candidates, match.RankedCandidate{
			ID:   c.ID,
			Name: c.Name,
			Candidate: match.Candidate{
				Skills:    c.Skills,
				Interests: c.Interests,
			},
		})
	}

	ranked, err := h.deps.RankCandidates(r.Context(), candidates, &match.Role{
		RequiredSkills: req.Role.RequiredSkills,
		Description:    req.Role.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]rankEntryResponse, 0, len(ranked))
	for _, entry := range ranked {
		out = append(out, rankEntryResponse{
			CandidateID: entry.CandidateID,
			Name:        entry.Name,
			Result:      toMatchResponse(entry.Result),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
