// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	service "github.com/hrforge/talentd/internal/app"
	"github.com/hrforge/talentd/internal/domain/model"
)

// CheckinsHandler handles check-in intake and lookup requests.
type CheckinsHandler struct {
	deps CheckinDependencies
}

// NewCheckinsHandler creates a new check-ins handler.
func NewCheckinsHandler(deps CheckinDependencies) *CheckinsHandler {
	return &CheckinsHandler{deps: deps}
}

// checkinRequest mirrors the OpenAPI schema for POST /checkins.
type checkinRequest struct {
	MessageID string `json:"message_id"`
	InternID  string `json:"intern_id"`
	Message   string `json:"message"`
	TS        string `json:"ts,omitempty"`
}

func (c checkinRequest) validate() error {
	switch {
	case strings.TrimSpace(c.MessageID) == "":
		return errors.New("missing message_id")
	case strings.TrimSpace(c.Message) == "":
		return errors.New("missing message")
	}
	if c.TS != "" {
		if _, err := time.Parse(time.RFC3339, c.TS); err != nil {
			return errors.New("invalid ts; must be RFC3339")
		}
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// checkinResponse is the read shape for a classified check-in.
type checkinResponse struct {
	MessageID         string    `json:"message_id"`
	InternID          string    `json:"intern_id,omitempty"`
	Message           string    `json:"message"`
	Sentiment         string    `json:"sentiment"`
	Confidence        float64   `json:"confidence"`
	RequiresAttention bool      `json:"requires_attention"`
	ClassifiedAt      time.Time `json:"classified_at"`
}

// HandleSubmit handles POST /checkins requests.
func (h *CheckinsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_checkin"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req checkinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	event := model.CheckinEvent{
		MessageID: req.MessageID,
		InternID:  req.InternID,
		Message:   req.Message,
	}
	if req.TS != "" {
		event.ReceivedAt, _ = time.Parse(time.RFC3339, req.TS)
	}

	if err := h.deps.SubmitCheckin(r.Context(), event); err != nil {
		// Replays are acknowledged, not failed; the first classification
		// stands.
		if errors.Is(err, service.ErrDuplicateCheckin) {
			writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}

// HandleGet handles GET /checkins/{message_id} requests.
func (h *CheckinsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_checkin"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /checkins/
	path := strings.TrimPrefix(r.URL.Path, "/checkins/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	rec, err := h.deps.GetCheckin(r.Context(), path)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkinResponse{
		MessageID:         rec.MessageID,
		InternID:          rec.InternID,
		Message:           rec.Message,
		Sentiment:         rec.Sentiment,
		Confidence:        rec.Confidence,
		RequiresAttention: rec.RequiresAttention,
		ClassifiedAt:      rec.ClassifiedAt,
	})
}
