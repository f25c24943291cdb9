package handler

import (
	"encoding/json"
	"net/http"

	"bizsim-api/internal/domain"
	"bizsim-api/internal/service"
	"bizsim-api/pkg/errors"
	"bizsim-api/pkg/logger"

	"github.com/go-chi/chi/v5"
)

type SessionHandler struct {
	scheduler *service.SchedulerService
	logger    *logger.Logger
}

func NewSessionHandler(scheduler *service.SchedulerService, logger *logger.Logger) *SessionHandler {
	return &SessionHandler{scheduler: scheduler, logger: logger}
}

// ActivateRequest is the body for activating an event
type ActivateRequest struct {
	DurationSeconds int `json:"duration_seconds"`
}

// ResolveRequest carries optional per-team score corrections entered by the
// administrator before finalizing
type ResolveRequest struct {
	Overrides map[string]domain.ScoreVector `json:"overrides,omitempty"`
}

// GetSession handles GET /api/v1/sessions/{sessionId}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := identity(r); !ok {
		respondError(w, errors.NewAuthenticationError("authentication required"))
		return
	}

	sessionID := chi.URLParam(r, "sessionId")

	state, err := h.scheduler.GetSessionState(r.Context(), sessionID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// ActivateEvent handles POST /api/v1/sessions/{sessionId}/events/{eventId}/activate
func (h *SessionHandler) ActivateEvent(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(r)
	if !ok {
		respondError(w, errors.NewAuthenticationError("authentication required"))
		return
	}

	sessionID := chi.URLParam(r, "sessionId")
	eventID := chi.URLParam(r, "eventId")

	var req ActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("invalid request body", nil))
		return
	}

	sessionEvent, err := h.scheduler.ActivateEvent(r.Context(), actor, sessionID, eventID, req.DurationSeconds)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, sessionEvent)
}

// ResolveEvent handles POST /api/v1/session-events/{sessionEventId}/resolve
func (h *SessionHandler) ResolveEvent(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(r)
	if !ok {
		respondError(w, errors.NewAuthenticationError("authentication required"))
		return
	}

	sessionEventID := chi.URLParam(r, "sessionEventId")

	// The body is optional; an empty body means no admin corrections.
	var req ResolveRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err.Error() != "EOF" {
			respondError(w, errors.NewValidationError("invalid request body", nil))
			return
		}
	}

	scores, err := h.scheduler.ResolveEvent(r.Context(), actor, sessionEventID, req.Overrides)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"scores_appended": scores})
}

// CompleteSession handles POST /api/v1/sessions/{sessionId}/complete
func (h *SessionHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(r)
	if !ok {
		respondError(w, errors.NewAuthenticationError("authentication required"))
		return
	}

	sessionID := chi.URLParam(r, "sessionId")

	session, err := h.scheduler.CompleteSession(r.Context(), actor, sessionID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// ListTeamScores handles GET /api/v1/sessions/{sessionId}/teams/{teamId}/scores
func (h *SessionHandler) ListTeamScores(w http.ResponseWriter, r *http.Request) {
	if _, ok := identity(r); !ok {
		respondError(w, errors.NewAuthenticationError("authentication required"))
		return
	}

	sessionID := chi.URLParam(r, "sessionId")
	teamID := chi.URLParam(r, "teamId")

	scores, err := h.scheduler.ListTeamScores(r.Context(), sessionID, teamID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, scores)
}
