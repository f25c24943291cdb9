package handler

import (
	"encoding/json"
	"net/http"

	"bizsim-api/internal/service"
	"bizsim-api/pkg/errors"
	"bizsim-api/pkg/logger"

	"github.com/go-chi/chi/v5"
)

type DecisionHandler struct {
	decisions *service.DecisionService
	logger    *logger.Logger
}

func NewDecisionHandler(decisions *service.DecisionService, logger *logger.Logger) *DecisionHandler {
	return &DecisionHandler{decisions: decisions, logger: logger}
}

// ProposeRequest is the body for the specialist's proposal
type ProposeRequest struct {
	OptionID      string `json:"option_id"`
	Advantages    string `json:"advantages"`
	Disadvantages string `json:"disadvantages"`
	Justification string `json:"justification"`
}

// VoteRequest is the body for a team member's vote
type VoteRequest struct {
	OptionID string `json:"option_id"`
	Approved *bool  `json:"approved"`
	Comment  string `json:"comment"`
}

// ValidateRequest is the body for the director's validation
type ValidateRequest struct {
	Comment          string  `json:"comment"`
	OverrideOptionID *string `json:"override_option_id,omitempty"`
}

// AdminCommentRequest is the body for the grader's note
type AdminCommentRequest struct {
	Comment string `json:"comment"`
}

// GetDecision handles GET /api/v1/session-events/{sessionEventId}/decisions/{teamId}
// (the 5-second polling endpoint)
func (h *DecisionHandler) GetDecision(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(r)
	if !ok {
		respondError(w, errors.NewAuthenticationError("authentication required"))
		return
	}

	sessionEventID := chi.URLParam(r, "sessionEventId")
	teamID := chi.URLParam(r, "teamId")

	view, err := h.decisions.GetDecision(r.Context(), actor, sessionEventID, teamID)
	if err != nil {
		respondError(w, err)
		return
	}

	payload, err := json.Marshal(view)
	if err != nil {
		respondError(w, errors.NewInternalError("failed to encode decision", err))
		return
	}

	etag := generateETag(payload)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "private, max-age=5")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// Propose handles POST /api/v1/decisions/{decisionId}/propose
func (h *DecisionHandler) Propose(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(r)
	if !ok {
		respondError(w, errors.NewAuthenticationError("authentication required"))
		return
	}

	decisionID := chi.URLParam(r, "decisionId")

	var req ProposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("invalid request body", nil))
		return
	}

	decision, err := h.decisions.Propose(r.Context(), actor.UserID, decisionID,
		req.OptionID, req.Advantages, req.Disadvantages, req.Justification)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, decision)
}

// Vote handles POST /api/v1/decisions/{decisionId}/vote
func (h *DecisionHandler) Vote(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(r)
	if !ok {
		respondError(w, errors.NewAuthenticationError("authentication required"))
		return
	}

	decisionID := chi.URLParam(r, "decisionId")

	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("invalid request body", nil))
		return
	}
	if req.Approved == nil {
		respondError(w, errors.NewValidationError("approved is required", nil))
		return
	}

	vote, err := h.decisions.Vote(r.Context(), actor.UserID, decisionID,
		req.OptionID, *req.Approved, req.Comment)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, vote)
}

// Validate handles POST /api/v1/decisions/{decisionId}/validate
func (h *DecisionHandler) Validate(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(r)
	if !ok {
		respondError(w, errors.NewAuthenticationError("authentication required"))
		return
	}

	decisionID := chi.URLParam(r, "decisionId")

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("invalid request body", nil))
		return
	}

	decision, err := h.decisions.Validate(r.Context(), actor.UserID, decisionID,
		req.Comment, req.OverrideOptionID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, decision)
}

// ListVotes handles GET /api/v1/decisions/{decisionId}/votes
func (h *DecisionHandler) ListVotes(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(r)
	if !ok {
		respondError(w, errors.NewAuthenticationError("authentication required"))
		return
	}

	decisionID := chi.URLParam(r, "decisionId")

	votes, err := h.decisions.ListVotes(r.Context(), actor, decisionID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, votes)
}

// SetAdminComment handles PUT /api/v1/decisions/{decisionId}/admin-comment
func (h *DecisionHandler) SetAdminComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(r)
	if !ok {
		respondError(w, errors.NewAuthenticationError("authentication required"))
		return
	}

	decisionID := chi.URLParam(r, "decisionId")

	var req AdminCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("invalid request body", nil))
		return
	}

	if err := h.decisions.SetAdminComment(r.Context(), actor, decisionID, req.Comment); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
