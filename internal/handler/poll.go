package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/gifboard/internal/auth"
	"github.com/sakif/gifboard/internal/service"
)

// PollHandler serves the weekly poll endpoints.
type PollHandler struct {
	polls  *service.PollService
	logger *slog.Logger
}

func NewPollHandler(polls *service.PollService, logger *slog.Logger) *PollHandler {
	return &PollHandler{polls: polls, logger: logger}
}

// HandleCurrent returns the poll for the current week.
//
// HTTP: GET /api/polls/current
func (h *PollHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	poll, err := h.polls.Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, poll)
}

// HandleCreate opens a poll for a week.
//
// HTTP: POST /api/polls
// Body: {"topic": "...", "week": 5}
func (h *PollHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
		Week  int    `json:"week"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	poll, err := h.polls.CreatePoll(r.Context(), req.Topic, req.Week)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, poll)
}

// HandleVote casts the caller's yes/no vote on a poll.
//
// HTTP: POST /api/polls/{id}/vote
// Auth: required
func (h *PollHandler) HandleVote(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	var req struct {
		Vote string `json:"vote"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	if err := h.polls.CastVote(r.Context(), chi.URLParam(r, "id"), claims.UserID, req.Vote); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "vote recorded successfully",
		"vote":    req.Vote,
	})
}

// HandleUserVote returns the caller's recorded choice for a poll, or null
// if they have not voted.
//
// HTTP: GET /api/polls/{id}/user-vote
// Auth: required
func (h *PollHandler) HandleUserVote(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	choice, err := h.polls.UserVote(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	var vote *string
	if choice != "" {
		vote = &choice
	}
	writeJSON(w, http.StatusOK, map[string]*string{"vote": vote})
}
