// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/polls/middleware"
	"github.com/danielhkuo/polls/models"
	"github.com/danielhkuo/polls/store"
)

// APIHandler serves read-only JSON views of published questions
type APIHandler struct {
	store PollStore
	now   func() time.Time
}

func NewAPIHandler(s PollStore) *APIHandler {
	return &APIHandler{store: s, now: time.Now}
}

// ListQuestions handles GET /api/polls
func (h *APIHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	questions, err := h.store.ListPublished(r.Context(), now)
	if err != nil {
		slog.Error("failed to list questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.QuestionListResponse{
		Questions: summarize(questions, now),
	})
}

// GetResults handles GET /api/polls/{id}/results
func (h *APIHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	q, err := h.store.GetQuestion(r.Context(), questionID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}
	if err != nil {
		slog.Error("failed to query question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	counts, err := h.store.ChoiceResults(r.Context(), q.ID)
	if err != nil {
		slog.Error("failed to query results", "question_id", q.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	ranked, total := models.Tally(counts)

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Question:   q,
		Results:    ranked,
		TotalVotes: total,
		CanVote:    q.CanVote(h.now()),
	})
}
