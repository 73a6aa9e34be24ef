// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/polls/auth"
	"github.com/danielhkuo/polls/store"
)

const (
	MsgNoChoice = "You didn't select a choice."
	MsgClosed   = "This poll is closed."
)

// QuestionPath is where an anonymous voter returns after logging in
func QuestionPath(r *http.Request) string {
	return "/polls/" + r.PathValue("id") + "/"
}

// Vote handles POST /polls/{id}/vote/
// The caller must be logged in; see auth.RequireUser.
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		http.Redirect(w, r, auth.LoginURL(QuestionPath(r)), http.StatusFound)
		return
	}

	ctx := r.Context()
	questionID := r.PathValue("id")
	now := h.now()

	q, err := h.store.GetQuestion(ctx, questionID)
	if errors.Is(err, store.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		serverError(w, "failed to query question", err)
		return
	}

	// Unpublished questions are invisible, same as the detail page
	if !q.IsPublished(now) {
		h.metrics.voteRejected(ctx, "unpublished")
		h.notFound(w, r)
		return
	}

	if !q.CanVote(now) {
		h.metrics.voteRejected(ctx, "closed")
		h.renderDetail(w, r, q, now, MsgClosed)
		return
	}

	choiceID := r.PostFormValue("choice")
	if choiceID == "" {
		h.metrics.voteRejected(ctx, "no_choice")
		h.renderDetail(w, r, q, now, MsgNoChoice)
		return
	}

	// The choice must belong to this question
	_, err = h.store.GetChoice(ctx, q.ID, choiceID)
	if errors.Is(err, store.ErrNotFound) {
		h.metrics.voteRejected(ctx, "unknown_choice")
		h.renderDetail(w, r, q, now, MsgNoChoice)
		return
	}
	if err != nil {
		serverError(w, "failed to query choice", err)
		return
	}

	vote, created, err := h.store.UpsertVote(ctx, user.ID, q.ID, choiceID, now)
	if err != nil {
		serverError(w, "failed to record vote", err)
		return
	}
	h.metrics.voteRecorded(ctx, created)

	slog.Info("vote recorded",
		"question_id", q.ID,
		"choice_id", choiceID,
		"user_id", user.ID,
		"vote_id", vote.ID,
		"created", created,
	)

	// POST/redirect/GET
	http.Redirect(w, r, "/polls/"+q.ID+"/results/", http.StatusFound)
}
