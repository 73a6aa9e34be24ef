// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/polls/auth"
	"github.com/danielhkuo/polls/models"
	"github.com/danielhkuo/polls/store"
	"github.com/danielhkuo/polls/views"
)

type PollHandler struct {
	store   PollStore
	views   *views.Renderer
	metrics *metrics
	now     func() time.Time
}

func NewPollHandler(s PollStore, v *views.Renderer) *PollHandler {
	return &PollHandler{store: s, views: v, metrics: globalMetrics(), now: time.Now}
}

// Index handles GET /polls/
func (h *PollHandler) Index(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	questions, err := h.store.ListPublished(r.Context(), now)
	if err != nil {
		serverError(w, "failed to list questions", err)
		return
	}

	h.views.Render(w, http.StatusOK, views.PageIndex, views.IndexPage{
		Base:      base(r),
		Questions: summarize(questions, now),
	})
}

// Detail handles GET /polls/{id}/
func (h *PollHandler) Detail(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	now := h.now()

	q, err := h.store.GetPublishedQuestion(r.Context(), questionID, now)
	if errors.Is(err, store.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		serverError(w, "failed to query question", err)
		return
	}

	h.renderDetail(w, r, q, now, "")
}

// Results handles GET /polls/{id}/results/
// Results are shown for any existing question, published or not.
func (h *PollHandler) Results(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	now := h.now()

	q, err := h.store.GetQuestion(r.Context(), questionID)
	if errors.Is(err, store.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		serverError(w, "failed to query question", err)
		return
	}

	counts, err := h.store.ChoiceResults(r.Context(), q.ID)
	if err != nil {
		serverError(w, "failed to query results", err)
		return
	}
	ranked, total := models.Tally(counts)

	h.views.Render(w, http.StatusOK, views.PageResults, views.ResultsPage{
		Base:       base(r),
		Question:   q,
		Results:    ranked,
		TotalVotes: total,
		CanVote:    q.CanVote(now),
	})
}

// renderDetail shows a question with its choices. A non-empty message is
// displayed above the form; the response is still 200.
func (h *PollHandler) renderDetail(w http.ResponseWriter, r *http.Request, q models.Question, now time.Time, message string) {
	choices, err := h.store.ListChoices(r.Context(), q.ID)
	if err != nil {
		serverError(w, "failed to query choices", err)
		return
	}

	page := views.DetailPage{
		Base:         base(r),
		Question:     q,
		Choices:      choices,
		CanVote:      q.CanVote(now),
		ErrorMessage: message,
	}

	if user, ok := auth.CurrentUser(r.Context()); ok {
		vote, err := h.store.GetUserVote(r.Context(), user.ID, q.ID)
		switch {
		case err == nil:
			page.SelectedChoiceID = vote.ChoiceID
		case !errors.Is(err, store.ErrNotFound):
			// Not fatal: the form just starts unselected
			slog.Warn("failed to look up existing vote", "question_id", q.ID, "user_id", user.ID, "error", err)
		}
	}

	h.views.Render(w, http.StatusOK, views.PageDetail, page)
}

func (h *PollHandler) notFound(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusNotFound, views.PageNotFound, views.NotFoundPage{
		Base:    base(r),
		Message: "No question matches the given query.",
	})
}

// summarize attaches the eligibility flags used by the list views
func summarize(questions []models.Question, now time.Time) []models.QuestionSummary {
	summaries := make([]models.QuestionSummary, len(questions))
	for i, q := range questions {
		summaries[i] = models.QuestionSummary{
			Question:          q,
			CanVote:           q.CanVote(now),
			PublishedRecently: q.WasPublishedRecently(now),
		}
	}
	return summaries
}

func base(r *http.Request) views.Base {
	if u, ok := auth.CurrentUser(r.Context()); ok {
		return views.Base{User: &u}
	}
	return views.Base{}
}

func serverError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
