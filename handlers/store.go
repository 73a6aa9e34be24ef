// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielhkuo/polls/models"
)

// PollStore is the persistence the poll pages need
type PollStore interface {
	ListPublished(ctx context.Context, now time.Time) ([]models.Question, error)
	GetQuestion(ctx context.Context, id string) (models.Question, error)
	GetPublishedQuestion(ctx context.Context, id string, now time.Time) (models.Question, error)
	ListChoices(ctx context.Context, questionID string) ([]models.Choice, error)
	GetChoice(ctx context.Context, questionID, choiceID string) (models.Choice, error)
	ChoiceResults(ctx context.Context, questionID string) ([]models.ChoiceResult, error)
	UpsertVote(ctx context.Context, userID, questionID, choiceID string, now time.Time) (models.Vote, bool, error)
	GetUserVote(ctx context.Context, userID, questionID string) (models.Vote, error)
}

// AccountStore is the persistence signup and login need
type AccountStore interface {
	CreateUser(ctx context.Context, username, passwordHash string, now time.Time) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

// Sessions logs users in and out
type Sessions interface {
	SetCookie(w http.ResponseWriter, r *http.Request, u models.User) error
	ClearCookie(w http.ResponseWriter)
}
