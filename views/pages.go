// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import "github.com/danielhkuo/polls/models"

// Base carries what the layout needs on every page
type Base struct {
	User *models.User
}

type IndexPage struct {
	Base
	Questions []models.QuestionSummary
}

type DetailPage struct {
	Base
	Question         models.Question
	Choices          []models.Choice
	SelectedChoiceID string
	CanVote          bool
	ErrorMessage     string
}

type ResultsPage struct {
	Base
	Question   models.Question
	Results    []models.RankedChoice
	TotalVotes int
	CanVote    bool
}

type SignupPage struct {
	Base
	Username     string
	ErrorMessage string
}

type LoginPage struct {
	Base
	Username     string
	Next         string
	ErrorMessage string
}

type NotFoundPage struct {
	Base
	Message string
}
