// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Domain types

type Question struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	PublishAt time.Time  `json:"publish_at"`
	EndAt     *time.Time `json:"end_at,omitempty"`
}

type Choice struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id"`
	Text       string `json:"text"`
}

// ChoiceResult is a choice with its derived vote count.
type ChoiceResult struct {
	Choice
	Votes int `json:"votes"`
}

type Vote struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"` // Never expose in JSON
	QuestionID string    `json:"question_id"`
	ChoiceID   string    `json:"choice_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
}

// Response types

type QuestionListResponse struct {
	Questions []QuestionSummary `json:"questions"`
}

type QuestionSummary struct {
	Question
	CanVote           bool `json:"can_vote"`
	PublishedRecently bool `json:"published_recently"`
}

type ResultsResponse struct {
	Question   Question       `json:"question"`
	Results    []RankedChoice `json:"results"`
	TotalVotes int            `json:"total_votes"`
	CanVote    bool           `json:"can_vote"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
