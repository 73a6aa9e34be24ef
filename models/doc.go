// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain and response types for the poll site.

# Domain Types

  - Question: poll prompt with a publish window (PublishAt, optional EndAt)
  - Choice: selectable answer belonging to a Question
  - ChoiceResult: a Choice with its derived vote count
  - Vote: a user's current selection for a Question
  - User: account with a bcrypt password hash

# Eligibility

Every predicate takes the current time explicitly:

	q.IsPublished(now)          // now >= PublishAt
	q.WasPublishedRecently(now) // PublishAt <= now <= PublishAt+24h
	q.CanVote(now)              // published and (no EndAt or now < EndAt)
	q.IsClosed(now)             // EndAt set and now >= EndAt

# Results

Tally ranks choice results by vote count and computes each choice's share:

	ranked, total := models.Tally(results)

# Response Types

JSON payloads for the read-only API:

  - QuestionListResponse: questions
  - ResultsResponse: question, results, total_votes, can_vote
  - ErrorResponse: error, message
*/
package models
