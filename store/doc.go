// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists questions, choices, votes and users.

# Usage

	s := store.New(conn)
	questions, err := s.ListPublished(ctx, time.Now())

Every method takes a context and returns wrapped errors. Missing rows are
reported as ErrNotFound; a duplicate username as ErrUsernameTaken.

# Votes

UpsertVote is a single INSERT ... ON CONFLICT statement on
(user_id, question_id), so concurrent submissions by the same user leave
exactly one row. Vote counts are never stored; ChoiceResults and CountVotes
derive them with COUNT.

# Time

All timestamps are written in UTC with microsecond precision. Queries that
take a "now" argument compare against stored values directly.
*/
package store
