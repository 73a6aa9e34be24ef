// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/polls/db"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.CreateSchema(ctx, conn))
	return New(conn)
}

func TestCreateQuestionRejectsEndBeforePublish(t *testing.T) {
	s := newTestStore(t)
	end := base.Add(-time.Hour)

	_, err := s.CreateQuestion(context.Background(), "Backwards?", base, &end)
	assert.Error(t, err)
}

func TestListPublished(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older, err := s.CreateQuestion(ctx, "Older", base.Add(-48*time.Hour), nil)
	require.NoError(t, err)
	newer, err := s.CreateQuestion(ctx, "Newer", base.Add(-time.Hour), nil)
	require.NoError(t, err)
	_, err = s.CreateQuestion(ctx, "Future", base.Add(time.Hour), nil)
	require.NoError(t, err)

	got, err := s.ListPublished(ctx, base)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)

	all, err := s.ListQuestions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListPublishedEmpty(t *testing.T) {
	s := newTestStore(t)

	got, err := s.ListPublished(context.Background(), base)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListPublishedIncludesExactPublishTime(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	q, err := s.CreateQuestion(ctx, "Right now", base, nil)
	require.NoError(t, err)

	got, err := s.ListPublished(ctx, base)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, q.ID, got[0].ID)
}

func TestGetPublishedQuestion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	end := base.Add(2 * time.Hour)

	past, err := s.CreateQuestion(ctx, "Past", base.Add(-time.Hour), &end)
	require.NoError(t, err)
	future, err := s.CreateQuestion(ctx, "Future", base.Add(time.Hour), nil)
	require.NoError(t, err)

	got, err := s.GetPublishedQuestion(ctx, past.ID, base)
	require.NoError(t, err)
	assert.Equal(t, "Past", got.Text)
	require.NotNil(t, got.EndAt)
	assert.True(t, end.Equal(*got.EndAt))
	assert.True(t, past.PublishAt.Equal(got.PublishAt))

	_, err = s.GetPublishedQuestion(ctx, future.ID, base)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetQuestion(ctx, future.ID)
	assert.NoError(t, err)

	_, err = s.GetQuestion(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChoicesKeepInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	q, err := s.CreateQuestion(ctx, "Pick", base, nil)
	require.NoError(t, err)

	var ids []string
	for _, text := range []string{"Zebra", "Apple", "Mango"} {
		c, err := s.AddChoice(ctx, q.ID, text)
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	choices, err := s.ListChoices(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, choices, 3)
	for i, c := range choices {
		assert.Equal(t, ids[i], c.ID)
	}
}

func TestGetChoiceScopedToQuestion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	q1, _ := s.CreateQuestion(ctx, "One", base, nil)
	q2, _ := s.CreateQuestion(ctx, "Two", base, nil)
	c2, err := s.AddChoice(ctx, q2.ID, "Other")
	require.NoError(t, err)

	_, err = s.GetChoice(ctx, q1.ID, c2.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.GetChoice(ctx, q2.ID, c2.ID)
	require.NoError(t, err)
	assert.Equal(t, "Other", got.Text)
}

func TestUpsertVote(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	q, _ := s.CreateQuestion(ctx, "Pick", base, nil)
	a, _ := s.AddChoice(ctx, q.ID, "A")
	b, _ := s.AddChoice(ctx, q.ID, "B")
	u, err := s.CreateUser(ctx, "alice", "hash", base)
	require.NoError(t, err)

	first, created, err := s.UpsertVote(ctx, u.ID, q.ID, a.ID, base)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := s.UpsertVote(ctx, u.ID, q.ID, b.ID, base.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	countA, err := s.CountVotes(ctx, a.ID)
	require.NoError(t, err)
	countB, err := s.CountVotes(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, countA)
	assert.Equal(t, 1, countB)

	v, err := s.GetUserVote(ctx, u.ID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, v.ChoiceID)
	assert.True(t, base.Equal(v.CreatedAt))
	assert.True(t, base.Add(time.Minute).Equal(v.UpdatedAt))
}

func TestUpsertVoteRejectsForeignChoice(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	q1, _ := s.CreateQuestion(ctx, "One", base, nil)
	q2, _ := s.CreateQuestion(ctx, "Two", base, nil)
	other, _ := s.AddChoice(ctx, q2.ID, "Other")
	u, _ := s.CreateUser(ctx, "alice", "hash", base)

	_, _, err := s.UpsertVote(ctx, u.ID, q1.ID, other.ID, base)
	assert.Error(t, err)
}

func TestDistinctUsersEachCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	q, _ := s.CreateQuestion(ctx, "Pick", base, nil)
	c, _ := s.AddChoice(ctx, q.ID, "Only")

	const voters = 5
	for i := 0; i < voters; i++ {
		u, err := s.CreateUser(ctx, fmt.Sprintf("voter%d", i), "hash", base)
		require.NoError(t, err)
		_, _, err = s.UpsertVote(ctx, u.ID, q.ID, c.ID, base)
		require.NoError(t, err)
	}

	count, err := s.CountVotes(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, voters, count)
}

func TestConcurrentVotesSameUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	q, _ := s.CreateQuestion(ctx, "Pick", base, nil)
	a, _ := s.AddChoice(ctx, q.ID, "A")
	b, _ := s.AddChoice(ctx, q.ID, "B")
	u, _ := s.CreateUser(ctx, "alice", "hash", base)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		choiceID := a.ID
		if i%2 == 1 {
			choiceID = b.ID
		}
		wg.Add(1)
		go func(choiceID string) {
			defer wg.Done()
			if _, _, err := s.UpsertVote(ctx, u.ID, q.ID, choiceID, base); err != nil {
				errs <- err
			}
		}(choiceID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("UpsertVote() error = %v", err)
	}

	results, err := s.ChoiceResults(ctx, q.ID)
	require.NoError(t, err)
	total := 0
	for _, r := range results {
		total += r.Votes
	}
	assert.Equal(t, 1, total)
}

func TestChoiceResults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	q, _ := s.CreateQuestion(ctx, "Pick", base, nil)
	a, _ := s.AddChoice(ctx, q.ID, "A")
	b, _ := s.AddChoice(ctx, q.ID, "B")
	for _, name := range []string{"u1", "u2", "u3"} {
		u, err := s.CreateUser(ctx, name, "hash", base)
		require.NoError(t, err)
		_, _, err = s.UpsertVote(ctx, u.ID, q.ID, b.ID, base)
		require.NoError(t, err)
	}

	results, err := s.ChoiceResults(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, a.ID, results[0].ID)
	assert.Equal(t, 0, results[0].Votes)
	assert.Equal(t, b.ID, results[1].ID)
	assert.Equal(t, 3, results[1].Votes)
}

func TestDeleteCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	q, _ := s.CreateQuestion(ctx, "Pick", base, nil)
	a, _ := s.AddChoice(ctx, q.ID, "A")
	b, _ := s.AddChoice(ctx, q.ID, "B")
	u1, _ := s.CreateUser(ctx, "u1", "hash", base)
	u2, _ := s.CreateUser(ctx, "u2", "hash", base)
	_, _, err := s.UpsertVote(ctx, u1.ID, q.ID, a.ID, base)
	require.NoError(t, err)
	_, _, err = s.UpsertVote(ctx, u2.ID, q.ID, b.ID, base)
	require.NoError(t, err)

	require.NoError(t, s.DeleteChoice(ctx, a.ID))
	_, err = s.GetUserVote(ctx, u1.ID, q.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteQuestion(ctx, q.ID))
	choices, err := s.ListChoices(ctx, q.ID)
	require.NoError(t, err)
	assert.Empty(t, choices)
	_, err = s.GetUserVote(ctx, u2.ID, q.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteQuestion(ctx, q.ID), ErrNotFound)
	assert.ErrorIs(t, s.DeleteChoice(ctx, "missing"), ErrNotFound)
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "alice", "hash", base)
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "alice", "other", base)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	byName, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	assert.Equal(t, "hash", byName.PasswordHash)

	byID, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	_, err = s.GetUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQueryErrorsAreWrapped(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	s := New(conn)
	boom := errors.New("connection reset")

	mock.ExpectQuery("SELECT (.+) FROM question").WillReturnError(boom)

	_, err = s.ListPublished(context.Background(), base)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to query questions")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUniqueViolationMapsToUsernameTaken(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	s := New(conn)
	mock.ExpectExec("INSERT INTO app_user").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	_, err = s.CreateUser(context.Background(), "alice", "hash", base)
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}
