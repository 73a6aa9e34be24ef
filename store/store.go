// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/polls/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// Store persists questions, choices, votes and users.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// dbTime normalizes timestamps before they are written. SQLite compares
// timestamps as text, so every stored value must share one zone.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: dbTime(*t), Valid: true}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return true
		}
		return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE")
	}
	return false
}

// Questions

const questionColumns = `id, question_text, publish_at, end_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (models.Question, error) {
	var q models.Question
	var endAt sql.NullTime
	if err := row.Scan(&q.ID, &q.Text, &q.PublishAt, &endAt); err != nil {
		return models.Question{}, err
	}
	q.PublishAt = q.PublishAt.UTC()
	if endAt.Valid {
		end := endAt.Time.UTC()
		q.EndAt = &end
	}
	return q, nil
}

// CreateQuestion inserts a question. endAt may be nil.
func (s *Store) CreateQuestion(ctx context.Context, text string, publishAt time.Time, endAt *time.Time) (models.Question, error) {
	if endAt != nil && !endAt.After(publishAt) {
		return models.Question{}, errors.New("end time must be after publish time")
	}

	q := models.Question{
		ID:        uuid.NewString(),
		Text:      text,
		PublishAt: dbTime(publishAt),
	}
	end := nullTime(endAt)
	if end.Valid {
		q.EndAt = &end.Time
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO question (id, question_text, publish_at, end_at)
		VALUES ($1, $2, $3, $4)
	`, q.ID, q.Text, q.PublishAt, end)
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to insert question: %w", err)
	}

	return q, nil
}

// DeleteQuestion removes a question together with its choices and votes.
func (s *Store) DeleteQuestion(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM question WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return expectAffected(res)
}

// ListQuestions returns every question, newest publish time first.
func (s *Store) ListQuestions(ctx context.Context) ([]models.Question, error) {
	return s.queryQuestions(ctx, `
		SELECT `+questionColumns+`
		FROM question
		ORDER BY publish_at DESC, id
	`)
}

// ListPublished returns questions with publish_at <= now, newest first.
func (s *Store) ListPublished(ctx context.Context, now time.Time) ([]models.Question, error) {
	return s.queryQuestions(ctx, `
		SELECT `+questionColumns+`
		FROM question
		WHERE publish_at <= $1
		ORDER BY publish_at DESC, id
	`, dbTime(now))
}

func (s *Store) queryQuestions(ctx context.Context, query string, args ...any) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate questions: %w", err)
	}

	return questions, nil
}

// GetQuestion returns a question regardless of its publish time.
func (s *Store) GetQuestion(ctx context.Context, id string) (models.Question, error) {
	q, err := scanQuestion(s.db.QueryRowContext(ctx, `
		SELECT `+questionColumns+`
		FROM question
		WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Question{}, ErrNotFound
	}
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to query question: %w", err)
	}
	return q, nil
}

// GetPublishedQuestion returns ErrNotFound for unpublished questions.
func (s *Store) GetPublishedQuestion(ctx context.Context, id string, now time.Time) (models.Question, error) {
	q, err := scanQuestion(s.db.QueryRowContext(ctx, `
		SELECT `+questionColumns+`
		FROM question
		WHERE id = $1 AND publish_at <= $2
	`, id, dbTime(now)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Question{}, ErrNotFound
	}
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to query question: %w", err)
	}
	return q, nil
}

// Choices

// AddChoice appends a choice to a question.
func (s *Store) AddChoice(ctx context.Context, questionID, text string) (models.Choice, error) {
	c := models.Choice{
		ID:         uuid.NewString(),
		QuestionID: questionID,
		Text:       text,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO choice (id, question_id, choice_text, position)
		VALUES ($1, $2, $3, (SELECT COALESCE(MAX(position), 0) + 1 FROM choice WHERE question_id = $2))
	`, c.ID, c.QuestionID, c.Text)
	if err != nil {
		return models.Choice{}, fmt.Errorf("failed to insert choice: %w", err)
	}

	return c, nil
}

// DeleteChoice removes a choice and its votes.
func (s *Store) DeleteChoice(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM choice WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete choice: %w", err)
	}
	return expectAffected(res)
}

// ListChoices returns a question's choices in the order they were added.
func (s *Store) ListChoices(ctx context.Context, questionID string) ([]models.Choice, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question_id, choice_text
		FROM choice
		WHERE question_id = $1
		ORDER BY position, id
	`, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query choices: %w", err)
	}
	defer rows.Close()

	choices := []models.Choice{}
	for rows.Next() {
		var c models.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.Text); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		choices = append(choices, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate choices: %w", err)
	}

	return choices, nil
}

// GetChoice resolves a choice among the choices of one question.
func (s *Store) GetChoice(ctx context.Context, questionID, choiceID string) (models.Choice, error) {
	var c models.Choice
	err := s.db.QueryRowContext(ctx, `
		SELECT id, question_id, choice_text
		FROM choice
		WHERE id = $1 AND question_id = $2
	`, choiceID, questionID).Scan(&c.ID, &c.QuestionID, &c.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Choice{}, ErrNotFound
	}
	if err != nil {
		return models.Choice{}, fmt.Errorf("failed to query choice: %w", err)
	}
	return c, nil
}

// ChoiceResults returns a question's choices with their vote counts.
func (s *Store) ChoiceResults(ctx context.Context, questionID string) ([]models.ChoiceResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.question_id, c.choice_text, COUNT(v.id)
		FROM choice c
		LEFT JOIN vote v ON v.choice_id = c.id
		WHERE c.question_id = $1
		GROUP BY c.id, c.question_id, c.choice_text, c.position
		ORDER BY c.position, c.id
	`, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	results := []models.ChoiceResult{}
	for rows.Next() {
		var r models.ChoiceResult
		if err := rows.Scan(&r.ID, &r.QuestionID, &r.Text, &r.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}

	return results, nil
}

// Votes

// UpsertVote records the user's choice for a question in one statement.
// An existing vote for (user, question) is reassigned to the new choice.
// created reports whether a new row was inserted; CreatedAt is only set
// on the returned vote when it was.
func (s *Store) UpsertVote(ctx context.Context, userID, questionID, choiceID string, now time.Time) (vote models.Vote, created bool, err error) {
	newID := uuid.NewString()
	at := dbTime(now)

	vote = models.Vote{
		UserID:     userID,
		QuestionID: questionID,
		ChoiceID:   choiceID,
		UpdatedAt:  at,
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO vote (id, user_id, question_id, choice_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id, question_id) DO UPDATE
		SET choice_id = excluded.choice_id, updated_at = excluded.updated_at
		RETURNING id
	`, newID, userID, questionID, choiceID, at).Scan(&vote.ID)
	if err != nil {
		return models.Vote{}, false, fmt.Errorf("failed to upsert vote: %w", err)
	}

	created = vote.ID == newID
	if created {
		vote.CreatedAt = at
	}

	return vote, created, nil
}

// GetUserVote returns the user's vote for a question, or ErrNotFound.
func (s *Store) GetUserVote(ctx context.Context, userID, questionID string) (models.Vote, error) {
	var v models.Vote
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, question_id, choice_id, created_at, updated_at
		FROM vote
		WHERE user_id = $1 AND question_id = $2
	`, userID, questionID).Scan(&v.ID, &v.UserID, &v.QuestionID, &v.ChoiceID, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vote{}, ErrNotFound
	}
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to query vote: %w", err)
	}
	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = v.UpdatedAt.UTC()
	return v, nil
}

// CountVotes returns the derived vote count of a choice.
func (s *Store) CountVotes(ctx context.Context, choiceID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vote WHERE choice_id = $1`, choiceID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}

// Users

// CreateUser inserts an account. Returns ErrUsernameTaken on duplicates.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string, now time.Time) (models.User, error) {
	u := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    dbTime(now),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_user (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, u.ID, u.Username, u.PasswordHash, u.CreatedAt)
	if isUniqueViolation(err) {
		return models.User{}, ErrUsernameTaken
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return s.queryUser(ctx, `WHERE username = $1`, username)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (models.User, error) {
	return s.queryUser(ctx, `WHERE id = $1`, id)
}

func (s *Store) queryUser(ctx context.Context, where string, arg string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM app_user `+where, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
