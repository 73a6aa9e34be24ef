// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/polls/auth"
	"github.com/danielhkuo/polls/cliparse"
	"github.com/danielhkuo/polls/db"
	"github.com/danielhkuo/polls/models"
	"github.com/danielhkuo/polls/store"
)

// TestSessionSecret signs session cookies in tests
const TestSessionSecret = "test-session-secret"

// SetupTestDB creates a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, cliparse.DatabaseSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(ctx, conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore returns a store over a fresh test database
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(SetupTestDB(t))
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   ":memory:",
		DatabaseType:  cliparse.DatabaseSQLite,
		SessionSecret: TestSessionSecret,
		SessionTTL:    time.Hour,
		RateLimit:     1000,
	}
}

// CreateTestQuestion inserts a question; endAt may be nil
func CreateTestQuestion(t *testing.T, s *store.Store, text string, publishAt time.Time, endAt *time.Time) models.Question {
	t.Helper()

	q, err := s.CreateQuestion(context.Background(), text, publishAt, endAt)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}
	return q
}

// AddTestChoice adds a choice to a question
func AddTestChoice(t *testing.T, s *store.Store, questionID, text string) models.Choice {
	t.Helper()

	c, err := s.AddChoice(context.Background(), questionID, text)
	if err != nil {
		t.Fatalf("Failed to create test choice: %v", err)
	}
	return c
}

// CreateTestUser creates an account with a bcrypt-hashed password
func CreateTestUser(t *testing.T, s *store.Store, username, password string) models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	u, err := s.CreateUser(context.Background(), username, hash, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return u
}

// CastTestVote records a vote directly in the store
func CastTestVote(t *testing.T, s *store.Store, userID, questionID, choiceID string) {
	t.Helper()

	if _, _, err := s.UpsertVote(context.Background(), userID, questionID, choiceID, time.Now()); err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
}

// CountVotes returns the number of votes for a choice
func CountVotes(t *testing.T, s *store.Store, choiceID string) int {
	t.Helper()

	n, err := s.CountVotes(context.Background(), choiceID)
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	return n
}

// SessionCookie returns a valid session cookie for the user
func SessionCookie(t *testing.T, sessions *auth.SessionManager, u models.User) *http.Cookie {
	t.Helper()

	token, err := sessions.Issue(u)
	if err != nil {
		t.Fatalf("Failed to issue session: %v", err)
	}
	return &http.Cookie{Name: auth.CookieName, Value: token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, headers map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

// MakeFormRequest creates a URL-encoded form submission
func MakeFormRequest(method, path string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// AsUser attaches a logged-in user to the request context
func AsUser(req *http.Request, u models.User) *http.Request {
	return req.WithContext(auth.WithUser(req.Context(), u))
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertRedirect checks for a 302 to the expected location
func AssertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	AssertStatus(t, w, http.StatusFound)
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("Expected redirect to %q, got %q", location, got)
	}
}

// AssertContains checks that the response body contains substr
func AssertContains(t *testing.T, w *httptest.ResponseRecorder, substr string) {
	t.Helper()
	if !strings.Contains(w.Body.String(), substr) {
		t.Errorf("Expected body to contain %q. Body: %s", substr, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
