// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/polls/store"
	"github.com/danielhkuo/polls/views"
)

// testNow is the fixed clock every handler test runs at
var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func ptr(t time.Time) *time.Time { return &t }

func newTestRenderer(t *testing.T) *views.Renderer {
	t.Helper()
	v, err := views.New(fixedNow)
	if err != nil {
		t.Fatalf("Failed to parse templates: %v", err)
	}
	return v
}

func newTestPollHandler(t *testing.T, s *store.Store) *PollHandler {
	t.Helper()
	h := NewPollHandler(s, newTestRenderer(t))
	h.now = fixedNow
	return h
}

// serve runs a handler with the {id} path value set
func serve(h http.HandlerFunc, req *http.Request, id string) *httptest.ResponseRecorder {
	if id != "" {
		req.SetPathValue("id", id)
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}
