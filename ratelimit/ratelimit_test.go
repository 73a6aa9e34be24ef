// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestMemoryLimiter(t *testing.T) {
	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(3)
	l.now = c.now
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "client-a")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should be allowed", i+1)
	}

	ok, err := l.Allow(ctx, "client-a")
	require.NoError(t, err)
	assert.False(t, ok, "burst exhausted")

	ok, _ = l.Allow(ctx, "client-b")
	assert.True(t, ok, "other clients have their own bucket")

	// One token per 20s at 3/min
	c.t = c.t.Add(20 * time.Second)
	ok, _ = l.Allow(ctx, "client-a")
	assert.True(t, ok, "token refilled")
}

func TestMemoryLimiterSweepsIdleClients(t *testing.T) {
	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(1)
	l.now = c.now
	ctx := context.Background()

	l.Allow(ctx, "idle")
	c.t = c.t.Add(staleAfter + time.Minute)
	l.Allow(ctx, "active")

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.visitors, "idle")
	assert.Contains(t, l.visitors, "active")
}

func TestMemoryLimiterDisabled(t *testing.T) {
	l := NewMemoryLimiter(0)
	for i := 0; i < 100; i++ {
		ok, err := l.Allow(context.Background(), "k")
		require.NoError(t, err)
		require.True(t, ok)
	}
}

type stubLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.err
}

func TestMiddleware(t *testing.T) {
	next := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	}
	keyFn := func(r *http.Request) string { return r.RemoteAddr }

	tests := []struct {
		name       string
		limiter    *stubLimiter
		wantStatus int
	}{
		{"allowed", &stubLimiter{allowed: true}, http.StatusFound},
		{"limited", &stubLimiter{allowed: false}, http.StatusTooManyRequests},
		{"limiter error fails open", &stubLimiter{err: errors.New("redis down")}, http.StatusFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Middleware(tt.limiter, keyFn)(next)
			req := httptest.NewRequest("POST", "/polls/q1/vote/", nil)
			req.RemoteAddr = "192.0.2.1:1234"
			w := httptest.NewRecorder()

			h(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, []string{"192.0.2.1:1234"}, tt.limiter.keys)
			if tt.wantStatus == http.StatusTooManyRequests {
				assert.Equal(t, "5", w.Header().Get("Retry-After"))
			}
		})
	}
}
