// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter decides whether a client identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// staleAfter is how long an idle client's bucket is kept in memory
const staleAfter = 3 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps one token bucket per key in process memory.
// Suitable for a single server instance.
type MemoryLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryLimiter allows perMinute requests per key per minute, all of
// which may be spent at once. perMinute <= 0 disables limiting.
func NewMemoryLimiter(perMinute int) *MemoryLimiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    perMinute,
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1), nil
}

// sweep drops idle buckets at most once a minute. Caller holds mu.
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < time.Minute {
		return
	}
	l.lastSweep = now
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > staleAfter {
			delete(l.visitors, key)
		}
	}
}

// Middleware rejects requests over the limit with 429 Too Many Requests.
// Limiter errors are logged and the request is let through.
func Middleware(l Limiter, key func(*http.Request) string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			allowed, err := l.Allow(r.Context(), key(r))
			if err != nil {
				slog.Error("rate limiter failed", "path", r.URL.Path, "error", err)
				next(w, r)
				return
			}
			if !allowed {
				slog.Warn("rate limit exceeded", "method", r.Method, "path", r.URL.Path)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
				http.Error(w, "Too many requests. Please wait a moment and try again.", http.StatusTooManyRequests)
				return
			}
			next(w, r)
		}
	}
}

const retryAfterSeconds = 5
