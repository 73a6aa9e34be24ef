// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"fmt"
	"net/http"

	"github.com/danielhkuo/polls/auth"
	"github.com/danielhkuo/polls/cliparse"
	"github.com/danielhkuo/polls/handlers"
	"github.com/danielhkuo/polls/middleware"
	"github.com/danielhkuo/polls/ratelimit"
	"github.com/danielhkuo/polls/store"
	"github.com/danielhkuo/polls/views"
)

// NewRouter wires every route. The returned handler resolves the session
// cookie before routing and recovers from handler panics.
func NewRouter(s *store.Store, cfg cliparse.Config, limiter ratelimit.Limiter) (http.Handler, error) {
	mux := http.NewServeMux()

	renderer, err := views.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	sessions := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL, s)

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(s, renderer)
	accountHandler := handlers.NewAccountHandler(s, sessions, renderer)
	apiHandler := handlers.NewAPIHandler(s)

	// Writes are throttled per client address
	limit := ratelimit.Middleware(limiter, func(r *http.Request) string {
		return auth.HashIP(middleware.GetClientIP(r, cfg.TrustProxy), cfg.SessionSecret)
	})

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/polls/", http.StatusFound)
	})

	// Poll pages
	mux.HandleFunc("GET /polls/{$}", middleware.WithLogging(pollHandler.Index))
	mux.HandleFunc("GET /polls/{id}/{$}", middleware.WithLogging(pollHandler.Detail))
	mux.HandleFunc("GET /polls/{id}/results/{$}", middleware.WithLogging(pollHandler.Results))
	mux.HandleFunc("POST /polls/{id}/vote/{$}", middleware.WithLogging(
		limit(auth.RequireUser(handlers.QuestionPath, pollHandler.Vote)),
	))

	// Accounts
	mux.HandleFunc("GET /accounts/signup/{$}", middleware.WithLogging(accountHandler.SignupForm))
	mux.HandleFunc("POST /accounts/signup/{$}", middleware.WithLogging(limit(accountHandler.Signup)))
	mux.HandleFunc("GET /accounts/login/{$}", middleware.WithLogging(accountHandler.LoginForm))
	mux.HandleFunc("POST /accounts/login/{$}", middleware.WithLogging(limit(accountHandler.Login)))
	mux.HandleFunc("POST /accounts/logout/{$}", middleware.WithLogging(accountHandler.Logout))

	// Read-only JSON API
	mux.Handle("GET /api/polls", middleware.CORS(middleware.WithLogging(apiHandler.ListQuestions)))
	mux.Handle("GET /api/polls/{id}/results", middleware.CORS(middleware.WithLogging(apiHandler.GetResults)))
	mux.Handle("OPTIONS /api/", middleware.CORS(http.NotFoundHandler()))

	return middleware.Recover(sessions.Middleware(mux)), nil
}
