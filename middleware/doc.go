// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /polls/{$}", middleware.WithLogging(handler))

Logs request start at debug level and completion (status, duration_ms) at
info level.

# Panic Recovery

	server := http.Server{Handler: middleware.Recover(mux)}

A panicking handler is logged and answered with 500.

# CORS Middleware

The JSON API under /api/ is readable from any origin:

	mux.Handle("GET /api/polls", middleware.CORS(handler))

Only GET and OPTIONS are allowed and credentials are never shared.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, "question not found")

# Client IP Extraction

Get the client IP. Forwarding headers (X-Forwarded-For, X-Real-IP) are
honoured only when the server sits behind a proxy that overwrites them:

	ip := middleware.GetClientIP(r, cfg.TrustProxy)

Used to key the rate limiter.
*/
package middleware
