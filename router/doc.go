// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP routes of the polls site.

# Route Registration

NewRouter builds the handlers and returns the complete http.Handler:

	handler, err := router.NewRouter(store, cfg, limiter)

Every request passes through panic recovery and the session middleware,
so handlers can call auth.CurrentUser.

# Endpoints

Health:

	GET /health

Poll pages (HTML):

	GET  /                      - Redirect to /polls/
	GET  /polls/                - Published questions, newest first
	GET  /polls/{id}/           - Question with vote form
	GET  /polls/{id}/results/   - Vote counts
	POST /polls/{id}/vote/      - Cast or change a vote (login required)

Accounts:

	GET/POST /accounts/signup/  - Create an account and log in
	GET/POST /accounts/login/   - Log in
	POST     /accounts/logout/  - Log out

JSON API (CORS enabled, read-only):

	GET /api/polls              - Published questions
	GET /api/polls/{id}/results - Ranked results

POST routes except logout are rate limited per client.
*/
package router
