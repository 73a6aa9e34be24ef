// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP handlers for the polls site.

# Handler Types

Each handler is a struct over a narrow store interface:

  - PollHandler: question list, detail, results and voting (HTML)
  - AccountHandler: signup, login and logout
  - APIHandler: read-only JSON listing and results

Handlers are created via constructor functions:

	pollHandler := handlers.NewPollHandler(store, renderer)

# Eligibility

A question is listed and shown only once its publish time has passed.
Results are shown for any existing question. A vote is accepted only while
the question is published and not yet ended:

	GET  /polls/{$}                → Index (all published, newest first)
	GET  /polls/{id}/{$}           → Detail
	GET  /polls/{id}/results/{$}   → Results
	POST /polls/{id}/vote/{$}      → Vote (login required)

# Voting Flow

A signed-in user selects one choice. A first vote creates a record; a
later vote on the same question replaces the earlier choice. A missing or
foreign choice re-renders the detail page with "You didn't select a
choice." and writes nothing. Success redirects to the results page.

# Accounts

	GET/POST /accounts/signup/ → SignupForm, Signup
	GET/POST /accounts/login/  → LoginForm, Login
	POST     /accounts/logout/ → Logout

Sessions are issued through the Sessions interface, normally an
*auth.SessionManager.
*/
package handlers
