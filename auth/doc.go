// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth handles passwords and login sessions.

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err := auth.CheckPassword(hash, password) // ErrPasswordMismatch on failure

# Sessions

A session is an HS256-signed JWT kept in the polls_session cookie
(HttpOnly, SameSite=Lax). The subject is the user ID:

	sessions := auth.NewSessionManager(secret, ttl, store)
	err := sessions.SetCookie(w, r, user)
	sessions.ClearCookie(w)

SessionManager.Middleware resolves the cookie to a user and stores it in the
request context. Invalid or expired cookies are cleared and the request
continues anonymously:

	user, ok := auth.CurrentUser(r.Context())

RequireUser redirects anonymous callers to /accounts/login/?next=...

# IP Hashing

Rate limit keys are derived from client addresses without storing them:

	key := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
