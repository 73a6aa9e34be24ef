// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/danielhkuo/polls/models"
	"github.com/danielhkuo/polls/store"
)

const (
	CookieName = "polls_session"
	LoginPath  = "/accounts/login/"
	issuer     = "polls"
)

var ErrInvalidSession = errors.New("invalid session")

// SessionClaims is the payload of a session token. Subject is the user ID.
type SessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// UserLookup resolves the user behind a session. A user that no longer
// exists is reported as store.ErrNotFound.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

// SessionManager issues and verifies HS256 session cookies
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	users  UserLookup
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration, users UserLookup) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		users:  users,
		now:    time.Now,
	}
}

// Issue creates a signed session token for the user
func (m *SessionManager) Issue(u models.User) (string, error) {
	now := m.now().UTC()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Username: u.Username,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return token, nil
}

// Parse validates a session token and returns its claims
func (m *SessionManager) Parse(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// SetCookie logs the user in on the response
func (m *SessionManager) SetCookie(w http.ResponseWriter, r *http.Request, u models.User) error {
	token, err := m.Issue(u)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie logs the caller out
func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware attaches the logged-in user to the request context.
// Requests with a missing or invalid session continue anonymously.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.Parse(cookie.Value)
		if err != nil {
			m.ClearCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		u, err := m.users.GetUserByID(r.Context(), claims.Subject)
		if errors.Is(err, store.ErrNotFound) {
			// Deleted accounts lose their session
			m.ClearCookie(w)
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			// Keep the cookie; the next request may succeed
			slog.Warn("session user lookup failed", "user_id", claims.Subject, "error", err)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

type userKey struct{}

func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// CurrentUser returns the logged-in user, if any
func CurrentUser(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey{}).(models.User)
	return u, ok
}

// LoginURL returns the login page that sends the user back to next
func LoginURL(next string) string {
	if next == "" {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// RequireUser redirects anonymous callers to the login page.
// returnTo picks the page to come back to; nil means the request path.
func RequireUser(returnTo func(*http.Request) string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r.Context()); ok {
			next(w, r)
			return
		}

		target := r.URL.Path
		if returnTo != nil {
			target = returnTo(r)
		}
		http.Redirect(w, r, LoginURL(target), http.StatusFound)
	}
}

// SafeNext returns next when it is a local path, otherwise fallback
func SafeNext(next, fallback string) string {
	if next == "" || next[0] != '/' || (len(next) > 1 && (next[1] == '/' || next[1] == '\\')) {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
