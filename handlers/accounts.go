// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/polls/auth"
	"github.com/danielhkuo/polls/store"
	"github.com/danielhkuo/polls/views"
)

const (
	MsgSignupFailed = "username or password is incorrect."
	MsgLoginFailed  = "Please enter a correct username and password."

	maxUsernameLen = 150
)

// Letters, digits and @ . + - _
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]+$`)

type AccountHandler struct {
	store    AccountStore
	sessions Sessions
	views    *views.Renderer
	metrics  *metrics
	now      func() time.Time
}

func NewAccountHandler(s AccountStore, sessions Sessions, v *views.Renderer) *AccountHandler {
	return &AccountHandler{store: s, sessions: sessions, views: v, metrics: globalMetrics(), now: time.Now}
}

// SignupForm handles GET /accounts/signup/
func (h *AccountHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, views.PageSignup, views.SignupPage{Base: base(r)})
}

// Signup handles POST /accounts/signup/
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password1 := r.PostFormValue("password1")
	password2 := r.PostFormValue("password2")

	fail := func() {
		h.views.Render(w, http.StatusOK, views.PageSignup, views.SignupPage{
			Base:         base(r),
			Username:     username,
			ErrorMessage: MsgSignupFailed,
		})
	}

	if !validUsername(username) || password1 == "" || password1 != password2 {
		fail()
		return
	}

	hash, err := auth.HashPassword(password1)
	if err != nil {
		serverError(w, "failed to hash password", err)
		return
	}

	user, err := h.store.CreateUser(r.Context(), username, hash, h.now())
	if errors.Is(err, store.ErrUsernameTaken) {
		fail()
		return
	}
	if err != nil {
		serverError(w, "failed to create user", err)
		return
	}

	if err := h.sessions.SetCookie(w, r, user); err != nil {
		serverError(w, "failed to start session", err)
		return
	}
	h.metrics.signups.Add(r.Context(), 1)

	slog.Info("user signed up", "user_id", user.ID, "username", user.Username)

	http.Redirect(w, r, "/polls/", http.StatusFound)
}

// LoginForm handles GET /accounts/login/
func (h *AccountHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, views.PageLogin, views.LoginPage{
		Base: base(r),
		Next: auth.SafeNext(r.URL.Query().Get("next"), ""),
	})
}

// Login handles POST /accounts/login/
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	next := auth.SafeNext(r.PostFormValue("next"), "")

	user, err := h.store.GetUserByUsername(r.Context(), username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		serverError(w, "failed to query user", err)
		return
	}
	if err != nil || auth.CheckPassword(user.PasswordHash, password) != nil {
		h.metrics.login(r.Context(), false)
		h.views.Render(w, http.StatusOK, views.PageLogin, views.LoginPage{
			Base:         base(r),
			Username:     username,
			Next:         next,
			ErrorMessage: MsgLoginFailed,
		})
		return
	}

	if err := h.sessions.SetCookie(w, r, user); err != nil {
		serverError(w, "failed to start session", err)
		return
	}
	h.metrics.login(r.Context(), true)

	slog.Info("user logged in", "user_id", user.ID)

	http.Redirect(w, r, auth.SafeNext(next, "/polls/"), http.StatusFound)
}

// Logout handles POST /accounts/logout/
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	http.Redirect(w, r, "/polls/", http.StatusFound)
}

func validUsername(username string) bool {
	n := utf8.RuneCountInString(username)
	return n > 0 && n <= maxUsernameLen && usernamePattern.MatchString(username)
}
