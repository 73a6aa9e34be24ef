// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
)

//go:embed templates/*.html
var files embed.FS

// Page names
const (
	PageIndex    = "index"
	PageDetail   = "detail"
	PageResults  = "results"
	PageSignup   = "signup"
	PageLogin    = "login"
	PageNotFound = "notfound"
)

var pageNames = []string{PageIndex, PageDetail, PageResults, PageSignup, PageLogin, PageNotFound}

// Renderer executes the embedded page templates
type Renderer struct {
	pages map[string]*template.Template
	now   func() time.Time
}

// New parses every page together with the shared layout.
// now is used for relative times; nil means time.Now.
func New(now func() time.Time) (*Renderer, error) {
	if now == nil {
		now = time.Now
	}
	r := &Renderer{pages: make(map[string]*template.Template), now: now}

	funcs := template.FuncMap{
		"ago": func(t time.Time) string {
			return humanize.RelTime(t, r.now(), "ago", "from now")
		},
		"comma": func(n int) string {
			return humanize.Comma(int64(n))
		},
		"percent": func(p float64) string {
			return humanize.FtoaWithDigits(math.Round(p*10)/10, 1)
		},
		"plural": func(n int, one, many string) string {
			if n == 1 {
				return one
			}
			return many
		},
	}

	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = tmpl
	}

	return r, nil
}

// Render writes a full HTML page. The page is executed into a buffer first
// so a template error never produces a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := r.pages[page]
	if !ok {
		slog.Error("unknown page template", "page", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render template", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("failed to write response", "page", page, "error", err)
	}
}
