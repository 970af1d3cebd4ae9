// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"realtycms/internal/handlers"
	"realtycms/internal/middleware"
	"realtycms/internal/models"
	"realtycms/internal/session"
)

// fakeSessions resolves the "sid" cookie to a fixed set of sessions.
type fakeSessions map[string]*session.Data

func (f fakeSessions) Get(_ context.Context, r *http.Request) (*session.Data, error) {
	c, err := r.Cookie("sid")
	if err != nil {
		return nil, nil
	}
	return f[c.Value], nil
}

var testSessions = fakeSessions{
	"admin":   {UserID: uuid.New(), Role: models.RoleAdmin, TwoFADone: true},
	"editor":  {UserID: uuid.New(), Role: models.RoleEditor, TwoFADone: true},
	"pending": {UserID: uuid.New(), Role: models.RoleAdmin},
}

func newTestRouter() chi.Router {
	return New(
		Config{Sessions: testSessions},
		handlers.NewAdmin(handlers.Stores{}, nil, nil, nil),
		handlers.NewAuth(nil, nil),
		handlers.NewPublic(nil, nil, nil),
	)
}

// request performs one request with the given session cookie and, when
// csrf is set, a matching CSRF cookie and header.
func request(t *testing.T, h http.Handler, method, path, sid, body string, csrf bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	if csrf {
		req.AddCookie(&http.Cookie{Name: middleware.CSRFCookieName, Value: "tok"})
		req.Header.Set(middleware.CSRFHeaderName, "tok")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := request(t, newTestRouter(), http.MethodGet, "/health", "", "", false)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

func TestUnknownRouteIsJSON(t *testing.T) {
	r := newTestRouter()

	rec := request(t, r, http.MethodGet, "/api/nope", "", "", false)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Errorf("body: %s", rec.Body.String())
	}

	rec = request(t, r, http.MethodPatch, "/health", "", "", false)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("PATCH /health: got %d, want 405", rec.Code)
	}
}

func TestAdminGuards(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		sid    string
		csrf   bool
		body   string
		want   int
	}{
		{"no session", http.MethodGet, "/api/admin/agents", "", false, "", http.StatusUnauthorized},
		{"2fa pending", http.MethodGet, "/api/admin/agents", "pending", false, "", http.StatusForbidden},
		{"missing csrf", http.MethodPost, "/api/admin/agents", "admin", false, `{}`, http.StatusForbidden},
		{"editor on users", http.MethodGet, "/api/admin/users", "editor", false, "", http.StatusForbidden},
		{"reaches handler", http.MethodPost, "/api/admin/agents", "admin", true, `{}`, http.StatusUnprocessableEntity},
		{"2fa routes skip 2fa check", http.MethodPost, "/api/auth/2fa/verify", "pending", true, `{}`, http.StatusUnprocessableEntity},
		{"2fa routes need session", http.MethodGet, "/api/auth/2fa/setup", "", false, "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := request(t, r, tt.method, tt.path, tt.sid, tt.body, tt.csrf)
			if rec.Code != tt.want {
				t.Errorf("%s %s: got %d, want %d (body %s)", tt.method, tt.path, rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestCommentRouteRateLimited(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, time.Minute)
	defer limiter.Stop()

	r := New(
		Config{Sessions: testSessions, CommentLimiter: limiter},
		handlers.NewAdmin(handlers.Stores{}, nil, nil, nil),
		handlers.NewAuth(nil, nil),
		handlers.NewPublic(nil, nil, nil),
	)

	// The first request uses up the allowance; the handler itself is not
	// under test here.
	request(t, r, http.MethodPost, "/api/posts/some-post/comments", "", `{}`, false)

	rec := request(t, r, http.MethodPost, "/api/posts/some-post/comments", "", `{}`, false)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status: got %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
}
