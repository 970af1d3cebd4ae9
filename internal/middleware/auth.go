// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package middleware provides HTTP middleware for the RealtyCMS API server.
// Every rejection is written as a JSON error body so the admin client can
// handle failures uniformly.
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"

	"realtycms/internal/models"
	"realtycms/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const sessionKey contextKey = "session"

// SessionLoader reads the session attached to a request.
type SessionLoader interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
}

// LoadSession stores the request's session, if any, in the context.
// It does not enforce authentication.
func LoadSession(store SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				slog.Warn("session load failed", "error", err, "path", r.URL.Path)
			}
			if data != nil {
				r = r.WithContext(WithSession(r.Context(), data))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests without a session with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromCtx(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "Authentication required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Require2FA rejects sessions that have not completed the TOTP step.
// Must be applied after RequireAuth.
func Require2FA(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromCtx(r.Context())
		if sess == nil || !sess.TwoFADone {
			writeError(w, http.StatusForbidden, "Two-factor authentication required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns 403 unless the session has one of roles.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromCtx(r.Context())
			if sess == nil || !slices.Contains(roles, sess.Role) {
				writeError(w, http.StatusForbidden, "You do not have permission to do that.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is RequireRole(models.RoleAdmin).
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(models.RoleAdmin)(next)
}

// WithSession returns a context carrying data.
func WithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, sessionKey, data)
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if the request is not authenticated.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(sessionKey).(*session.Data)
	return data
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
