// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func csrfCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == CSRFCookieName {
			return c
		}
	}
	t.Fatal("CSRF cookie not set")
	return nil
}

func TestNewCSRFSecureFlag(t *testing.T) {
	for _, secure := range []bool{true, false} {
		next, _ := okHandler()
		rr := httptest.NewRecorder()
		NewCSRF(secure)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

		c := csrfCookie(t, rr)
		if c.Secure != secure {
			t.Errorf("Secure = %v, want %v", c.Secure, secure)
		}
		if c.SameSite != http.SameSiteStrictMode || c.HttpOnly || len(c.Value) != csrfTokenLength*2 {
			t.Errorf("cookie = %+v", c)
		}
	}
}

func TestCSRF(t *testing.T) {
	next, _ := okHandler()
	h := NewCSRF(false)(next)

	getRR := httptest.NewRecorder()
	h.ServeHTTP(getRR, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := csrfCookie(t, getRR)

	tests := []struct {
		name   string
		method string
		header string
		want   int
	}{
		{"post without token", http.MethodPost, "", http.StatusForbidden},
		{"post with wrong token", http.MethodPost, "nope", http.StatusForbidden},
		{"post with token", http.MethodPost, cookie.Value, http.StatusOK},
		{"put with token", http.MethodPut, cookie.Value, http.StatusOK},
		{"delete without token", http.MethodDelete, "", http.StatusForbidden},
		{"patch without token", http.MethodPatch, "", http.StatusForbidden},
		{"head without token", http.MethodHead, "", http.StatusOK},
		{"options without token", http.MethodOptions, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			req.AddCookie(cookie)
			if tt.header != "" {
				req.Header.Set(CSRFHeaderName, tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("code = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestCSRF_NoCookieRejectsPost(t *testing.T) {
	next, called := okHandler()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(CSRFHeaderName, "anything")
	rr := httptest.NewRecorder()
	NewCSRF(false)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden || *called {
		t.Errorf("code %d, called %v", rr.Code, *called)
	}
}

func TestCSRFTokenFromCtx(t *testing.T) {
	var fromCtx string
	h := NewCSRF(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = CSRFTokenFromCtx(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if fromCtx == "" || fromCtx != csrfCookie(t, rr).Value {
		t.Errorf("context token %q does not match cookie", fromCtx)
	}

	// An existing cookie is reused, not rotated.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "existing"})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if fromCtx != "existing" || len(rr.Result().Cookies()) != 0 {
		t.Errorf("token = %q, cookies = %v", fromCtx, rr.Result().Cookies())
	}
}
