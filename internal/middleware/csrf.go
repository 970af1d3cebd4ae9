package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
)

const (
	csrfTokenLength = 32

	// CSRFCookieName is the cookie that holds the CSRF token. The admin
	// client reads it and echoes it back in CSRFHeaderName.
	CSRFCookieName = "rc_csrf"

	// CSRFHeaderName carries the token on state-changing requests.
	CSRFHeaderName = "X-CSRF-Token"
)

const csrfTokenKey contextKey = "csrf_token"

// NewCSRF returns double-submit cookie CSRF protection. A token cookie is
// issued when missing; POST, PUT, PATCH and DELETE requests must repeat it
// in the X-CSRF-Token header.
func NewCSRF(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(CSRFCookieName); err == nil {
				token = c.Value
			}
			if token == "" {
				var err error
				token, err = generateCSRFToken()
				if err != nil {
					writeError(w, http.StatusInternalServerError, "Internal Server Error")
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CSRFCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: false, // read by the admin client
					Secure:   secure,
					SameSite: http.SameSiteStrictMode,
				})
			}
			r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey, token))

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			submitted := r.Header.Get(CSRFHeaderName)
			if submitted == "" || subtle.ConstantTimeCompare([]byte(token), []byte(submitted)) != 1 {
				writeError(w, http.StatusForbidden, "CSRF token mismatch.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CSRFTokenFromCtx returns the token for the current request.
func CSRFTokenFromCtx(ctx context.Context) string {
	t, _ := ctx.Value(csrfTokenKey).(string)
	return t
}

func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
