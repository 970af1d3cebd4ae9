package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"realtycms/internal/middleware"
	"realtycms/internal/session"
	"realtycms/internal/store"
)

// totpIssuer is shown in authenticator apps next to the account name.
const totpIssuer = "RealtyCMS"

// Auth groups the login, logout and 2FA handlers.
type Auth struct {
	sessions *session.Store
	users    *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, users *store.UserStore) *Auth {
	return &Auth{sessions: sessions, users: users}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Code string `json:"code"`
}

// Login checks the credentials and starts a session. The session is not
// usable for the admin API until the second factor is verified.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	errs := fieldErrors{}
	errs.required("email", req.Email)
	errs.required("password", req.Password)
	if !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	ctx := r.Context()
	user, err := a.users.FindByEmail(ctx, req.Email)
	if err != nil {
		fail(w, r, userRes, err)
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		slog.Warn("login failed", "email", req.Email, "ip", middleware.ClientIP(r))
		respondError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	if _, err := a.sessions.Create(ctx, w, &session.Data{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}); err != nil {
		fail(w, r, userRes, err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	respond(w, http.StatusOK, "Logged in.", map[string]any{
		"user":               user,
		"two_factor_enabled": user.TOTPEnabled,
		"two_factor_pending": true,
	})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	respond(w, http.StatusOK, "Logged out.", nil)
}

// Me returns the signed-in user and the state of their session.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil {
		fail(w, r, userRes, err)
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}
	respond(w, http.StatusOK, "", map[string]any{
		"user":            user,
		"two_fa_done":     sess.TwoFADone,
		"needs_2fa_setup": user.Needs2FASetup(),
	})
}

// TwoFASetup generates a new TOTP secret for a user who has not enrolled
// yet and returns it with a QR code as a PNG data URI.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	user, err := a.users.FindByID(ctx, sess.UserID)
	if err != nil {
		fail(w, r, userRes, err)
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}
	if user.TOTPEnabled {
		respondError(w, http.StatusConflict, "Two-factor authentication is already enabled.")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		fail(w, r, userRes, err)
		return
	}
	if err := a.users.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		fail(w, r, userRes, err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		fail(w, r, userRes, err)
		return
	}

	respond(w, http.StatusOK, "", map[string]string{
		"secret":      key.Secret(),
		"otpauth_url": key.URL(),
		"qr_code":     "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// TwoFAVerify checks a TOTP code. The first valid code enables 2FA for the
// account; every valid code completes the session's login.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" {
		respondInvalid(w, fieldErrors{"code": "The code field is required."})
		return
	}

	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	user, err := a.users.FindByID(ctx, sess.UserID)
	if err != nil {
		fail(w, r, userRes, err)
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}
	if user.TOTPSecret == nil {
		respondError(w, http.StatusConflict, "Set up two-factor authentication first.")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		slog.Warn("2fa verification failed", "user_id", user.ID, "ip", middleware.ClientIP(r))
		respondInvalid(w, fieldErrors{"code": "Invalid code. Please try again."})
		return
	}

	if !user.TOTPEnabled {
		if err := a.users.EnableTOTP(ctx, user.ID); err != nil {
			fail(w, r, userRes, err)
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(ctx, r, sess); err != nil {
		fail(w, r, userRes, err)
		return
	}
	respond(w, http.StatusOK, "Two-factor authentication verified.", nil)
}
