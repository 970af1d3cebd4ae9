// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"realtycms/internal/middleware"
	"realtycms/internal/models"
)

// maxPasswordLen is bcrypt's input limit.
const maxPasswordLen = 72

type userRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// validate checks the payload. The password is mandatory only when
// creating a user.
func (req *userRequest) validate(creating bool) fieldErrors {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Role == "" {
		req.Role = models.RoleAuthor
	}

	errs := fieldErrors{}
	errs.required("name", req.Name)
	errs.maxLen("name", req.Name, maxNameLen)
	errs.required("email", req.Email)
	errs.email("email", req.Email)
	errs.maxLen("email", req.Email, maxNameLen)
	if creating {
		errs.required("password", req.Password)
	}
	if req.Password != "" && len(req.Password) < minPasswordLen {
		errs.add("password", "The password must be at least 8 characters.")
	}
	if len(req.Password) > maxPasswordLen {
		errs.add("password", "The password may not be greater than 72 bytes.")
	}
	if !req.Role.Valid() {
		errs.add("role", "The selected role is invalid.")
	}
	return errs
}

// UsersList returns one page of users.
func (a *Admin) UsersList(w http.ResponseWriter, r *http.Request) {
	page, err := a.stores.Users.List(r.Context(), listParams(r))
	if err != nil {
		fail(w, r, userRes, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// UserShow returns a single user.
func (a *Admin) UserShow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", userRes)
	if !ok {
		return
	}
	u, err := a.stores.Users.FindByID(r.Context(), id)
	if err != nil {
		fail(w, r, userRes, err)
		return
	}
	if u == nil {
		notFound(w, userRes)
		return
	}
	respond(w, http.StatusOK, "", u)
}

// UserCreate creates a user together with their personal team.
func (a *Admin) UserCreate(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(true); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	u, err := a.stores.Users.Create(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		failWrite(w, r, userRes, err)
		return
	}
	slog.Info("user created", "user_id", u.ID, "role", u.Role)
	respond(w, http.StatusCreated, "User created successfully.", u)
}

// UserUpdate changes a user's profile and, when given, their password.
func (a *Admin) UserUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", userRes)
	if !ok {
		return
	}
	var req userRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(false); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	if sess.UserID == id && req.Role != models.RoleAdmin {
		respondInvalid(w, fieldErrors{"role": "You cannot remove your own admin role."})
		return
	}

	u, err := a.stores.Users.Update(ctx, &models.User{ID: id, Name: req.Name, Email: req.Email, Role: req.Role})
	if err != nil {
		failWrite(w, r, userRes, err)
		return
	}
	if req.Password != "" {
		if err := a.stores.Users.UpdatePassword(ctx, id, req.Password); err != nil {
			fail(w, r, userRes, err)
			return
		}
	}
	respond(w, http.StatusOK, "User updated successfully.", u)
}

// UserResetTwoFA clears a user's TOTP enrollment so they set it up again
// on their next login.
func (a *Admin) UserResetTwoFA(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", userRes)
	if !ok {
		return
	}
	u, err := a.stores.Users.FindByID(r.Context(), id)
	if err != nil {
		fail(w, r, userRes, err)
		return
	}
	if u == nil {
		notFound(w, userRes)
		return
	}
	if err := a.stores.Users.ResetTOTP(r.Context(), id); err != nil {
		fail(w, r, userRes, err)
		return
	}
	slog.Info("2fa reset", "user_id", id)
	respond(w, http.StatusOK, "Two-factor authentication reset.", nil)
}

// UserDelete removes a user. Users cannot delete their own account.
func (a *Admin) UserDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", userRes)
	if !ok {
		return
	}
	sess := middleware.SessionFromCtx(r.Context())
	if sess.UserID == id {
		respondError(w, http.StatusForbidden, "You cannot delete your own account.")
		return
	}
	if err := a.stores.Users.Delete(r.Context(), id); err != nil {
		fail(w, r, userRes, err)
		return
	}
	respond(w, http.StatusOK, "User deleted successfully.", nil)
}
