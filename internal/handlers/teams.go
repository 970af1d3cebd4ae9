// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"realtycms/internal/middleware"
	"realtycms/internal/store"
)

// defaultMemberRole is given to members added without a role.
const defaultMemberRole = "editor"

type teamRequest struct {
	Name string `json:"name"`
}

func (req *teamRequest) validate() fieldErrors {
	req.Name = strings.TrimSpace(req.Name)
	errs := fieldErrors{}
	errs.required("name", req.Name)
	errs.maxLen("name", req.Name, maxNameLen)
	return errs
}

type memberRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

func (req *memberRequest) validate() fieldErrors {
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if req.Role == "" {
		req.Role = defaultMemberRole
	}
	errs := fieldErrors{}
	errs.requiredID("user_id", req.UserID)
	oneOf(errs, "role", req.Role, "admin", "editor", "viewer")
	return errs
}

// TeamsList returns one page of teams.
func (a *Admin) TeamsList(w http.ResponseWriter, r *http.Request) {
	page, err := a.stores.Teams.List(r.Context(), listParams(r))
	if err != nil {
		fail(w, r, teamRes, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// TeamShow returns a team with its members.
func (a *Admin) TeamShow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", teamRes)
	if !ok {
		return
	}
	t, err := a.stores.Teams.FindByID(r.Context(), id)
	if err != nil {
		fail(w, r, teamRes, err)
		return
	}
	if t == nil {
		notFound(w, teamRes)
		return
	}
	respond(w, http.StatusOK, "", t)
}

// TeamCreate creates a shared team owned by the current user.
func (a *Admin) TeamCreate(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	owner := middleware.SessionFromCtx(r.Context()).UserID
	t, err := a.stores.Teams.Create(r.Context(), req.Name, owner)
	if err != nil {
		failWrite(w, r, teamRes, err)
		return
	}
	respond(w, http.StatusCreated, "Team created successfully.", t)
}

// TeamUpdate renames a team.
func (a *Admin) TeamUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", teamRes)
	if !ok {
		return
	}
	var req teamRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	t, err := a.stores.Teams.Rename(r.Context(), id, req.Name)
	if err != nil {
		failWrite(w, r, teamRes, err)
		return
	}
	respond(w, http.StatusOK, "Team updated successfully.", t)
}

// TeamDelete removes a shared team. Personal teams are refused.
func (a *Admin) TeamDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", teamRes)
	if !ok {
		return
	}
	if err := a.stores.Teams.Delete(r.Context(), id); err != nil {
		fail(w, r, teamRes, err)
		return
	}
	respond(w, http.StatusOK, "Team deleted successfully.", nil)
}

// TeamAddMember adds a user to a team or changes their role.
func (a *Admin) TeamAddMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", teamRes)
	if !ok {
		return
	}
	var req memberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	ctx := r.Context()
	t, err := a.stores.Teams.FindByID(ctx, id)
	if err != nil {
		fail(w, r, teamRes, err)
		return
	}
	if t == nil {
		notFound(w, teamRes)
		return
	}
	if t.OwnerID == req.UserID {
		respondInvalid(w, fieldErrors{"user_id": "The owner's role cannot be changed."})
		return
	}
	u, err := a.stores.Users.FindByID(ctx, req.UserID)
	if err != nil {
		fail(w, r, userRes, err)
		return
	}
	if u == nil {
		respondInvalid(w, fieldErrors{"user_id": "The selected user is invalid."})
		return
	}

	if err := a.stores.Teams.AddMember(ctx, id, req.UserID, req.Role); err != nil {
		failWrite(w, r, teamRes, err)
		return
	}
	t, err = a.stores.Teams.FindByID(ctx, id)
	if err != nil {
		fail(w, r, teamRes, err)
		return
	}
	respond(w, http.StatusOK, "Member added successfully.", t)
}

// TeamRemoveMember removes a user from a team. The owner stays.
func (a *Admin) TeamRemoveMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", teamRes)
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userID", userRes)
	if !ok {
		return
	}
	if err := a.stores.Teams.RemoveMember(r.Context(), id, userID); err != nil {
		fail(w, r, teamRes, err)
		return
	}
	respond(w, http.StatusOK, "Member removed successfully.", nil)
}

// TeamSwitch makes the team the current team of the signed-in user.
func (a *Admin) TeamSwitch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", teamRes)
	if !ok {
		return
	}
	userID := middleware.SessionFromCtx(r.Context()).UserID
	err := a.stores.Users.SwitchTeam(r.Context(), userID, id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusForbidden, "You are not a member of this team.")
		return
	}
	if err != nil {
		fail(w, r, teamRes, err)
		return
	}
	respond(w, http.StatusOK, "Team switched.", map[string]uuid.UUID{"current_team_id": id})
}
