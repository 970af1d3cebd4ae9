// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"realtycms/internal/models"
)

type agentRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
	Bio           string `json:"bio"`
	IsActive      *bool  `json:"is_active"`
}

func (req *agentRequest) validate() fieldErrors {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.LicenseNumber = strings.TrimSpace(req.LicenseNumber)

	errs := fieldErrors{}
	errs.required("name", req.Name)
	errs.maxLen("name", req.Name, maxNameLen)
	errs.required("email", req.Email)
	errs.email("email", req.Email)
	errs.maxLen("email", req.Email, maxNameLen)
	errs.maxLen("phone", req.Phone, maxPhoneLen)
	errs.required("license_number", req.LicenseNumber)
	errs.maxLen("license_number", req.LicenseNumber, maxLicenseLen)
	errs.maxLen("bio", req.Bio, maxTextLen)
	return errs
}

func (req *agentRequest) apply(ag *models.Agent) {
	ag.Name = req.Name
	ag.Email = req.Email
	ag.Phone = req.Phone
	ag.LicenseNumber = req.LicenseNumber
	ag.Bio = req.Bio
	if req.IsActive != nil {
		ag.IsActive = *req.IsActive
	}
}

// AgentsList returns one page of agents.
func (a *Admin) AgentsList(w http.ResponseWriter, r *http.Request) {
	page, err := a.stores.Agents.List(r.Context(), listParams(r))
	if err != nil {
		fail(w, r, agentRes, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// AgentShow returns a single agent.
func (a *Admin) AgentShow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", agentRes)
	if !ok {
		return
	}
	agent, err := a.stores.Agents.FindByID(r.Context(), id)
	if err != nil {
		fail(w, r, agentRes, err)
		return
	}
	if agent == nil {
		notFound(w, agentRes)
		return
	}
	respond(w, http.StatusOK, "", agent)
}

// AgentCreate creates an agent. New agents are active unless the payload
// says otherwise.
func (a *Admin) AgentCreate(w http.ResponseWriter, r *http.Request) {
	var req agentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	agent := &models.Agent{IsActive: true}
	req.apply(agent)
	created, err := a.stores.Agents.Create(r.Context(), agent)
	if err != nil {
		failWrite(w, r, agentRes, err)
		return
	}
	respond(w, http.StatusCreated, "Agent created successfully.", created)
}

// AgentUpdate replaces the editable fields of an agent.
func (a *Admin) AgentUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", agentRes)
	if !ok {
		return
	}
	var req agentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	ctx := r.Context()
	agent, err := a.stores.Agents.FindByID(ctx, id)
	if err != nil {
		fail(w, r, agentRes, err)
		return
	}
	if agent == nil {
		notFound(w, agentRes)
		return
	}

	req.apply(agent)
	if err := a.stores.Agents.Update(ctx, agent); err != nil {
		failWrite(w, r, agentRes, err)
		return
	}
	updated, err := a.stores.Agents.FindByID(ctx, id)
	if err != nil {
		fail(w, r, agentRes, err)
		return
	}
	respond(w, http.StatusOK, "Agent updated successfully.", updated)
}

// AgentDelete removes an agent. Agents with properties are refused.
func (a *Admin) AgentDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", agentRes)
	if !ok {
		return
	}
	if err := a.stores.Agents.Delete(r.Context(), id); err != nil {
		fail(w, r, agentRes, err)
		return
	}
	respond(w, http.StatusOK, "Agent deleted successfully.", nil)
}
