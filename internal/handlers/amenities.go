// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"realtycms/internal/models"
)

type amenityRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

func (req *amenityRequest) validate() fieldErrors {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	req.Icon = strings.TrimSpace(req.Icon)

	errs := fieldErrors{}
	errs.required("name", req.Name)
	errs.maxLen("name", req.Name, maxNameLen)
	errs.maxLen("slug", req.Slug, maxNameLen)
	errs.maxLen("icon", req.Icon, maxIconLen)
	errs.maxLen("description", req.Description, maxTextLen)
	return errs
}

func (req *amenityRequest) apply(am *models.Amenity) {
	am.Name = req.Name
	am.Slug = req.Slug
	am.Icon = req.Icon
	am.Description = req.Description
}

// AmenitiesList returns one page of amenities. ?all=1 returns every
// amenity unpaginated for pickers.
func (a *Admin) AmenitiesList(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("all") != "" {
		all, err := a.stores.Amenities.All(r.Context())
		if err != nil {
			fail(w, r, amenityRes, err)
			return
		}
		if all == nil {
			all = []models.Amenity{}
		}
		respond(w, http.StatusOK, "", all)
		return
	}

	page, err := a.stores.Amenities.List(r.Context(), listParams(r))
	if err != nil {
		fail(w, r, amenityRes, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// AmenityShow returns a single amenity.
func (a *Admin) AmenityShow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", amenityRes)
	if !ok {
		return
	}
	amenity, err := a.stores.Amenities.FindByID(r.Context(), id)
	if err != nil {
		fail(w, r, amenityRes, err)
		return
	}
	if amenity == nil {
		notFound(w, amenityRes)
		return
	}
	respond(w, http.StatusOK, "", amenity)
}

// AmenityCreate creates an amenity. The slug is derived from the name
// unless one is submitted.
func (a *Admin) AmenityCreate(w http.ResponseWriter, r *http.Request) {
	var req amenityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	var amenity models.Amenity
	req.apply(&amenity)
	created, err := a.stores.Amenities.Create(r.Context(), &amenity)
	if err != nil {
		failWrite(w, r, amenityRes, err)
		return
	}
	respond(w, http.StatusCreated, "Amenity created successfully.", created)
}

// AmenityUpdate replaces the fields of an amenity.
func (a *Admin) AmenityUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", amenityRes)
	if !ok {
		return
	}
	var req amenityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	amenity := models.Amenity{ID: id}
	req.apply(&amenity)
	updated, err := a.stores.Amenities.Update(r.Context(), &amenity)
	if err != nil {
		failWrite(w, r, amenityRes, err)
		return
	}
	respond(w, http.StatusOK, "Amenity updated successfully.", updated)
}

// AmenityDelete removes an amenity that no property uses.
func (a *Admin) AmenityDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", amenityRes)
	if !ok {
		return
	}
	if err := a.stores.Amenities.Delete(r.Context(), id); err != nil {
		fail(w, r, amenityRes, err)
		return
	}
	respond(w, http.StatusOK, "Amenity deleted successfully.", nil)
}
