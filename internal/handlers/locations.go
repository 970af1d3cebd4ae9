// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"realtycms/internal/models"
)

type locationRequest struct {
	Name       string              `json:"name"`
	Slug       string              `json:"slug"`
	City       string              `json:"city"`
	State      string              `json:"state"`
	Country    string              `json:"country"`
	PostalCode string              `json:"postal_code"`
	Type       models.LocationType `json:"type"`
}

func (req *locationRequest) validate() fieldErrors {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	req.City = strings.TrimSpace(req.City)
	req.State = strings.TrimSpace(req.State)
	req.Country = strings.TrimSpace(req.Country)
	req.PostalCode = strings.TrimSpace(req.PostalCode)
	if req.Type == "" {
		req.Type = models.LocationCity
	}

	errs := fieldErrors{}
	errs.required("name", req.Name)
	errs.maxLen("name", req.Name, maxNameLen)
	errs.maxLen("slug", req.Slug, maxNameLen)
	errs.maxLen("city", req.City, maxNameLen)
	errs.maxLen("state", req.State, maxNameLen)
	errs.maxLen("country", req.Country, maxNameLen)
	errs.maxLen("postal_code", req.PostalCode, maxPostalLen)
	oneOf(errs, "type", req.Type, models.LocationCity, models.LocationNeighborhood, models.LocationRegion)
	return errs
}

func (req *locationRequest) apply(l *models.Location) {
	l.Name = req.Name
	l.Slug = req.Slug
	l.City = req.City
	l.State = req.State
	l.Country = req.Country
	l.PostalCode = req.PostalCode
	l.Type = req.Type
}

// LocationsList returns one page of locations.
func (a *Admin) LocationsList(w http.ResponseWriter, r *http.Request) {
	page, err := a.stores.Locations.List(r.Context(), listParams(r))
	if err != nil {
		fail(w, r, locationRes, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// LocationShow returns a single location.
func (a *Admin) LocationShow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", locationRes)
	if !ok {
		return
	}
	loc, err := a.stores.Locations.FindByID(r.Context(), id)
	if err != nil {
		fail(w, r, locationRes, err)
		return
	}
	if loc == nil {
		notFound(w, locationRes)
		return
	}
	respond(w, http.StatusOK, "", loc)
}

// LocationCreate creates a location.
func (a *Admin) LocationCreate(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	var loc models.Location
	req.apply(&loc)
	created, err := a.stores.Locations.Create(r.Context(), &loc)
	if err != nil {
		failWrite(w, r, locationRes, err)
		return
	}
	respond(w, http.StatusCreated, "Location created successfully.", created)
}

// LocationUpdate replaces the fields of a location.
func (a *Admin) LocationUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", locationRes)
	if !ok {
		return
	}
	var req locationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	loc := models.Location{ID: id}
	req.apply(&loc)
	updated, err := a.stores.Locations.Update(r.Context(), &loc)
	if err != nil {
		failWrite(w, r, locationRes, err)
		return
	}
	respond(w, http.StatusOK, "Location updated successfully.", updated)
}

// LocationDelete removes a location without properties.
func (a *Admin) LocationDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", locationRes)
	if !ok {
		return
	}
	if err := a.stores.Locations.Delete(r.Context(), id); err != nil {
		fail(w, r, locationRes, err)
		return
	}
	respond(w, http.StatusOK, "Location deleted successfully.", nil)
}
