// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"realtycms/internal/models"
)

type propertyTypeRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (req *propertyTypeRequest) validate() fieldErrors {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)

	errs := fieldErrors{}
	errs.required("name", req.Name)
	errs.maxLen("name", req.Name, maxNameLen)
	errs.maxLen("slug", req.Slug, maxNameLen)
	errs.maxLen("description", req.Description, maxTextLen)
	return errs
}

// PropertyTypesList returns one page of property types.
func (a *Admin) PropertyTypesList(w http.ResponseWriter, r *http.Request) {
	page, err := a.stores.PropertyTypes.List(r.Context(), listParams(r))
	if err != nil {
		fail(w, r, propertyTypeRes, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// PropertyTypeShow returns a single property type.
func (a *Admin) PropertyTypeShow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", propertyTypeRes)
	if !ok {
		return
	}
	pt, err := a.stores.PropertyTypes.FindByID(r.Context(), id)
	if err != nil {
		fail(w, r, propertyTypeRes, err)
		return
	}
	if pt == nil {
		notFound(w, propertyTypeRes)
		return
	}
	respond(w, http.StatusOK, "", pt)
}

// PropertyTypeCreate creates a property type.
func (a *Admin) PropertyTypeCreate(w http.ResponseWriter, r *http.Request) {
	var req propertyTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	created, err := a.stores.PropertyTypes.Create(r.Context(), &models.PropertyType{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		failWrite(w, r, propertyTypeRes, err)
		return
	}
	respond(w, http.StatusCreated, "Property type created successfully.", created)
}

// PropertyTypeUpdate replaces the fields of a property type.
func (a *Admin) PropertyTypeUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", propertyTypeRes)
	if !ok {
		return
	}
	var req propertyTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	updated, err := a.stores.PropertyTypes.Update(r.Context(), &models.PropertyType{
		ID:          id,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		failWrite(w, r, propertyTypeRes, err)
		return
	}
	respond(w, http.StatusOK, "Property type updated successfully.", updated)
}

// PropertyTypeDelete removes a property type without properties.
func (a *Admin) PropertyTypeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", propertyTypeRes)
	if !ok {
		return
	}
	if err := a.stores.PropertyTypes.Delete(r.Context(), id); err != nil {
		fail(w, r, propertyTypeRes, err)
		return
	}
	respond(w, http.StatusOK, "Property type deleted successfully.", nil)
}
