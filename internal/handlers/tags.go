// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"realtycms/internal/models"
)

type tagRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (req *tagRequest) validate() fieldErrors {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)

	errs := fieldErrors{}
	errs.required("name", req.Name)
	errs.maxLen("name", req.Name, maxNameLen)
	errs.maxLen("slug", req.Slug, maxNameLen)
	return errs
}

// TagsList returns one page of tags.
func (a *Admin) TagsList(w http.ResponseWriter, r *http.Request) {
	page, err := a.stores.Tags.List(r.Context(), listParams(r))
	if err != nil {
		fail(w, r, tagRes, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// TagShow returns a single tag.
func (a *Admin) TagShow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", tagRes)
	if !ok {
		return
	}
	tag, err := a.stores.Tags.FindByID(r.Context(), id)
	if err != nil {
		fail(w, r, tagRes, err)
		return
	}
	if tag == nil {
		notFound(w, tagRes)
		return
	}
	respond(w, http.StatusOK, "", tag)
}

// TagCreate creates a tag.
func (a *Admin) TagCreate(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	created, err := a.stores.Tags.Create(r.Context(), &models.Tag{Name: req.Name, Slug: req.Slug})
	if err != nil {
		failWrite(w, r, tagRes, err)
		return
	}
	respond(w, http.StatusCreated, "Tag created successfully.", created)
}

// TagUpdate renames a tag.
func (a *Admin) TagUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", tagRes)
	if !ok {
		return
	}
	var req tagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	updated, err := a.stores.Tags.Update(r.Context(), &models.Tag{ID: id, Name: req.Name, Slug: req.Slug})
	if err != nil {
		failWrite(w, r, tagRes, err)
		return
	}
	respond(w, http.StatusOK, "Tag updated successfully.", updated)
}

// TagDelete removes a tag and its post links.
func (a *Admin) TagDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", tagRes)
	if !ok {
		return
	}
	if err := a.stores.Tags.Delete(r.Context(), id); err != nil {
		fail(w, r, tagRes, err)
		return
	}
	respond(w, http.StatusOK, "Tag deleted successfully.", nil)
}
