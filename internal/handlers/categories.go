// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"realtycms/internal/models"
)

type categoryRequest struct {
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

func (req *categoryRequest) validate() fieldErrors {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)

	errs := fieldErrors{}
	errs.required("name", req.Name)
	errs.maxLen("name", req.Name, maxNameLen)
	errs.maxLen("slug", req.Slug, maxNameLen)
	errs.maxLen("description", req.Description, maxTextLen)
	return errs
}

func (req *categoryRequest) category(id uuid.UUID) *models.Category {
	return &models.Category{
		ID:          id,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ParentID:    req.ParentID,
	}
}

// CategoriesList returns one page of categories, or the whole nested tree
// with ?tree=1.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("tree") != "" {
		tree, err := a.stores.Categories.Tree(r.Context())
		if err != nil {
			fail(w, r, categoryRes, err)
			return
		}
		if tree == nil {
			tree = []models.Category{}
		}
		respond(w, http.StatusOK, "", tree)
		return
	}

	page, err := a.stores.Categories.List(r.Context(), listParams(r))
	if err != nil {
		fail(w, r, categoryRes, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// CategoryShow returns a single category.
func (a *Admin) CategoryShow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", categoryRes)
	if !ok {
		return
	}
	c, err := a.stores.Categories.FindByID(r.Context(), id)
	if err != nil {
		fail(w, r, categoryRes, err)
		return
	}
	if c == nil {
		notFound(w, categoryRes)
		return
	}
	respond(w, http.StatusOK, "", c)
}

// CategoryCreate creates a category, optionally nested under a parent.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	created, err := a.stores.Categories.Create(r.Context(), req.category(uuid.Nil))
	if err != nil {
		failWrite(w, r, categoryRes, err)
		return
	}
	respond(w, http.StatusCreated, "Category created successfully.", created)
}

// CategoryUpdate replaces the fields of a category. Nesting a category
// under itself or one of its descendants is refused.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", categoryRes)
	if !ok {
		return
	}
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	updated, err := a.stores.Categories.Update(r.Context(), req.category(id))
	if err != nil {
		failWrite(w, r, categoryRes, err)
		return
	}
	respond(w, http.StatusOK, "Category updated successfully.", updated)
}

// CategoryDelete removes a category. Its children move to the top level.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", categoryRes)
	if !ok {
		return
	}
	if err := a.stores.Categories.Delete(r.Context(), id); err != nil {
		fail(w, r, categoryRes, err)
		return
	}
	respond(w, http.StatusOK, "Category deleted successfully.", nil)
}
