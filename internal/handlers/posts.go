// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"realtycms/internal/markdown"
	"realtycms/internal/middleware"
	"realtycms/internal/models"
)

type postRequest struct {
	Title           string            `json:"title"`
	Slug            string            `json:"slug"`
	Excerpt         string            `json:"excerpt"`
	Body            string            `json:"body"`
	Status          models.PostStatus `json:"status"`
	PublishedAt     *time.Time        `json:"published_at"`
	MetaTitle       string            `json:"meta_title"`
	MetaDescription string            `json:"meta_description"`
	FeaturedImageID *uuid.UUID        `json:"featured_image_id"`
	// TagIDs and CategoryIDs replace the current links when present.
	TagIDs      []uuid.UUID `json:"tag_ids"`
	CategoryIDs []uuid.UUID `json:"category_ids"`
}

func (req *postRequest) validate() fieldErrors {
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(req.Slug)
	req.MetaTitle = strings.TrimSpace(req.MetaTitle)
	req.MetaDescription = strings.TrimSpace(req.MetaDescription)
	if req.Status == "" {
		req.Status = models.PostStatusDraft
	}

	errs := fieldErrors{}
	errs.required("title", req.Title)
	errs.maxLen("title", req.Title, maxTitleLen)
	errs.maxLen("slug", req.Slug, maxSlugLen)
	errs.maxLen("excerpt", req.Excerpt, maxExcerptLen)
	errs.maxLen("body", req.Body, maxBodyLen)
	errs.maxLen("meta_title", req.MetaTitle, maxTitleLen)
	errs.maxLen("meta_description", req.MetaDescription, maxMetaDescLen)
	if !req.Status.Valid() {
		errs.add("status", "The selected status is invalid.")
	}
	if req.Status == models.PostStatusScheduled && req.PublishedAt == nil {
		errs.add("published_at", "A scheduled post needs a publish date.")
	}
	return errs
}

// apply copies the payload onto p and renders the Markdown body.
func (req *postRequest) apply(p *models.Post) error {
	html, err := markdown.ToHTML(req.Body)
	if err != nil {
		return err
	}
	p.Title = req.Title
	p.Slug = req.Slug
	p.Excerpt = req.Excerpt
	p.Body = req.Body
	p.BodyHTML = html
	p.Status = req.Status
	if req.PublishedAt != nil {
		p.PublishedAt = req.PublishedAt
	}
	p.MetaTitle = req.MetaTitle
	p.MetaDescription = req.MetaDescription
	if req.TagIDs != nil {
		p.TagIDs = req.TagIDs
	}
	if req.CategoryIDs != nil {
		p.CategoryIDs = req.CategoryIDs
	}
	return nil
}

// PostsList returns one page of posts.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	page, err := a.stores.Posts.List(r.Context(), listParams(r))
	if err != nil {
		fail(w, r, postRes, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// PostShow returns a post with its tag and category ids.
func (a *Admin) PostShow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", postRes)
	if !ok {
		return
	}
	p, err := a.stores.Posts.FindByID(r.Context(), id)
	if err != nil {
		fail(w, r, postRes, err)
		return
	}
	if p == nil {
		notFound(w, postRes)
		return
	}
	respond(w, http.StatusOK, "", p)
}

// PostCreate creates a post authored by the current user.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	p := models.Post{AuthorID: sess.UserID, FeaturedImageID: req.FeaturedImageID}
	if err := req.apply(&p); err != nil {
		fail(w, r, postRes, err)
		return
	}

	created, err := a.stores.Posts.Create(r.Context(), &p)
	if err != nil {
		failWrite(w, r, postRes, err)
		return
	}
	respond(w, http.StatusCreated, "Post created successfully.", created)
}

// PostUpdate replaces the fields of a post. The author, counters and
// featured image are kept.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", postRes)
	if !ok {
		return
	}
	var req postRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	ctx := r.Context()
	p, err := a.stores.Posts.FindByID(ctx, id)
	if err != nil {
		fail(w, r, postRes, err)
		return
	}
	if p == nil {
		notFound(w, postRes)
		return
	}
	if err := req.apply(p); err != nil {
		fail(w, r, postRes, err)
		return
	}

	updated, err := a.stores.Posts.Update(ctx, p)
	if err != nil {
		failWrite(w, r, postRes, err)
		return
	}
	respond(w, http.StatusOK, "Post updated successfully.", updated)
}

// PostDelete removes a post together with its comments and links.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", postRes)
	if !ok {
		return
	}
	if err := a.stores.Posts.Delete(r.Context(), id); err != nil {
		fail(w, r, postRes, err)
		return
	}
	respond(w, http.StatusOK, "Post deleted successfully.", nil)
}
