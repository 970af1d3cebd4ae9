// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"realtycms/internal/events"
	"realtycms/internal/markdown"
	"realtycms/internal/middleware"
	"realtycms/internal/models"
	"realtycms/internal/moderation"
)

// commentEvent builds the event published after a moderation action.
func commentEvent(typ events.Type, c *models.Comment) events.Event {
	postID := c.PostID
	return events.Event{
		Type:      typ,
		CommentID: c.ID,
		PostID:    &postID,
		Status:    string(c.Status),
	}
}

type commentCreateRequest struct {
	PostID   uuid.UUID         `json:"post_id"`
	ParentID *uuid.UUID        `json:"parent_id"`
	Content  string            `json:"content"`
	Status   moderation.Status `json:"status"`
}

func (req *commentCreateRequest) validate() fieldErrors {
	req.Content = markdown.SanitizeComment(strings.TrimSpace(req.Content))

	errs := fieldErrors{}
	errs.requiredID("post_id", req.PostID)
	errs.required("content", req.Content)
	errs.maxLen("content", req.Content, maxCommentLen)
	if req.Status != "" && !req.Status.Valid() {
		errs.add("status", "The selected status is invalid.")
	}
	return errs
}

type commentUpdateRequest struct {
	Content      string          `json:"content"`
	GuestName    *string         `json:"guest_name"`
	GuestEmail   *string         `json:"guest_email"`
	GuestWebsite *string         `json:"guest_website"`
	Metadata     json.RawMessage `json:"metadata"`
}

func (req *commentUpdateRequest) validate() fieldErrors {
	req.Content = markdown.SanitizeComment(strings.TrimSpace(req.Content))
	req.GuestName = trimPtr(req.GuestName)
	req.GuestEmail = trimPtr(req.GuestEmail)
	req.GuestWebsite = trimPtr(req.GuestWebsite)

	errs := fieldErrors{}
	errs.required("content", req.Content)
	errs.maxLen("content", req.Content, maxCommentLen)
	if req.GuestName != nil {
		errs.maxLen("guest_name", *req.GuestName, maxNameLen)
	}
	if req.GuestEmail != nil {
		errs.email("guest_email", *req.GuestEmail)
	}
	if req.GuestWebsite != nil {
		errs.maxLen("guest_website", *req.GuestWebsite, maxWebsiteLen)
	}
	if len(req.Metadata) > 0 {
		var obj map[string]any
		if err := json.Unmarshal(req.Metadata, &obj); err != nil {
			errs.add("metadata", "The metadata must be a JSON object.")
		}
	}
	return errs
}

type bulkRequest struct {
	IDs    []uuid.UUID `json:"ids"`
	Action string      `json:"action"`
}

// CommentsList returns one page of comments. Filters: status, post_id,
// parent_id and is_featured.
func (a *Admin) CommentsList(w http.ResponseWriter, r *http.Request) {
	page, err := a.stores.Comments.List(r.Context(), listParams(r))
	if err != nil {
		fail(w, r, commentRes, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// CommentShow returns a comment with its direct replies.
func (a *Admin) CommentShow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", commentRes)
	if !ok {
		return
	}
	ctx := r.Context()
	c, err := a.stores.Comments.FindByID(ctx, id)
	if err != nil {
		fail(w, r, commentRes, err)
		return
	}
	if c == nil {
		notFound(w, commentRes)
		return
	}
	if c.Replies, err = a.stores.Comments.Replies(ctx, id); err != nil {
		fail(w, r, commentRes, err)
		return
	}
	respond(w, http.StatusOK, "", c)
}

// CommentCreate posts a comment as the current user. Comments created as
// approved are counted right away.
func (a *Admin) CommentCreate(w http.ResponseWriter, r *http.Request) {
	var req commentCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	ctx := r.Context()
	post, err := a.stores.Posts.FindByID(ctx, req.PostID)
	if err != nil {
		fail(w, r, postRes, err)
		return
	}
	if post == nil {
		respondInvalid(w, fieldErrors{"post_id": "The selected post is invalid."})
		return
	}

	sess := middleware.SessionFromCtx(ctx)
	userID := sess.UserID
	created, err := a.stores.Comments.Create(ctx, &models.Comment{
		PostID:     req.PostID,
		ParentID:   req.ParentID,
		UserID:     &userID,
		Content:    req.Content,
		Status:     req.Status,
		ApprovedBy: &userID,
		IPAddress:  middleware.ClientIP(r),
		UserAgent:  r.UserAgent(),
	})
	if err != nil {
		failWrite(w, r, commentRes, err)
		return
	}
	if created.Status == moderation.Approved {
		a.events.Publish(ctx, commentEvent(events.CommentApproved, created))
	}
	respond(w, http.StatusCreated, "Comment created successfully.", created)
}

// CommentUpdate edits the text fields of a comment. Status changes go
// through the moderation endpoints.
func (a *Admin) CommentUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", commentRes)
	if !ok {
		return
	}
	var req commentUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	ctx := r.Context()
	c, err := a.stores.Comments.FindByID(ctx, id)
	if err != nil {
		fail(w, r, commentRes, err)
		return
	}
	if c == nil {
		notFound(w, commentRes)
		return
	}

	c.Content = req.Content
	c.GuestName = req.GuestName
	c.GuestEmail = req.GuestEmail
	c.GuestWebsite = req.GuestWebsite
	if len(req.Metadata) > 0 {
		c.Metadata = req.Metadata
	}
	updated, err := a.stores.Comments.Update(ctx, c)
	if err != nil {
		failWrite(w, r, commentRes, err)
		return
	}
	respond(w, http.StatusOK, "Comment updated successfully.", updated)
}

// CommentApprove approves a comment.
func (a *Admin) CommentApprove(w http.ResponseWriter, r *http.Request) {
	a.moderate(w, r, moderation.ActionApprove, "Comment approved.")
}

// CommentReject rejects a comment.
func (a *Admin) CommentReject(w http.ResponseWriter, r *http.Request) {
	a.moderate(w, r, moderation.ActionReject, "Comment rejected.")
}

// CommentSpam marks a comment as spam.
func (a *Admin) CommentSpam(w http.ResponseWriter, r *http.Request) {
	a.moderate(w, r, moderation.ActionSpam, "Comment marked as spam.")
}

// moderate applies a status action to the comment in the URL on behalf of
// the current user and publishes the matching event.
func (a *Admin) moderate(w http.ResponseWriter, r *http.Request, action moderation.Action, msg string) {
	id, ok := pathID(w, r, "id", commentRes)
	if !ok {
		return
	}
	to, ok := action.Target()
	if !ok {
		fail(w, r, commentRes, fmt.Errorf("%w: %q", moderation.ErrUnknownAction, action))
		return
	}

	ctx := r.Context()
	actor := middleware.SessionFromCtx(ctx).UserID
	c, effect, err := a.stores.Comments.Moderate(ctx, id, to, &actor)
	if err != nil {
		fail(w, r, commentRes, err)
		return
	}
	if effect.Changed() {
		a.events.Publish(ctx, commentEvent(events.TypeFor(action), c))
	}
	respond(w, http.StatusOK, msg, c)
}

// CommentToggleFeatured flips the featured flag of a comment.
func (a *Admin) CommentToggleFeatured(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", commentRes)
	if !ok {
		return
	}
	ctx := r.Context()
	featured, err := a.stores.Comments.ToggleFeatured(ctx, id)
	if err != nil {
		fail(w, r, commentRes, err)
		return
	}
	c, err := a.stores.Comments.FindByID(ctx, id)
	if err != nil {
		fail(w, r, commentRes, err)
		return
	}
	if c != nil {
		a.events.Publish(ctx, commentEvent(events.CommentFeatured, c))
	}

	msg := "Comment unfeatured."
	if featured {
		msg = "Comment featured."
	}
	respond(w, http.StatusOK, msg, map[string]bool{"is_featured": featured})
}

// CommentLike increments the like counter of a comment.
func (a *Admin) CommentLike(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", commentRes)
	if !ok {
		return
	}
	likes, err := a.stores.Comments.Like(r.Context(), id)
	if err != nil {
		fail(w, r, commentRes, err)
		return
	}
	respond(w, http.StatusOK, "Comment liked.", map[string]int{"likes_count": likes})
}

// CommentDelete removes a comment and its replies.
func (a *Admin) CommentDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", commentRes)
	if !ok {
		return
	}
	ctx := r.Context()
	c, err := a.stores.Comments.Delete(ctx, id)
	if err != nil {
		fail(w, r, commentRes, err)
		return
	}
	a.events.Publish(ctx, commentEvent(events.CommentDeleted, c))
	respond(w, http.StatusOK, "Comment deleted successfully.", nil)
}

// CommentsBulk applies one action to many comments at once. Any unknown
// id aborts the whole request.
func (a *Admin) CommentsBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	errs := fieldErrors{}
	action, err := moderation.ParseAction(req.Action)
	if err != nil {
		errs.add("action", "The selected action is invalid.")
	}
	switch {
	case len(req.IDs) == 0:
		errs.add("ids", "Select at least one comment.")
	case len(req.IDs) > maxBulkIDs:
		errs.add("ids", fmt.Sprintf("At most %d comments can be changed at once.", maxBulkIDs))
	}
	if !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	ctx := r.Context()
	actor := middleware.SessionFromCtx(ctx).UserID
	result, err := a.stores.Comments.Bulk(ctx, req.IDs, action, &actor)
	if err != nil {
		fail(w, r, commentRes, err)
		return
	}

	status := "deleted"
	if to, ok := action.Target(); ok {
		status = string(to)
	}
	batch := make([]events.Event, 0, result.Affected)
	seen := make(map[uuid.UUID]bool, len(req.IDs))
	for _, id := range req.IDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if effect, ok := result.Effects[id]; ok && !effect.Changed() {
			continue
		}
		batch = append(batch, events.Event{Type: events.CommentBulk, CommentID: id, Status: status})
	}
	a.events.Publish(ctx, batch...)

	respond(w, http.StatusOK, fmt.Sprintf("%d comments updated.", result.Affected), result)
}
