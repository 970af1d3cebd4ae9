// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"realtycms/internal/markdown"
	"realtycms/internal/middleware"
	"realtycms/internal/models"
	"realtycms/internal/moderation"
	"realtycms/internal/store"
)

// healthTimeout bounds each dependency check of the health endpoint.
const healthTimeout = 2 * time.Second

// Pinger is a dependency the health check probes, such as *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Public groups the unauthenticated handlers.
type Public struct {
	db       Pinger
	posts    *store.PostStore
	comments *store.CommentStore
}

// NewPublic creates a new Public handler group.
func NewPublic(db Pinger, posts *store.PostStore, comments *store.CommentStore) *Public {
	return &Public{db: db, posts: posts, comments: comments}
}

// Health reports whether the database is reachable.
func (p *Public) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if p.db != nil {
		if err := p.db.PingContext(ctx); err != nil {
			slog.Error("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type publicCommentRequest struct {
	Content      string     `json:"content"`
	ParentID     *uuid.UUID `json:"parent_id"`
	GuestName    *string    `json:"guest_name"`
	GuestEmail   *string    `json:"guest_email"`
	GuestWebsite *string    `json:"guest_website"`
}

// validate checks the payload. Guests must leave a name and an email;
// signed-in users are identified by their session.
func (req *publicCommentRequest) validate(guest bool) fieldErrors {
	req.Content = markdown.SanitizeComment(strings.TrimSpace(req.Content))
	req.GuestName = trimPtr(req.GuestName)
	req.GuestEmail = trimPtr(req.GuestEmail)
	req.GuestWebsite = trimPtr(req.GuestWebsite)

	errs := fieldErrors{}
	errs.required("content", req.Content)
	errs.maxLen("content", req.Content, maxCommentLen)
	if guest {
		if req.GuestName == nil {
			errs.add("guest_name", "The name field is required.")
		}
		if req.GuestEmail == nil {
			errs.add("guest_email", "The email field is required.")
		}
	}
	if req.GuestName != nil {
		errs.maxLen("guest_name", *req.GuestName, maxNameLen)
	}
	if req.GuestEmail != nil {
		errs.email("guest_email", *req.GuestEmail)
	}
	if req.GuestWebsite != nil {
		errs.maxLen("guest_website", *req.GuestWebsite, maxWebsiteLen)
	}
	return errs
}

// SubmitComment stores a visitor comment on a published post. New
// comments wait for moderation.
func (p *Public) SubmitComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	post, err := p.posts.FindPublishedBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		fail(w, r, postRes, err)
		return
	}
	if post == nil {
		notFound(w, postRes)
		return
	}

	var req publicCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess := middleware.SessionFromCtx(ctx)
	if errs := req.validate(sess == nil); !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	c := &models.Comment{
		PostID:       post.ID,
		ParentID:     req.ParentID,
		Content:      req.Content,
		Status:       moderation.Pending,
		GuestWebsite: req.GuestWebsite,
		IPAddress:    middleware.ClientIP(r),
		UserAgent:    r.UserAgent(),
	}
	if sess != nil {
		userID := sess.UserID
		c.UserID = &userID
	} else {
		c.GuestName = req.GuestName
		c.GuestEmail = req.GuestEmail
	}

	created, err := p.comments.Create(ctx, c)
	if err != nil {
		failWrite(w, r, commentRes, err)
		return
	}
	slog.Info("comment submitted", "comment_id", created.ID, "post_id", post.ID, "guest", created.IsGuest())
	respond(w, http.StatusCreated, "Your comment is awaiting moderation.", created)
}
