// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusArchived  PostStatus = "archived"
)

// Valid reports whether s is one of the known post statuses.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusScheduled, PostStatusArchived:
		return true
	}
	return false
}

// Post is a blog article. Body holds Markdown; BodyHTML is the rendered,
// sanitized form kept in sync on every save.
type Post struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Excerpt         string     `json:"excerpt"`
	Body            string     `json:"body"`
	BodyHTML        string     `json:"body_html"`
	Status          PostStatus `json:"status"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	AuthorID        uuid.UUID  `json:"author_id"`
	FeaturedImageID *uuid.UUID `json:"featured_image_id,omitempty"`
	MetaTitle       string     `json:"meta_title"`
	MetaDescription string     `json:"meta_description"`
	CommentsCount   int        `json:"comments_count"`
	ViewsCount      int        `json:"views_count"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Populated by PostStore.FindByID.
	TagIDs      []uuid.UUID `json:"tag_ids,omitempty"`
	CategoryIDs []uuid.UUID `json:"category_ids,omitempty"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}
