// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"realtycms/internal/moderation"
)

// Comment is a reader comment on a post. A comment is written either by a
// registered user (UserID set) or by a guest identified by the Guest* fields.
type Comment struct {
	ID           uuid.UUID         `json:"id"`
	PostID       uuid.UUID         `json:"post_id"`
	UserID       *uuid.UUID        `json:"user_id,omitempty"`
	ParentID     *uuid.UUID        `json:"parent_id,omitempty"`
	GuestName    *string           `json:"guest_name,omitempty"`
	GuestEmail   *string           `json:"guest_email,omitempty"`
	GuestWebsite *string           `json:"guest_website,omitempty"`
	Content      string            `json:"content"`
	Status       moderation.Status `json:"status"`
	ApprovedAt   *time.Time        `json:"approved_at,omitempty"`
	ApprovedBy   *uuid.UUID        `json:"approved_by,omitempty"`
	LikesCount   int               `json:"likes_count"`
	RepliesCount int               `json:"replies_count"`
	IsFeatured   bool              `json:"is_featured"`
	Metadata     json.RawMessage   `json:"metadata"`
	IPAddress    string            `json:"-"`
	UserAgent    string            `json:"-"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	// Depth is the number of ancestors, computed on read.
	Depth   int       `json:"depth"`
	Replies []Comment `json:"replies,omitempty"`
}

// IsReply reports whether the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// IsGuest reports whether the comment was left without an account.
func (c *Comment) IsGuest() bool {
	return c.UserID == nil
}

// AuthorName returns the display name stored on a guest comment, or an
// empty string for registered authors.
func (c *Comment) AuthorName() string {
	if c.GuestName != nil {
		return *c.GuestName
	}
	return ""
}
