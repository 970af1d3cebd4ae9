// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"realtycms/internal/listing"
	"realtycms/internal/models"
)

// TagStore handles blog tag database operations.
type TagStore struct {
	db *sql.DB
}

// NewTagStore creates a new TagStore with the given database connection.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// TagListing describes how the tags index is searched and sorted.
var TagListing = listing.Definition{
	SearchColumns: []string{"t.name", "t.slug"},
	Sorts: map[string]string{
		"name":        "t.name",
		"posts_count": "posts_count",
		"created_at":  "t.created_at",
	},
	DefaultSort:      "name",
	DefaultDirection: "asc",
	PerPage:          15,
	Key:              "t.id",
}

const tagColumns = `t.id, t.name, t.slug, t.created_at, t.updated_at,
	(SELECT COUNT(*) FROM post_tag pt WHERE pt.tag_id = t.id) AS posts_count`

func scanTag(row scanner) (*models.Tag, error) {
	var t models.Tag
	if err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt, &t.PostsCount); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns one page of tags.
func (s *TagStore) List(ctx context.Context, p listing.Params) (listing.Page[models.Tag], error) {
	return list(ctx, s.db, "tags t", tagColumns, TagListing.Build(p), scanTag)
}

// FindByID retrieves a tag. Returns nil if not found.
func (s *TagStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	t, err := scanTag(s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags t WHERE t.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by id: %w", err)
	}
	return t, nil
}

// Create inserts a new tag with a unique slug.
func (s *TagStore) Create(ctx context.Context, t *models.Tag) (*models.Tag, error) {
	sl, err := pickSlug(ctx, s.db, "tags", uuid.Nil, t.Name, t.Slug, "", "")
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}

	var id uuid.UUID
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO tags (name, slug) VALUES ($1, $2) RETURNING id`, t.Name, sl).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", mapError(err))
	}
	return s.FindByID(ctx, id)
}

// Update renames a tag, regenerating the slug when the name changed and no
// slug was submitted.
func (s *TagStore) Update(ctx context.Context, t *models.Tag) (*models.Tag, error) {
	prev, err := s.FindByID(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, ErrNotFound
	}

	sl, err := pickSlug(ctx, s.db, "tags", t.ID, t.Name, t.Slug, prev.Name, prev.Slug)
	if err != nil {
		return nil, fmt.Errorf("update tag: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE tags SET name = $1, slug = $2, updated_at = NOW() WHERE id = $3`, t.Name, sl, t.ID)
	if err != nil {
		return nil, fmt.Errorf("update tag: %w", mapError(err))
	}
	return s.FindByID(ctx, t.ID)
}

// Delete removes a tag. Post links cascade.
func (s *TagStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return affected(res)
}
