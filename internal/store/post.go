// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"realtycms/internal/listing"
	"realtycms/internal/models"
)

// PostStore handles all blog post database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// PostListing describes how the posts index is searched, filtered and sorted.
var PostListing = listing.Definition{
	SearchColumns: []string{"p.title", "p.excerpt", "p.body"},
	Filters: []listing.Filter{
		{Param: "status", Column: "p.status", Parse: listing.OneOf(
			string(models.PostStatusDraft), string(models.PostStatusPublished),
			string(models.PostStatusScheduled), string(models.PostStatusArchived))},
		{Param: "author_id", Column: "p.author_id", Parse: listing.UUID},
		{Param: "category_id", Parse: listing.UUID,
			Clause: "EXISTS (SELECT 1 FROM post_category pc WHERE pc.post_id = p.id AND pc.category_id = %s)"},
		{Param: "tag_id", Parse: listing.UUID,
			Clause: "EXISTS (SELECT 1 FROM post_tag pt WHERE pt.post_id = p.id AND pt.tag_id = %s)"},
	},
	Sorts: map[string]string{
		"title":          "p.title",
		"published_at":   "p.published_at",
		"comments_count": "p.comments_count",
		"views_count":    "p.views_count",
		"created_at":     "p.created_at",
	},
	DefaultSort:      "created_at",
	DefaultDirection: "desc",
	PerPage:          10,
	Key:              "p.id",
}

const postColumns = `p.id, p.title, p.slug, p.excerpt, p.body, p.body_html, p.status,
	p.published_at, p.author_id, p.featured_image_id, p.meta_title, p.meta_description,
	p.comments_count, p.views_count, p.created_at, p.updated_at`

func scanPost(row scanner) (*models.Post, error) {
	var p models.Post
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Body, &p.BodyHTML, &p.Status,
		&p.PublishedAt, &p.AuthorID, &p.FeaturedImageID, &p.MetaTitle, &p.MetaDescription,
		&p.CommentsCount, &p.ViewsCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns one page of posts.
func (s *PostStore) List(ctx context.Context, p listing.Params) (listing.Page[models.Post], error) {
	return list(ctx, s.db, "posts p", postColumns, PostListing.Build(p), scanPost)
}

// FindByID retrieves a post with its tag and category ids. Returns nil if
// not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}

	if p.TagIDs, err = loadIDs(ctx, s.db,
		`SELECT tag_id FROM post_tag WHERE post_id = $1 ORDER BY tag_id`, id); err != nil {
		return nil, fmt.Errorf("load post tags: %w", err)
	}
	if p.CategoryIDs, err = loadIDs(ctx, s.db,
		`SELECT category_id FROM post_category WHERE post_id = $1 ORDER BY category_id`, id); err != nil {
		return nil, fmt.Errorf("load post categories: %w", err)
	}
	return p, nil
}

// FindPublishedBySlug retrieves a published post. Used by public comment
// submission. Returns nil if not found.
func (s *PostStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts p WHERE p.slug = $1 AND p.status = 'published'`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// stampPublished sets published_at the first time a post is published.
func stampPublished(p *models.Post) {
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
}

// Create inserts a post together with its tag and category links.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	stampPublished(p)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	sl, err := pickSlug(ctx, tx, "posts", uuid.Nil, p.Title, p.Slug, "", "")
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	var id uuid.UUID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, excerpt, body, body_html, status, published_at,
			author_id, featured_image_id, meta_title, meta_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, p.Title, sl, p.Excerpt, p.Body, p.BodyHTML, p.Status, p.PublishedAt,
		p.AuthorID, p.FeaturedImageID, p.MetaTitle, p.MetaDescription,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", mapError(err))
	}

	if err := syncJoin(ctx, tx, "post_tag", "post_id", "tag_id", id, p.TagIDs); err != nil {
		return nil, err
	}
	if err := syncJoin(ctx, tx, "post_category", "post_id", "category_id", id, p.CategoryIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit post: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Update modifies a post and replaces its tag and category links. The
// counters and the featured image are left untouched.
func (s *PostStore) Update(ctx context.Context, p *models.Post) (*models.Post, error) {
	stampPublished(p)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var prevTitle, prevSlug string
	err = tx.QueryRowContext(ctx,
		`SELECT title, slug FROM posts WHERE id = $1 FOR UPDATE`, p.ID,
	).Scan(&prevTitle, &prevSlug)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock post: %w", err)
	}

	sl, err := pickSlug(ctx, tx, "posts", p.ID, p.Title, p.Slug, prevTitle, prevSlug)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE posts SET
			title = $1, slug = $2, excerpt = $3, body = $4, body_html = $5, status = $6,
			published_at = $7, meta_title = $8, meta_description = $9, updated_at = NOW()
		WHERE id = $10
	`, p.Title, sl, p.Excerpt, p.Body, p.BodyHTML, p.Status, p.PublishedAt,
		p.MetaTitle, p.MetaDescription, p.ID)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", mapError(err))
	}

	if err := syncJoin(ctx, tx, "post_tag", "post_id", "tag_id", p.ID, p.TagIDs); err != nil {
		return nil, err
	}
	if err := syncJoin(ctx, tx, "post_category", "post_id", "category_id", p.ID, p.CategoryIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit post: %w", err)
	}
	return s.FindByID(ctx, p.ID)
}

// SyncTags replaces the tags of a post.
func (s *PostStore) SyncTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	return s.syncOne(ctx, "post_tag", "tag_id", postID, tagIDs)
}

// SyncCategories replaces the categories of a post.
func (s *PostStore) SyncCategories(ctx context.Context, postID uuid.UUID, categoryIDs []uuid.UUID) error {
	return s.syncOne(ctx, "post_category", "category_id", postID, categoryIDs)
}

func (s *PostStore) syncOne(ctx context.Context, table, itemCol string, postID uuid.UUID, ids []uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := syncJoin(ctx, tx, table, "post_id", itemCol, postID, ids); err != nil {
		return err
	}
	return tx.Commit()
}

// SetFeaturedImage points the post at an uploaded media row.
func (s *PostStore) SetFeaturedImage(ctx context.Context, id, mediaID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE posts SET featured_image_id = $1, updated_at = NOW() WHERE id = $2`, mediaID, id)
	if err != nil {
		return fmt.Errorf("set featured image: %w", err)
	}
	return affected(res)
}

// Delete removes a post. Comments and join rows cascade.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return affected(res)
}
