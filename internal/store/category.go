// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"realtycms/internal/listing"
	"realtycms/internal/models"
)

// ErrCategoryCycle is returned when a category would become its own ancestor.
var ErrCategoryCycle = errors.New("category cannot be nested under itself")

// CategoryStore handles blog category database operations.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// CategoryListing describes how the categories index is searched and sorted.
var CategoryListing = listing.Definition{
	SearchColumns: []string{"c.name", "c.description"},
	Filters: []listing.Filter{
		{Param: "parent_id", Column: "c.parent_id", Parse: listing.UUID},
	},
	Sorts: map[string]string{
		"name":        "c.name",
		"posts_count": "posts_count",
		"created_at":  "c.created_at",
	},
	DefaultSort:      "name",
	DefaultDirection: "asc",
	PerPage:          15,
	Key:              "c.id",
}

const categoryColumns = `c.id, c.name, c.slug, c.description, c.parent_id, c.created_at, c.updated_at,
	(SELECT COUNT(*) FROM post_category pc WHERE pc.category_id = c.id) AS posts_count`

// scanCategory scans a row into a Category struct.
func scanCategory(row scanner) (*models.Category, error) {
	var c models.Category
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.ParentID, &c.CreatedAt, &c.UpdatedAt, &c.PostsCount,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns one page of categories.
func (s *CategoryStore) List(ctx context.Context, p listing.Params) (listing.Page[models.Category], error) {
	return list(ctx, s.db, "categories c", categoryColumns, CategoryListing.Build(p), scanCategory)
}

// All returns every category ordered by name.
func (s *CategoryStore) All(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories c ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Tree returns categories as a nested tree structure.
func (s *CategoryStore) Tree(ctx context.Context) ([]models.Category, error) {
	flat, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return buildTree(flat, nil, 0), nil
}

// buildTree recursively builds a tree from a flat list.
func buildTree(flat []models.Category, parentID *uuid.UUID, depth int) []models.Category {
	var result []models.Category
	for _, c := range flat {
		if ptrEqual(c.ParentID, parentID) {
			c.Depth = depth
			c.Children = buildTree(flat, &c.ID, depth+1)
			result = append(result, c)
		}
	}
	return result
}

// ptrEqual compares two *uuid.UUID for equality (both nil or same value).
func ptrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories c WHERE c.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category with a unique slug.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	sl, err := pickSlug(ctx, s.db, "categories", uuid.Nil, c.Name, c.Slug, "", "")
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	var id uuid.UUID
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, description, parent_id)
		VALUES ($1, $2, $3, $4) RETURNING id
	`, c.Name, sl, c.Description, c.ParentID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", mapError(err))
	}
	return s.FindByID(ctx, id)
}

// Update modifies an existing category. Moving a category under one of its
// own descendants is refused with ErrCategoryCycle.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) (*models.Category, error) {
	prev, err := s.FindByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, ErrNotFound
	}

	if c.ParentID != nil {
		var cycle bool
		err := s.db.QueryRowContext(ctx, `
			WITH RECURSIVE ancestors AS (
				SELECT id, parent_id FROM categories WHERE id = $1
				UNION ALL
				SELECT p.id, p.parent_id FROM categories p JOIN ancestors a ON p.id = a.parent_id
			)
			SELECT EXISTS (SELECT 1 FROM ancestors WHERE id = $2)
		`, *c.ParentID, c.ID).Scan(&cycle)
		if err != nil {
			return nil, fmt.Errorf("check category ancestry: %w", err)
		}
		if cycle {
			return nil, ErrCategoryCycle
		}
	}

	sl, err := pickSlug(ctx, s.db, "categories", c.ID, c.Name, c.Slug, prev.Name, prev.Slug)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, description = $3, parent_id = $4, updated_at = NOW()
		WHERE id = $5
	`, c.Name, sl, c.Description, c.ParentID, c.ID)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", mapError(err))
	}
	return s.FindByID(ctx, c.ID)
}

// Delete removes a category by ID. Children are re-parented (ON DELETE SET NULL)
// and post links cascade.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return affected(res)
}
