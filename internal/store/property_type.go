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

// PropertyTypeStore handles all property-type-related database operations.
type PropertyTypeStore struct {
	db *sql.DB
}

// NewPropertyTypeStore creates a new PropertyTypeStore with the given database connection.
func NewPropertyTypeStore(db *sql.DB) *PropertyTypeStore {
	return &PropertyTypeStore{db: db}
}

// PropertyTypeListing describes how the property types index is searched and sorted.
var PropertyTypeListing = listing.Definition{
	SearchColumns: []string{"t.name", "t.description"},
	Sorts: map[string]string{
		"name":       "t.name",
		"created_at": "t.created_at",
	},
	DefaultSort:      "name",
	DefaultDirection: "asc",
	PerPage:          15,
	Key:              "t.id",
}

const propertyTypeColumns = `t.id, t.name, t.slug, t.description, t.created_at, t.updated_at,
	(SELECT COUNT(*) FROM properties p WHERE p.property_type_id = t.id)`

func scanPropertyType(row scanner) (*models.PropertyType, error) {
	var t models.PropertyType
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &t.CreatedAt, &t.UpdatedAt,
		&t.PropertiesCount)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns one page of property types.
func (s *PropertyTypeStore) List(ctx context.Context, p listing.Params) (listing.Page[models.PropertyType], error) {
	return list(ctx, s.db, "property_types t", propertyTypeColumns, PropertyTypeListing.Build(p), scanPropertyType)
}

// FindByID retrieves a property type by its UUID. Returns nil if not found.
func (s *PropertyTypeStore) FindByID(ctx context.Context, id uuid.UUID) (*models.PropertyType, error) {
	t, err := scanPropertyType(s.db.QueryRowContext(ctx,
		`SELECT `+propertyTypeColumns+` FROM property_types t WHERE t.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find property type by id: %w", err)
	}
	return t, nil
}

// Create inserts a new property type with a unique slug.
func (s *PropertyTypeStore) Create(ctx context.Context, t *models.PropertyType) (*models.PropertyType, error) {
	sl, err := pickSlug(ctx, s.db, "property_types", uuid.Nil, t.Name, t.Slug, "", "")
	if err != nil {
		return nil, fmt.Errorf("create property type: %w", err)
	}

	var id uuid.UUID
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO property_types (name, slug, description) VALUES ($1, $2, $3) RETURNING id
	`, t.Name, sl, t.Description).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create property type: %w", mapError(err))
	}
	return s.FindByID(ctx, id)
}

// Update modifies a property type.
func (s *PropertyTypeStore) Update(ctx context.Context, t *models.PropertyType) (*models.PropertyType, error) {
	prev, err := s.FindByID(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, ErrNotFound
	}

	sl, err := pickSlug(ctx, s.db, "property_types", t.ID, t.Name, t.Slug, prev.Name, prev.Slug)
	if err != nil {
		return nil, fmt.Errorf("update property type: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE property_types SET name = $1, slug = $2, description = $3, updated_at = NOW()
		WHERE id = $4
	`, t.Name, sl, t.Description, t.ID)
	if err != nil {
		return nil, fmt.Errorf("update property type: %w", mapError(err))
	}
	return s.FindByID(ctx, t.ID)
}

// Delete removes a property type. Types with properties are refused with
// ErrInUse.
func (s *PropertyTypeStore) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := countRefs(ctx, s.db, `SELECT COUNT(*) FROM properties WHERE property_type_id = $1`, id)
	if err != nil {
		return fmt.Errorf("count property type properties: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("delete property type with %d properties: %w", n, ErrInUse)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM property_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete property type: %w", mapError(err))
	}
	return affected(res)
}
