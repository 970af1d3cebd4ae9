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

// AmenityStore handles all amenity-related database operations.
type AmenityStore struct {
	db *sql.DB
}

// NewAmenityStore creates a new AmenityStore with the given database connection.
func NewAmenityStore(db *sql.DB) *AmenityStore {
	return &AmenityStore{db: db}
}

// AmenityListing describes how the amenities index is searched and sorted.
var AmenityListing = listing.Definition{
	SearchColumns: []string{"m.name", "m.description"},
	Sorts: map[string]string{
		"name":       "m.name",
		"created_at": "m.created_at",
	},
	DefaultSort:      "name",
	DefaultDirection: "asc",
	PerPage:          15,
	Key:              "m.id",
}

const amenityColumns = `m.id, m.name, m.slug, m.icon, m.description, m.created_at, m.updated_at,
	(SELECT COUNT(*) FROM property_amenity pa WHERE pa.amenity_id = m.id)`

func scanAmenity(row scanner) (*models.Amenity, error) {
	var a models.Amenity
	err := row.Scan(&a.ID, &a.Name, &a.Slug, &a.Icon, &a.Description,
		&a.CreatedAt, &a.UpdatedAt, &a.PropertiesCount)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns one page of amenities.
func (s *AmenityStore) List(ctx context.Context, p listing.Params) (listing.Page[models.Amenity], error) {
	return list(ctx, s.db, "amenities m", amenityColumns, AmenityListing.Build(p), scanAmenity)
}

// All returns every amenity by name, for property forms.
func (s *AmenityStore) All(ctx context.Context) ([]models.Amenity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+amenityColumns+` FROM amenities m ORDER BY m.name`)
	if err != nil {
		return nil, fmt.Errorf("list amenities: %w", err)
	}
	defer rows.Close()

	var out []models.Amenity
	for rows.Next() {
		a, err := scanAmenity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan amenity: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// FindByID retrieves an amenity by its UUID. Returns nil if not found.
func (s *AmenityStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Amenity, error) {
	a, err := scanAmenity(s.db.QueryRowContext(ctx,
		`SELECT `+amenityColumns+` FROM amenities m WHERE m.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find amenity by id: %w", err)
	}
	return a, nil
}

// Create inserts a new amenity with a unique slug derived from a.Slug or
// the name.
func (s *AmenityStore) Create(ctx context.Context, a *models.Amenity) (*models.Amenity, error) {
	sl, err := pickSlug(ctx, s.db, "amenities", uuid.Nil, a.Name, a.Slug, "", "")
	if err != nil {
		return nil, fmt.Errorf("create amenity: %w", err)
	}

	var id uuid.UUID
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO amenities (name, slug, icon, description)
		VALUES ($1, $2, $3, $4) RETURNING id
	`, a.Name, sl, a.Icon, a.Description).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create amenity: %w", mapError(err))
	}
	return s.FindByID(ctx, id)
}

// Update modifies an amenity. The slug is regenerated only when the name
// changed and no slug was submitted.
func (s *AmenityStore) Update(ctx context.Context, a *models.Amenity) (*models.Amenity, error) {
	prev, err := s.FindByID(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, ErrNotFound
	}

	sl, err := pickSlug(ctx, s.db, "amenities", a.ID, a.Name, a.Slug, prev.Name, prev.Slug)
	if err != nil {
		return nil, fmt.Errorf("update amenity: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE amenities SET name = $1, slug = $2, icon = $3, description = $4, updated_at = NOW()
		WHERE id = $5
	`, a.Name, sl, a.Icon, a.Description, a.ID)
	if err != nil {
		return nil, fmt.Errorf("update amenity: %w", mapError(err))
	}
	return s.FindByID(ctx, a.ID)
}

// Delete removes an amenity. Amenities attached to properties are refused
// with ErrInUse.
func (s *AmenityStore) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := countRefs(ctx, s.db, `SELECT COUNT(*) FROM property_amenity WHERE amenity_id = $1`, id)
	if err != nil {
		return fmt.Errorf("count amenity properties: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("delete amenity used by %d properties: %w", n, ErrInUse)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM amenities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete amenity: %w", mapError(err))
	}
	return affected(res)
}
