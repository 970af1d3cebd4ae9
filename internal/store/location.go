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

// LocationStore handles all location-related database operations.
type LocationStore struct {
	db *sql.DB
}

// NewLocationStore creates a new LocationStore with the given database connection.
func NewLocationStore(db *sql.DB) *LocationStore {
	return &LocationStore{db: db}
}

// LocationListing describes how the locations index is searched and sorted.
var LocationListing = listing.Definition{
	SearchColumns: []string{"l.name", "l.city", "l.state", "l.country"},
	Filters: []listing.Filter{
		{Param: "type", Column: "l.type", Parse: listing.OneOf(
			string(models.LocationCity), string(models.LocationNeighborhood), string(models.LocationRegion))},
		{Param: "country", Column: "l.country"},
	},
	Sorts: map[string]string{
		"name":       "l.name",
		"city":       "l.city",
		"created_at": "l.created_at",
	},
	DefaultSort:      "name",
	DefaultDirection: "asc",
	PerPage:          15,
	Key:              "l.id",
}

const locationColumns = `l.id, l.name, l.slug, l.city, l.state, l.country, l.postal_code, l.type,
	l.created_at, l.updated_at,
	(SELECT COUNT(*) FROM properties p WHERE p.location_id = l.id)`

func scanLocation(row scanner) (*models.Location, error) {
	var l models.Location
	err := row.Scan(&l.ID, &l.Name, &l.Slug, &l.City, &l.State, &l.Country, &l.PostalCode,
		&l.Type, &l.CreatedAt, &l.UpdatedAt, &l.PropertiesCount)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// List returns one page of locations.
func (s *LocationStore) List(ctx context.Context, p listing.Params) (listing.Page[models.Location], error) {
	return list(ctx, s.db, "locations l", locationColumns, LocationListing.Build(p), scanLocation)
}

// FindByID retrieves a location by its UUID. Returns nil if not found.
func (s *LocationStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	l, err := scanLocation(s.db.QueryRowContext(ctx,
		`SELECT `+locationColumns+` FROM locations l WHERE l.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find location by id: %w", err)
	}
	return l, nil
}

// Create inserts a new location with a unique slug.
func (s *LocationStore) Create(ctx context.Context, l *models.Location) (*models.Location, error) {
	sl, err := pickSlug(ctx, s.db, "locations", uuid.Nil, l.Name, l.Slug, "", "")
	if err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}

	var id uuid.UUID
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO locations (name, slug, city, state, country, postal_code, type)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id
	`, l.Name, sl, l.City, l.State, l.Country, l.PostalCode, l.Type).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create location: %w", mapError(err))
	}
	return s.FindByID(ctx, id)
}

// Update modifies a location, regenerating its slug when the name changed
// and no slug was submitted.
func (s *LocationStore) Update(ctx context.Context, l *models.Location) (*models.Location, error) {
	prev, err := s.FindByID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, ErrNotFound
	}

	sl, err := pickSlug(ctx, s.db, "locations", l.ID, l.Name, l.Slug, prev.Name, prev.Slug)
	if err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE locations SET
			name = $1, slug = $2, city = $3, state = $4, country = $5,
			postal_code = $6, type = $7, updated_at = NOW()
		WHERE id = $8
	`, l.Name, sl, l.City, l.State, l.Country, l.PostalCode, l.Type, l.ID)
	if err != nil {
		return nil, fmt.Errorf("update location: %w", mapError(err))
	}
	return s.FindByID(ctx, l.ID)
}

// Delete removes a location. Locations with properties are refused with
// ErrInUse.
func (s *LocationStore) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := countRefs(ctx, s.db, `SELECT COUNT(*) FROM properties WHERE location_id = $1`, id)
	if err != nil {
		return fmt.Errorf("count location properties: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("delete location with %d properties: %w", n, ErrInUse)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", mapError(err))
	}
	return affected(res)
}
