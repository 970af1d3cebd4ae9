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

// PropertyStore handles all property-related database operations.
type PropertyStore struct {
	db *sql.DB
}

// NewPropertyStore creates a new PropertyStore with the given database connection.
func NewPropertyStore(db *sql.DB) *PropertyStore {
	return &PropertyStore{db: db}
}

// PropertyListing describes how the properties index is searched, filtered
// and sorted.
var PropertyListing = listing.Definition{
	SearchColumns: []string{"p.title", "p.address", "p.description"},
	Filters: []listing.Filter{
		{Param: "status", Column: "p.status", Parse: listing.OneOf(
			string(models.PropertyAvailable), string(models.PropertyPending),
			string(models.PropertySold), string(models.PropertyRented))},
		{Param: "listing_type", Column: "p.listing_type", Parse: listing.OneOf(
			string(models.ListingSale), string(models.ListingRent))},
		{Param: "property_type_id", Column: "p.property_type_id", Parse: listing.UUID},
		{Param: "location_id", Column: "p.location_id", Parse: listing.UUID},
		{Param: "agent_id", Column: "p.agent_id", Parse: listing.UUID},
		{Param: "is_featured", Column: "p.is_featured", Parse: listing.Bool},
		{Param: "amenity_id", Parse: listing.UUID,
			Clause: "EXISTS (SELECT 1 FROM property_amenity pa WHERE pa.property_id = p.id AND pa.amenity_id = %s)"},
	},
	Sorts: map[string]string{
		"title":      "p.title",
		"price":      "p.price",
		"bedrooms":   "p.bedrooms",
		"area_sqft":  "p.area_sqft",
		"created_at": "p.created_at",
	},
	DefaultSort:      "created_at",
	DefaultDirection: "desc",
	PerPage:          12,
	Key:              "p.id",
}

const propertyColumns = `p.id, p.title, p.slug, p.description, p.price, p.listing_type, p.status,
	p.bedrooms, p.bathrooms, p.area_sqft, p.address, p.property_type_id, p.location_id,
	p.agent_id, p.is_featured, p.created_at, p.updated_at`

func scanProperty(row scanner) (*models.Property, error) {
	var p models.Property
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.Price, &p.ListingType, &p.Status,
		&p.Bedrooms, &p.Bathrooms, &p.AreaSqft, &p.Address, &p.PropertyTypeID, &p.LocationID,
		&p.AgentID, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns one page of properties.
func (s *PropertyStore) List(ctx context.Context, p listing.Params) (listing.Page[models.Property], error) {
	return list(ctx, s.db, "properties p", propertyColumns, PropertyListing.Build(p), scanProperty)
}

// FindByID retrieves a property with its amenity ids. Returns nil if not found.
func (s *PropertyStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	p, err := scanProperty(s.db.QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM properties p WHERE p.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find property by id: %w", err)
	}

	p.AmenityIDs, err = loadIDs(ctx, s.db,
		`SELECT amenity_id FROM property_amenity WHERE property_id = $1 ORDER BY amenity_id`, id)
	if err != nil {
		return nil, fmt.Errorf("load property amenities: %w", err)
	}
	return p, nil
}

// Create inserts a property and its amenity links in one transaction.
func (s *PropertyStore) Create(ctx context.Context, p *models.Property) (*models.Property, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	sl, err := pickSlug(ctx, tx, "properties", uuid.Nil, p.Title, p.Slug, "", "")
	if err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	var id uuid.UUID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO properties (title, slug, description, price, listing_type, status,
			bedrooms, bathrooms, area_sqft, address, property_type_id, location_id,
			agent_id, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`, p.Title, sl, p.Description, p.Price, p.ListingType, p.Status,
		p.Bedrooms, p.Bathrooms, p.AreaSqft, p.Address, p.PropertyTypeID, p.LocationID,
		p.AgentID, p.IsFeatured,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create property: %w", mapError(err))
	}

	if err := syncJoin(ctx, tx, "property_amenity", "property_id", "amenity_id", id, p.AmenityIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit property: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Update modifies a property and replaces its amenity links.
func (s *PropertyStore) Update(ctx context.Context, p *models.Property) (*models.Property, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var prevTitle, prevSlug string
	err = tx.QueryRowContext(ctx,
		`SELECT title, slug FROM properties WHERE id = $1 FOR UPDATE`, p.ID,
	).Scan(&prevTitle, &prevSlug)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock property: %w", err)
	}

	sl, err := pickSlug(ctx, tx, "properties", p.ID, p.Title, p.Slug, prevTitle, prevSlug)
	if err != nil {
		return nil, fmt.Errorf("update property: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE properties SET
			title = $1, slug = $2, description = $3, price = $4, listing_type = $5,
			status = $6, bedrooms = $7, bathrooms = $8, area_sqft = $9, address = $10,
			property_type_id = $11, location_id = $12, agent_id = $13, is_featured = $14,
			updated_at = NOW()
		WHERE id = $15
	`, p.Title, sl, p.Description, p.Price, p.ListingType, p.Status,
		p.Bedrooms, p.Bathrooms, p.AreaSqft, p.Address, p.PropertyTypeID, p.LocationID,
		p.AgentID, p.IsFeatured, p.ID)
	if err != nil {
		return nil, fmt.Errorf("update property: %w", mapError(err))
	}

	if err := syncJoin(ctx, tx, "property_amenity", "property_id", "amenity_id", p.ID, p.AmenityIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit property: %w", err)
	}
	return s.FindByID(ctx, p.ID)
}

// SyncAmenities replaces the amenities of a property.
func (s *PropertyStore) SyncAmenities(ctx context.Context, propertyID uuid.UUID, amenityIDs []uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := syncJoin(ctx, tx, "property_amenity", "property_id", "amenity_id", propertyID, amenityIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a property. Amenity links cascade.
func (s *PropertyStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	return affected(res)
}
