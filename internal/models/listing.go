// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Agent is a licensed real-estate agent who can be assigned to properties.
type Agent struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	LicenseNumber string     `json:"license_number"`
	Bio           string     `json:"bio"`
	PhotoMediaID  *uuid.UUID `json:"photo_media_id,omitempty"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	PropertiesCount int `json:"properties_count"`
}

// Amenity is a feature a property can offer (pool, parking, ...).
type Amenity struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	PropertiesCount int `json:"properties_count"`
}

// LocationType classifies a location.
type LocationType string

const (
	LocationCity         LocationType = "city"
	LocationNeighborhood LocationType = "neighborhood"
	LocationRegion       LocationType = "region"
)

// Location is a place properties are listed in.
type Location struct {
	ID         uuid.UUID    `json:"id"`
	Name       string       `json:"name"`
	Slug       string       `json:"slug"`
	City       string       `json:"city"`
	State      string       `json:"state"`
	Country    string       `json:"country"`
	PostalCode string       `json:"postal_code"`
	Type       LocationType `json:"type"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`

	PropertiesCount int `json:"properties_count"`
}

// PropertyType classifies a property (house, apartment, land, ...).
type PropertyType struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	PropertiesCount int `json:"properties_count"`
}

// ListingType says whether a property is offered for sale or rent.
type ListingType string

const (
	ListingSale ListingType = "sale"
	ListingRent ListingType = "rent"
)

// PropertyStatus is the market state of a listing.
type PropertyStatus string

const (
	PropertyAvailable PropertyStatus = "available"
	PropertyPending   PropertyStatus = "pending"
	PropertySold      PropertyStatus = "sold"
	PropertyRented    PropertyStatus = "rented"
)

// Property is a real-estate listing.
type Property struct {
	ID             uuid.UUID      `json:"id"`
	Title          string         `json:"title"`
	Slug           string         `json:"slug"`
	Description    string         `json:"description"`
	Price          float64        `json:"price"`
	ListingType    ListingType    `json:"listing_type"`
	Status         PropertyStatus `json:"status"`
	Bedrooms       int            `json:"bedrooms"`
	Bathrooms      int            `json:"bathrooms"`
	AreaSqft       int            `json:"area_sqft"`
	Address        string         `json:"address"`
	PropertyTypeID uuid.UUID      `json:"property_type_id"`
	LocationID     uuid.UUID      `json:"location_id"`
	AgentID        *uuid.UUID     `json:"agent_id,omitempty"`
	IsFeatured     bool           `json:"is_featured"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	// Populated by PropertyStore.FindByID.
	AmenityIDs []uuid.UUID `json:"amenity_ids,omitempty"`
}
