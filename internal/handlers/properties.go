// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"realtycms/internal/models"
)

type propertyRequest struct {
	Title          string                `json:"title"`
	Slug           string                `json:"slug"`
	Description    string                `json:"description"`
	Price          float64               `json:"price"`
	ListingType    models.ListingType    `json:"listing_type"`
	Status         models.PropertyStatus `json:"status"`
	Bedrooms       int                   `json:"bedrooms"`
	Bathrooms      int                   `json:"bathrooms"`
	AreaSqft       int                   `json:"area_sqft"`
	Address        string                `json:"address"`
	PropertyTypeID uuid.UUID             `json:"property_type_id"`
	LocationID     uuid.UUID             `json:"location_id"`
	AgentID        *uuid.UUID            `json:"agent_id"`
	IsFeatured     bool                  `json:"is_featured"`
	// AmenityIDs replaces the amenity set when present. Omit it to keep
	// the current amenities on update.
	AmenityIDs []uuid.UUID `json:"amenity_ids"`
}

func (req *propertyRequest) validate() fieldErrors {
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(req.Slug)
	req.Address = strings.TrimSpace(req.Address)
	if req.ListingType == "" {
		req.ListingType = models.ListingSale
	}
	if req.Status == "" {
		req.Status = models.PropertyAvailable
	}

	errs := fieldErrors{}
	errs.required("title", req.Title)
	errs.maxLen("title", req.Title, maxTitleLen)
	errs.maxLen("slug", req.Slug, maxSlugLen)
	errs.maxLen("description", req.Description, maxBodyLen)
	errs.nonNegative("price", req.Price)
	errs.nonNegative("bedrooms", float64(req.Bedrooms))
	errs.nonNegative("bathrooms", float64(req.Bathrooms))
	errs.nonNegative("area_sqft", float64(req.AreaSqft))
	errs.maxLen("address", req.Address, maxTextLen)
	oneOf(errs, "listing_type", req.ListingType, models.ListingSale, models.ListingRent)
	oneOf(errs, "status", req.Status,
		models.PropertyAvailable, models.PropertyPending, models.PropertySold, models.PropertyRented)
	errs.requiredID("property_type_id", req.PropertyTypeID)
	errs.requiredID("location_id", req.LocationID)
	return errs
}

func (req *propertyRequest) apply(p *models.Property) {
	p.Title = req.Title
	p.Slug = req.Slug
	p.Description = req.Description
	p.Price = req.Price
	p.ListingType = req.ListingType
	p.Status = req.Status
	p.Bedrooms = req.Bedrooms
	p.Bathrooms = req.Bathrooms
	p.AreaSqft = req.AreaSqft
	p.Address = req.Address
	p.PropertyTypeID = req.PropertyTypeID
	p.LocationID = req.LocationID
	p.AgentID = req.AgentID
	p.IsFeatured = req.IsFeatured
	if req.AmenityIDs != nil {
		p.AmenityIDs = req.AmenityIDs
	}
}

// checkReferences verifies the rows a property points at exist so that a
// bad id is reported against its field instead of as a constraint error.
func (a *Admin) checkReferences(ctx context.Context, req *propertyRequest, errs fieldErrors) error {
	pt, err := a.stores.PropertyTypes.FindByID(ctx, req.PropertyTypeID)
	if err != nil {
		return err
	}
	if pt == nil {
		errs.add("property_type_id", "The selected property type is invalid.")
	}

	loc, err := a.stores.Locations.FindByID(ctx, req.LocationID)
	if err != nil {
		return err
	}
	if loc == nil {
		errs.add("location_id", "The selected location is invalid.")
	}

	if req.AgentID != nil {
		agent, err := a.stores.Agents.FindByID(ctx, *req.AgentID)
		if err != nil {
			return err
		}
		if agent == nil {
			errs.add("agent_id", "The selected agent is invalid.")
		}
	}
	return nil
}

// PropertiesList returns one page of properties.
func (a *Admin) PropertiesList(w http.ResponseWriter, r *http.Request) {
	page, err := a.stores.Properties.List(r.Context(), listParams(r))
	if err != nil {
		fail(w, r, propertyRes, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// PropertyShow returns a property with its amenity ids.
func (a *Admin) PropertyShow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", propertyRes)
	if !ok {
		return
	}
	p, err := a.stores.Properties.FindByID(r.Context(), id)
	if err != nil {
		fail(w, r, propertyRes, err)
		return
	}
	if p == nil {
		notFound(w, propertyRes)
		return
	}
	respond(w, http.StatusOK, "", p)
}

// PropertyCreate creates a property and links its amenities.
func (a *Admin) PropertyCreate(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	errs := req.validate()
	if !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	ctx := r.Context()
	if err := a.checkReferences(ctx, &req, errs); err != nil {
		fail(w, r, propertyRes, err)
		return
	}
	if !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	var p models.Property
	req.apply(&p)
	created, err := a.stores.Properties.Create(ctx, &p)
	if err != nil {
		failWrite(w, r, propertyRes, err)
		return
	}
	respond(w, http.StatusCreated, "Property created successfully.", created)
}

// PropertyUpdate replaces the fields of a property.
func (a *Admin) PropertyUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", propertyRes)
	if !ok {
		return
	}
	var req propertyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	errs := req.validate()
	if !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	ctx := r.Context()
	p, err := a.stores.Properties.FindByID(ctx, id)
	if err != nil {
		fail(w, r, propertyRes, err)
		return
	}
	if p == nil {
		notFound(w, propertyRes)
		return
	}
	if err := a.checkReferences(ctx, &req, errs); err != nil {
		fail(w, r, propertyRes, err)
		return
	}
	if !errs.ok() {
		respondInvalid(w, errs)
		return
	}

	req.apply(p)
	updated, err := a.stores.Properties.Update(ctx, p)
	if err != nil {
		failWrite(w, r, propertyRes, err)
		return
	}
	respond(w, http.StatusOK, "Property updated successfully.", updated)
}

// PropertyDelete removes a property.
func (a *Admin) PropertyDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", propertyRes)
	if !ok {
		return
	}
	if err := a.stores.Properties.Delete(r.Context(), id); err != nil {
		fail(w, r, propertyRes, err)
		return
	}
	respond(w, http.StatusOK, "Property deleted successfully.", nil)
}
