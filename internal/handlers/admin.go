// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers for the RealtyCMS API.
// Handlers are grouped by concern (admin, auth, public) and receive
// their dependencies through the handler struct.
package handlers

import (
	"database/sql"
	"net/http"

	"realtycms/internal/events"
	"realtycms/internal/listing"
	"realtycms/internal/middleware"
	"realtycms/internal/settings"
	"realtycms/internal/storage"
	"realtycms/internal/store"
)

// Stores bundles the per-entity stores used by the handlers.
type Stores struct {
	Agents        *store.AgentStore
	Amenities     *store.AmenityStore
	Locations     *store.LocationStore
	PropertyTypes *store.PropertyTypeStore
	Properties    *store.PropertyStore
	Posts         *store.PostStore
	Tags          *store.TagStore
	Categories    *store.CategoryStore
	Comments      *store.CommentStore
	Media         *store.MediaStore
	Users         *store.UserStore
	Teams         *store.TeamStore
	Dashboard     *store.DashboardStore
	CacheLog      *store.CacheLogStore
}

// NewStores creates every store on top of db.
func NewStores(db *sql.DB) Stores {
	return Stores{
		Agents:        store.NewAgentStore(db),
		Amenities:     store.NewAmenityStore(db),
		Locations:     store.NewLocationStore(db),
		PropertyTypes: store.NewPropertyTypeStore(db),
		Properties:    store.NewPropertyStore(db),
		Posts:         store.NewPostStore(db),
		Tags:          store.NewTagStore(db),
		Categories:    store.NewCategoryStore(db),
		Comments:      store.NewCommentStore(db),
		Media:         store.NewMediaStore(db),
		Users:         store.NewUserStore(db),
		Teams:         store.NewTeamStore(db),
		Dashboard:     store.NewDashboardStore(db),
		CacheLog:      store.NewCacheLogStore(db),
	}
}

// Admin groups all admin API handlers and their dependencies.
type Admin struct {
	stores   Stores
	storage  *storage.Client
	settings *settings.Service
	events   events.Publisher
}

// NewAdmin creates a new Admin handler group. storageClient may be nil if
// S3 is not configured; uploads then answer 503. A nil publisher discards
// events.
func NewAdmin(stores Stores, storageClient *storage.Client, seo *settings.Service, publisher events.Publisher) *Admin {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Admin{
		stores:   stores,
		storage:  storageClient,
		settings: seo,
		events:   publisher,
	}
}

// listParams reads search, filter, sort and page options from the query string.
func listParams(r *http.Request) listing.Params {
	return listing.ParseParams(r.URL.Query())
}

// Dashboard returns the headline counts of the admin dashboard.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := a.stores.Dashboard.Stats(ctx)
	if err != nil {
		fail(w, r, resource{name: "Dashboard"}, err)
		return
	}
	byStatus, err := a.stores.Comments.CountByStatus(ctx)
	if err != nil {
		fail(w, r, commentRes, err)
		return
	}
	invalidations, err := a.stores.CacheLog.RecentEntries(ctx, 10)
	if err != nil {
		fail(w, r, settingRes, err)
		return
	}

	respond(w, http.StatusOK, "", map[string]any{
		"stats":              stats,
		"comments_by_status": byStatus,
		"cache_log":          invalidations,
		"user":               middleware.SessionFromCtx(ctx),
	})
}
