// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// DashboardStats holds the headline counts of the admin dashboard.
type DashboardStats struct {
	Properties          int `json:"properties"`
	AvailableProperties int `json:"available_properties"`
	Agents              int `json:"agents"`
	Posts               int `json:"posts"`
	PublishedPosts      int `json:"published_posts"`
	PendingComments     int `json:"pending_comments"`
	Media               int `json:"media"`
	Users               int `json:"users"`
}

// DashboardStore computes dashboard aggregates.
type DashboardStore struct {
	db *sql.DB
}

// NewDashboardStore creates a new DashboardStore.
func NewDashboardStore(db *sql.DB) *DashboardStore {
	return &DashboardStore{db: db}
}

// Stats returns all dashboard counts in a single round trip.
func (s *DashboardStore) Stats(ctx context.Context) (*DashboardStats, error) {
	var st DashboardStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM properties),
			(SELECT COUNT(*) FROM properties WHERE status = 'available'),
			(SELECT COUNT(*) FROM agents),
			(SELECT COUNT(*) FROM posts),
			(SELECT COUNT(*) FROM posts WHERE status = 'published'),
			(SELECT COUNT(*) FROM comments WHERE status = 'pending'),
			(SELECT COUNT(*) FROM media),
			(SELECT COUNT(*) FROM users)
	`).Scan(
		&st.Properties, &st.AvailableProperties, &st.Agents, &st.Posts,
		&st.PublishedPosts, &st.PendingComments, &st.Media, &st.Users,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &st, nil
}
