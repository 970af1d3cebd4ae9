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

// AgentStore handles all agent-related database operations.
type AgentStore struct {
	db *sql.DB
}

// NewAgentStore creates a new AgentStore with the given database connection.
func NewAgentStore(db *sql.DB) *AgentStore {
	return &AgentStore{db: db}
}

// AgentListing describes how the agents index is searched and sorted.
var AgentListing = listing.Definition{
	SearchColumns: []string{"a.name", "a.email", "a.phone", "a.license_number"},
	Filters: []listing.Filter{
		{Param: "is_active", Column: "a.is_active", Parse: listing.Bool},
	},
	Sorts: map[string]string{
		"name":       "a.name",
		"email":      "a.email",
		"created_at": "a.created_at",
	},
	DefaultSort:      "created_at",
	DefaultDirection: "desc",
	PerPage:          10,
	Key:              "a.id",
}

const agentColumns = `a.id, a.name, a.email, a.phone, a.license_number, a.bio,
	a.photo_media_id, a.is_active, a.created_at, a.updated_at,
	(SELECT COUNT(*) FROM properties p WHERE p.agent_id = a.id)`

func scanAgent(row scanner) (*models.Agent, error) {
	var a models.Agent
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.Phone, &a.LicenseNumber, &a.Bio,
		&a.PhotoMediaID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
		&a.PropertiesCount,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns one page of agents.
func (s *AgentStore) List(ctx context.Context, p listing.Params) (listing.Page[models.Agent], error) {
	return list(ctx, s.db, "agents a", agentColumns, AgentListing.Build(p), scanAgent)
}

// FindByID retrieves an agent by its UUID. Returns nil if not found.
func (s *AgentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	a, err := scanAgent(s.db.QueryRowContext(ctx,
		`SELECT `+agentColumns+` FROM agents a WHERE a.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find agent by id: %w", err)
	}
	return a, nil
}

// Create inserts a new agent. Duplicate emails or license numbers are
// reported as a ConstraintError wrapping ErrConflict.
func (s *AgentStore) Create(ctx context.Context, a *models.Agent) (*models.Agent, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO agents (name, email, phone, license_number, bio, photo_media_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, a.Name, a.Email, a.Phone, a.LicenseNumber, a.Bio, a.PhotoMediaID, a.IsActive,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", mapError(err))
	}
	return s.FindByID(ctx, id)
}

// Update modifies an existing agent. The photo is managed by SetPhoto.
func (s *AgentStore) Update(ctx context.Context, a *models.Agent) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE agents SET
			name = $1, email = $2, phone = $3, license_number = $4, bio = $5,
			is_active = $6, updated_at = NOW()
		WHERE id = $7
	`, a.Name, a.Email, a.Phone, a.LicenseNumber, a.Bio, a.IsActive, a.ID)
	if err != nil {
		return fmt.Errorf("update agent: %w", mapError(err))
	}
	return affected(res)
}

// SetPhoto points the agent at an uploaded media row.
func (s *AgentStore) SetPhoto(ctx context.Context, id, mediaID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE agents SET photo_media_id = $1, updated_at = NOW() WHERE id = $2`, mediaID, id)
	if err != nil {
		return fmt.Errorf("set agent photo: %w", err)
	}
	return affected(res)
}

// Delete removes an agent. Agents that still have properties are refused
// with ErrInUse.
func (s *AgentStore) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := countRefs(ctx, s.db, `SELECT COUNT(*) FROM properties WHERE agent_id = $1`, id)
	if err != nil {
		return fmt.Errorf("count agent properties: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("delete agent with %d properties: %w", n, ErrInUse)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM agents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete agent: %w", mapError(err))
	}
	return affected(res)
}
