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

var (
	// ErrPersonalTeam is returned when deleting a user's personal team.
	ErrPersonalTeam = errors.New("personal teams cannot be deleted")
	// ErrTeamOwner is returned when removing the owner from their team.
	ErrTeamOwner = errors.New("the team owner cannot be removed")
)

// TeamRoleOwner is the membership role of a team's owner.
const TeamRoleOwner = "owner"

// TeamStore handles teams and their memberships.
type TeamStore struct {
	db *sql.DB
}

// NewTeamStore creates a new TeamStore with the given database connection.
func NewTeamStore(db *sql.DB) *TeamStore {
	return &TeamStore{db: db}
}

// TeamListing describes how the teams index is searched and sorted.
var TeamListing = listing.Definition{
	SearchColumns: []string{"t.name"},
	Filters: []listing.Filter{
		{Param: "owner_id", Column: "t.owner_id", Parse: listing.UUID},
		{Param: "personal_team", Column: "t.personal_team", Parse: listing.Bool},
	},
	Sorts: map[string]string{
		"name":       "t.name",
		"created_at": "t.created_at",
	},
	DefaultSort:      "created_at",
	DefaultDirection: "desc",
	PerPage:          10,
	Key:              "t.id",
}

const teamColumns = `t.id, t.name, t.owner_id, t.personal_team, t.created_at, t.updated_at,
	(SELECT COUNT(*) FROM team_user tu WHERE tu.team_id = t.id)`

func scanTeam(row scanner) (*models.Team, error) {
	var t models.Team
	err := row.Scan(&t.ID, &t.Name, &t.OwnerID, &t.PersonalTeam, &t.CreatedAt, &t.UpdatedAt, &t.MemberCount)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// insertTeam creates a team and adds its owner as a member.
func insertTeam(ctx context.Context, tx *sql.Tx, name string, ownerID uuid.UUID, personal bool) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx, `
		INSERT INTO teams (name, owner_id, personal_team) VALUES ($1, $2, $3) RETURNING id
	`, name, ownerID, personal).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create team: %w", mapError(err))
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO team_user (team_id, user_id, role) VALUES ($1, $2, $3)`, id, ownerID, TeamRoleOwner)
	if err != nil {
		return uuid.Nil, fmt.Errorf("add team owner: %w", err)
	}
	return id, nil
}

// List returns one page of teams.
func (s *TeamStore) List(ctx context.Context, p listing.Params) (listing.Page[models.Team], error) {
	return list(ctx, s.db, "teams t", teamColumns, TeamListing.Build(p), scanTeam)
}

// FindByID retrieves a team with its members. Returns nil if not found.
func (s *TeamStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	t, err := scanTeam(s.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams t WHERE t.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find team by id: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, tu.role, tu.created_at
		FROM team_user tu JOIN users u ON u.id = tu.user_id
		WHERE tu.team_id = $1
		ORDER BY tu.created_at, u.name
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.TeamMember
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		t.Members = append(t.Members, m)
	}
	return t, rows.Err()
}

// Create inserts a shared team owned by ownerID.
func (s *TeamStore) Create(ctx context.Context, name string, ownerID uuid.UUID) (*models.Team, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id, err := insertTeam(ctx, tx, name, ownerID, false)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit team: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Rename changes a team's name.
func (s *TeamStore) Rename(ctx context.Context, id uuid.UUID, name string) (*models.Team, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE teams SET name = $1, updated_at = NOW() WHERE id = $2`, name, id)
	if err != nil {
		return nil, fmt.Errorf("rename team: %w", err)
	}
	if err := affected(res); err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

// Delete removes a shared team. Members whose current team it was fall
// back to no current team.
func (s *TeamStore) Delete(ctx context.Context, id uuid.UUID) error {
	var personal bool
	err := s.db.QueryRowContext(ctx, `SELECT personal_team FROM teams WHERE id = $1`, id).Scan(&personal)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find team: %w", err)
	}
	if personal {
		return ErrPersonalTeam
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	return nil
}

// AddMember adds a user to a team or updates their role.
func (s *TeamStore) AddMember(ctx context.Context, teamID, userID uuid.UUID, role string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO team_user (team_id, user_id, role) VALUES ($1, $2, $3)
		ON CONFLICT (team_id, user_id) DO UPDATE SET role = EXCLUDED.role
		WHERE team_user.role <> 'owner'
	`, teamID, userID, role)
	if err != nil {
		return fmt.Errorf("add team member: %w", mapError(err))
	}
	return nil
}

// RemoveMember removes a user from a team. The owner cannot be removed.
func (s *TeamStore) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	var owner uuid.UUID
	err := s.db.QueryRowContext(ctx, `SELECT owner_id FROM teams WHERE id = $1`, teamID).Scan(&owner)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find team: %w", err)
	}
	if owner == userID {
		return ErrTeamOwner
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM team_user WHERE team_id = $1 AND user_id = $2`, teamID, userID)
	if err != nil {
		return fmt.Errorf("remove team member: %w", err)
	}
	if err := affected(res); err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE users SET current_team_id = NULL WHERE id = $1 AND current_team_id = $2`, userID, teamID)
	if err != nil {
		return fmt.Errorf("reset current team: %w", err)
	}
	return nil
}
