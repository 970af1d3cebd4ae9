package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"realtycms/internal/listing"
	"realtycms/internal/models"
)

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// UserListing describes how the users index is searched and sorted.
var UserListing = listing.Definition{
	SearchColumns: []string{"u.name", "u.email"},
	Filters: []listing.Filter{
		{Param: "role", Column: "u.role", Parse: listing.OneOf(
			string(models.RoleAdmin), string(models.RoleEditor), string(models.RoleAuthor))},
	},
	Sorts: map[string]string{
		"name":       "u.name",
		"email":      "u.email",
		"created_at": "u.created_at",
	},
	DefaultSort:      "created_at",
	DefaultDirection: "desc",
	PerPage:          10,
	Key:              "u.id",
}

const userColumns = `u.id, u.name, u.email, u.password_hash, u.role, u.totp_secret, u.totp_enabled,
	u.current_team_id, u.created_at, u.updated_at`

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.TOTPSecret, &u.TOTPEnabled,
		&u.CurrentTeamID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns one page of users.
func (s *UserStore) List(ctx context.Context, p listing.Params) (listing.Page[models.User], error) {
	return list(ctx, s.db, "users u", userColumns, UserListing.Build(p), scanUser)
}

// FindByEmail retrieves a user by their email address. Returns nil if not found.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.email = $1`, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Create inserts a new user with a bcrypt-hashed password and a personal
// team, which becomes the user's current team.
func (s *UserStore) Create(ctx context.Context, name, email, password string, role models.Role) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, name, email, string(hash), role).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", mapError(err))
	}

	teamID, err := insertTeam(ctx, tx, name+"'s Team", id, true)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET current_team_id = $1 WHERE id = $2`, teamID, id); err != nil {
		return nil, fmt.Errorf("set current team: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit user: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Update changes a user's profile fields.
func (s *UserStore) Update(ctx context.Context, u *models.User) (*models.User, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET name = $1, email = $2, role = $3, updated_at = NOW() WHERE id = $4
	`, u.Name, u.Email, u.Role, u.ID)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", mapError(err))
	}
	if err := affected(res); err != nil {
		return nil, err
	}
	return s.FindByID(ctx, u.ID)
}

// UpdatePassword replaces the password hash of a user.
func (s *UserStore) UpdatePassword(ctx context.Context, id uuid.UUID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, string(hash), id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return affected(res)
}

// SetTOTPSecret saves the TOTP secret for a user (during 2FA setup).
func (s *UserStore) SetTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET totp_secret = $1, updated_at = NOW() WHERE id = $2
	`, secret, userID)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for a user (after successful code verification).
func (s *UserStore) EnableTOTP(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// ResetTOTP clears the TOTP secret and disables 2FA for a user.
// The user will be forced to set up 2FA again on their next login.
func (s *UserStore) ResetTOTP(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET totp_secret = NULL, totp_enabled = FALSE, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("reset totp: %w", err)
	}
	return nil
}

// SwitchTeam changes the current team of a user. The user must be a
// member of the team.
func (s *UserStore) SwitchTeam(ctx context.Context, userID, teamID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET current_team_id = $1, updated_at = NOW()
		WHERE id = $2 AND EXISTS (SELECT 1 FROM team_user WHERE team_id = $1 AND user_id = $2)
	`, teamID, userID)
	if err != nil {
		return fmt.Errorf("switch team: %w", err)
	}
	return affected(res)
}

// Delete removes a user by ID. Users who still author posts are refused
// with ErrInUse.
func (s *UserStore) Delete(ctx context.Context, userID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", mapError(err))
	}
	return affected(res)
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
