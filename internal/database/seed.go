package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// SeedAdminEmail is the login of the development admin account.
const SeedAdminEmail = "admin@realtycms.local"

// defaultSEOSettings are created on first seed so the admin panel has
// something to edit. Existing keys are never overwritten.
var defaultSEOSettings = []struct {
	key, value, typ, group string
}{
	{"site_title", "RealtyCMS", "string", "general"},
	{"site_description", "Homes, apartments and land for sale and rent.", "text", "general"},
	{"title_separator", "|", "string", "general"},
	{"robots_index", "true", "boolean", "indexing"},
	{"sitemap_max_urls", "5000", "integer", "indexing"},
	{"social_profiles", "{}", "json", "social"},
}

// Seed populates the database with initial development data: a default
// admin user with a personal team, and the default SEO settings.
// It is a no-op for data that already exists.
func Seed(db *sql.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}

	for _, s := range defaultSEOSettings {
		_, err := db.Exec(`
			INSERT INTO seo_settings (key, value, type, "group")
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (key) DO NOTHING`,
			s.key, s.value, s.typ, s.group,
		)
		if err != nil {
			return fmt.Errorf("seed seo setting %s: %w", s.key, err)
		}
	}
	return nil
}

func seedAdmin(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping admin user")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	// 2FA is not enabled; the admin must set it up on first login.
	var userID string
	err = tx.QueryRow(`
		INSERT INTO users (name, email, password_hash, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, "Admin", SeedAdminEmail, string(hash), "admin", false).Scan(&userID)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	var teamID string
	err = tx.QueryRow(`
		INSERT INTO teams (name, owner_id, personal_team)
		VALUES ($1, $2, TRUE)
		RETURNING id
	`, "Admin's Team", userID).Scan(&teamID)
	if err != nil {
		return fmt.Errorf("seed insert team: %w", err)
	}

	if _, err := tx.Exec(`INSERT INTO team_user (team_id, user_id, role) VALUES ($1, $2, 'owner')`, teamID, userID); err != nil {
		return fmt.Errorf("seed insert team member: %w", err)
	}

	if _, err := tx.Exec(`UPDATE users SET current_team_id = $1 WHERE id = $2`, teamID, userID); err != nil {
		return fmt.Errorf("seed set current team: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", SeedAdminEmail,
		"password", "admin",
	)
	return nil
}
