// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"realtycms/internal/models"
)

// SeoSettingStore manages SEO configuration rows in the database. Callers
// normally go through the settings service, which caches reads.
type SeoSettingStore struct {
	db *sql.DB
}

// NewSeoSettingStore returns a new SeoSettingStore backed by the given database.
func NewSeoSettingStore(db *sql.DB) *SeoSettingStore {
	return &SeoSettingStore{db: db}
}

const seoSettingColumns = `key, value, type, "group", updated_at`

func scanSeoSetting(row scanner) (*models.SeoSetting, error) {
	var s models.SeoSetting
	if err := row.Scan(&s.Key, &s.Value, &s.Type, &s.Group, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// All returns every setting ordered by group and key.
func (s *SeoSettingStore) All(ctx context.Context) ([]models.SeoSetting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+seoSettingColumns+` FROM seo_settings ORDER BY "group", key`)
	if err != nil {
		return nil, fmt.Errorf("list seo settings: %w", err)
	}
	defer rows.Close()

	var out []models.SeoSetting
	for rows.Next() {
		st, err := scanSeoSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan seo setting: %w", err)
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}

// Find returns a single setting by key. Returns nil if not found.
func (s *SeoSettingStore) Find(ctx context.Context, key string) (*models.SeoSetting, error) {
	st, err := scanSeoSetting(s.db.QueryRowContext(ctx,
		`SELECT `+seoSettingColumns+` FROM seo_settings WHERE key = $1`, key))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find seo setting: %w", err)
	}
	return st, nil
}

const upsertSeoSetting = `
	INSERT INTO seo_settings (key, value, type, "group", updated_at)
	VALUES ($1, $2, $3, $4, NOW())
	ON CONFLICT (key)
	DO UPDATE SET value = EXCLUDED.value, type = EXCLUDED.type,
		"group" = EXCLUDED."group", updated_at = EXCLUDED.updated_at`

// Upsert creates or replaces a single setting.
func (s *SeoSettingStore) Upsert(ctx context.Context, st models.SeoSetting) error {
	if _, err := s.db.ExecContext(ctx, upsertSeoSetting, st.Key, st.Value, st.Type, st.Group); err != nil {
		return fmt.Errorf("upsert seo setting %s: %w", st.Key, err)
	}
	return nil
}

// UpsertMany writes several settings in a single transaction.
func (s *SeoSettingStore) UpsertMany(ctx context.Context, settings []models.SeoSetting) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertSeoSetting)
	if err != nil {
		return fmt.Errorf("prepare seo upsert: %w", err)
	}
	defer stmt.Close()

	for _, st := range settings {
		if _, err := stmt.ExecContext(ctx, st.Key, st.Value, st.Type, st.Group); err != nil {
			return fmt.Errorf("upsert seo setting %s: %w", st.Key, err)
		}
	}
	return tx.Commit()
}

// Delete removes a setting. Missing keys are not an error.
func (s *SeoSettingStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM seo_settings WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete seo setting: %w", err)
	}
	return nil
}
