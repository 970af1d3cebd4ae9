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

// MediaStore handles all media-related database operations.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

// mediaKinds maps the "type" filter onto MIME type prefixes.
var mediaKinds = map[string]string{
	"image":    "image/%",
	"document": "application/%",
}

// MediaListing describes how the media library is searched and filtered.
var MediaListing = listing.Definition{
	SearchColumns: []string{"m.original_name", "m.filename", "COALESCE(m.alt_text, '')"},
	Filters: []listing.Filter{
		{Param: "type", Clause: "m.mime_type LIKE %s", Parse: func(v string) (any, bool) {
			prefix, ok := mediaKinds[v]
			return prefix, ok
		}},
		{Param: "mime_type", Column: "m.mime_type"},
		{Param: "uploader_id", Column: "m.uploader_id", Parse: listing.UUID},
	},
	Sorts: map[string]string{
		"created_at":    "m.created_at",
		"size_bytes":    "m.size_bytes",
		"original_name": "m.original_name",
	},
	DefaultSort:      "created_at",
	DefaultDirection: "desc",
	PerPage:          15,
	Key:              "m.id",
}

// mediaColumns lists the columns selected in media queries.
const mediaColumns = `id, filename, original_name, mime_type, size_bytes, width, height,
	bucket, s3_key, thumb_s3_key, alt_text, uploader_id, created_at`

// scanMedia scans a media row from the result set.
func scanMedia(row scanner) (*models.Media, error) {
	var m models.Media
	err := row.Scan(
		&m.ID, &m.Filename, &m.OriginalName, &m.MimeType, &m.SizeBytes, &m.Width, &m.Height,
		&m.Bucket, &m.S3Key, &m.ThumbS3Key, &m.AltText, &m.UploaderID, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new media record and returns it with the generated ID.
func (s *MediaStore) Create(ctx context.Context, m *models.Media) (*models.Media, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO media (filename, original_name, mime_type, size_bytes, width, height,
			bucket, s3_key, thumb_s3_key, alt_text, uploader_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+mediaColumns,
		m.Filename, m.OriginalName, m.MimeType, m.SizeBytes, m.Width, m.Height,
		m.Bucket, m.S3Key, m.ThumbS3Key, m.AltText, m.UploaderID,
	)
	created, err := scanMedia(row)
	if err != nil {
		return nil, fmt.Errorf("create media: %w", mapError(err))
	}
	return created, nil
}

// FindByID retrieves a single media record by its UUID.
func (s *MediaStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	m, err := scanMedia(s.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media by id: %w", err)
	}
	return m, nil
}

// List returns one page of the media library.
func (s *MediaStore) List(ctx context.Context, p listing.Params) (listing.Page[models.Media], error) {
	return list(ctx, s.db, "media m", mediaColumns, MediaListing.Build(p), scanMedia)
}

// UpdateAltText changes the alternative text of a media item.
func (s *MediaStore) UpdateAltText(ctx context.Context, id uuid.UUID, alt *string) (*models.Media, error) {
	m, err := scanMedia(s.db.QueryRowContext(ctx,
		`UPDATE media SET alt_text = $1 WHERE id = $2 RETURNING `+mediaColumns, alt, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update media alt text: %w", err)
	}
	return m, nil
}

// Delete removes a media record and returns it so the caller can clean
// up the corresponding S3 objects. Returns nil if not found.
func (s *MediaStore) Delete(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	m, err := scanMedia(s.db.QueryRowContext(ctx,
		`DELETE FROM media WHERE id = $1 RETURNING `+mediaColumns, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete media: %w", err)
	}
	return m, nil
}
