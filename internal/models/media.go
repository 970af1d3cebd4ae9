// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Media represents a file uploaded to S3-compatible object storage.
// Metadata is stored in PostgreSQL; the file itself lives in the bucket.
type Media struct {
	ID           uuid.UUID  `json:"id"`
	Filename     string     `json:"filename"`
	OriginalName string     `json:"original_name"`
	MimeType     string     `json:"mime_type"`
	SizeBytes    int64      `json:"size_bytes"`
	Width        *int       `json:"width,omitempty"`
	Height       *int       `json:"height,omitempty"`
	Bucket       string     `json:"bucket"`
	S3Key        string     `json:"s3_key"`
	ThumbS3Key   *string    `json:"thumb_s3_key,omitempty"`
	AltText      *string    `json:"alt_text,omitempty"`
	UploaderID   *uuid.UUID `json:"uploader_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// mediaExtensions maps every MIME type the library accepts to the
// extension its object is stored under.
var mediaExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/svg+xml":   ".svg",
	"application/pdf": ".pdf",
}

// thumbnailTypes get a JPEG thumbnail. GIF is left out to keep animation.
var thumbnailTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// MediaExtension returns the stored extension for mimeType and whether the
// type is accepted at all.
func MediaExtension(mimeType string) (string, bool) {
	ext, ok := mediaExtensions[mimeType]
	return ext, ok
}

// IsRasterImage reports whether mimeType is an accepted bitmap format, the
// only kind with pixel dimensions. SVG is an image but vector.
func IsRasterImage(mimeType string) bool {
	_, ok := mediaExtensions[mimeType]
	return ok && strings.HasPrefix(mimeType, "image/") && mimeType != "image/svg+xml"
}

// HasThumbnail reports whether uploads of mimeType get a thumbnail.
func HasThumbnail(mimeType string) bool {
	return thumbnailTypes[mimeType]
}
