// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package upload inspects uploaded files before they are stored: it sniffs
// the content type against an allow-list, enforces the size limit, reads
// pixel dimensions of raster images, derives a collision-resistant object
// key and renders a JPEG thumbnail where the format allows it.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"realtycms/internal/models"
)

const (
	// MaxSize is the largest accepted upload (20 MB).
	MaxSize = 20 << 20

	// ThumbMaxWidth is the maximum thumbnail width in pixels.
	ThumbMaxWidth = 400

	thumbQuality = 80

	// maxImagePixels caps the decoded size to prevent memory bombs.
	maxImagePixels = 100_000_000
)

var (
	ErrEmpty           = errors.New("file is empty")
	ErrTooLarge        = fmt.Errorf("file exceeds %d MB", MaxSize>>20)
	ErrUnsupportedType = errors.New("file type is not allowed")
)

// File is an inspected upload ready to be stored.
type File struct {
	OriginalName string
	Filename     string // generated, <uuid><ext>
	MimeType     string
	Data         []byte
	Width        *int
	Height       *int
	Key          string // media/YYYY/MM/<uuid><ext>
	ThumbKey     string // empty when no thumbnail was produced
	Thumb        []byte
}

// Size returns the byte size of the file.
func (f *File) Size() int64 {
	return int64(len(f.Data))
}

// Read consumes r (at most MaxSize bytes) and inspects the result. now
// determines the year/month segment of the object key.
func Read(r io.Reader, originalName string, now time.Time) (*File, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return Inspect(data, originalName, now)
}

// Inspect validates data and builds the stored representation.
func Inspect(data []byte, originalName string, now time.Time) (*File, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data) > MaxSize {
		return nil, ErrTooLarge
	}

	mimeType := DetectType(data, originalName)
	ext, ok := models.MediaExtension(mimeType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	id := uuid.New().String()
	prefix := fmt.Sprintf("media/%d/%02d/%s", now.Year(), now.Month(), id)
	f := &File{
		OriginalName: filepath.Base(originalName),
		Filename:     id + ext,
		MimeType:     mimeType,
		Data:         data,
		Key:          prefix + ext,
	}

	if models.IsRasterImage(mimeType) {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: unreadable image: %v", ErrUnsupportedType, err)
		}
		if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
			return nil, fmt.Errorf("%w: image is %dx%d pixels", ErrTooLarge, cfg.Width, cfg.Height)
		}
		f.Width, f.Height = &cfg.Width, &cfg.Height
	}

	if models.HasThumbnail(mimeType) {
		thumb, err := Thumbnail(data, ThumbMaxWidth)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, err)
		}
		f.Thumb = thumb
		f.ThumbKey = prefix + "_thumb.jpg"
	}

	return f, nil
}

// DetectType sniffs the MIME type from content. SVG is sniffed as XML or
// plain text, so the file name decides in that case.
func DetectType(data []byte, name string) string {
	contentType := http.DetectContentType(data)
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	if strings.HasSuffix(strings.ToLower(name), ".svg") &&
		(strings.Contains(contentType, "xml") || contentType == "text/plain") {
		return "image/svg+xml"
	}
	return contentType
}

// Thumbnail renders a JPEG no wider than maxWidth, preserving aspect
// ratio. Images already within the limit are re-encoded at their size.
func Thumbnail(data []byte, maxWidth int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxWidth {
		h = max(1, h*maxWidth/w)
		w = maxWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
