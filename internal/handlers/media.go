// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"realtycms/internal/middleware"
	"realtycms/internal/models"
	"realtycms/internal/storage"
	"realtycms/internal/upload"
)

// multipartOverhead is the allowance on top of upload.MaxSize for the
// multipart framing and the other form fields.
const multipartOverhead = 1 << 20

// mediaView is a media row plus links to the stored objects.
type mediaView struct {
	models.Media
	URL      string `json:"url,omitempty"`
	ThumbURL string `json:"thumb_url,omitempty"`
}

func (a *Admin) mediaView(ctx context.Context, m *models.Media) mediaView {
	v := mediaView{Media: *m}
	if a.storage == nil {
		return v
	}
	var err error
	if v.URL, err = a.storage.URL(ctx, m.Bucket, m.S3Key); err != nil {
		slog.Warn("media url failed", "media_id", m.ID, "error", err)
	}
	if m.ThumbS3Key != nil {
		if v.ThumbURL, err = a.storage.URL(ctx, m.Bucket, *m.ThumbS3Key); err != nil {
			slog.Warn("media thumb url failed", "media_id", m.ID, "error", err)
		}
	}
	return v
}

// readUpload parses the multipart "file" field. It writes the error
// response itself and returns nil on failure.
func (a *Admin) readUpload(w http.ResponseWriter, r *http.Request) *upload.File {
	if a.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "File storage is not configured.")
		return nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxSize+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			fail(w, r, mediaRes, upload.ErrTooLarge)
		case errors.Is(err, http.ErrMissingFile):
			respondInvalid(w, fieldErrors{"file": "The file field is required."})
		default:
			respondError(w, http.StatusBadRequest, "Malformed multipart body.")
		}
		return nil
	}
	defer file.Close()

	f, err := upload.Read(file, header.Filename, time.Now().UTC())
	if err != nil {
		fail(w, r, mediaRes, err)
		return nil
	}
	return f
}

// saveUpload writes the file (and its thumbnail) to storage and records
// the media row. The objects are removed again if the row cannot be saved.
func (a *Admin) saveUpload(ctx context.Context, f *upload.File, uploader uuid.UUID, alt *string) (*models.Media, error) {
	bucket := a.storage.BucketFor(f.MimeType)
	objects := []storage.Object{{Key: f.Key, ContentType: f.MimeType, Data: f.Data}}
	var thumbKey *string
	if f.ThumbKey != "" {
		objects = append(objects, storage.Object{Key: f.ThumbKey, ContentType: "image/jpeg", Data: f.Thumb})
		thumbKey = &f.ThumbKey
	}
	if err := a.storage.Put(ctx, bucket, objects...); err != nil {
		return nil, err
	}

	m, err := a.stores.Media.Create(ctx, &models.Media{
		Filename:     f.Filename,
		OriginalName: f.OriginalName,
		MimeType:     f.MimeType,
		SizeBytes:    f.Size(),
		Width:        f.Width,
		Height:       f.Height,
		Bucket:       bucket,
		S3Key:        f.Key,
		ThumbS3Key:   thumbKey,
		AltText:      alt,
		UploaderID:   &uploader,
	})
	if err != nil {
		if rmErr := a.storage.Remove(ctx, bucket, f.Key, f.ThumbKey); rmErr != nil {
			slog.Warn("remove orphaned upload failed", "key", f.Key, "error", rmErr)
		}
		return nil, fmt.Errorf("record upload: %w", err)
	}

	slog.Info("media uploaded",
		"media_id", m.ID,
		"mime_type", m.MimeType,
		"size", m.SizeBytes,
		"bucket", bucket,
	)
	return m, nil
}

// MediaList returns one page of media items.
func (a *Admin) MediaList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, err := a.stores.Media.List(ctx, listParams(r))
	if err != nil {
		fail(w, r, mediaRes, err)
		return
	}

	views := make([]mediaView, len(page.Data))
	for i := range page.Data {
		views[i] = a.mediaView(ctx, &page.Data[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": views, "meta": page.Meta})
}

// MediaShow returns a media item with its URLs.
func (a *Admin) MediaShow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", mediaRes)
	if !ok {
		return
	}
	m, err := a.stores.Media.FindByID(r.Context(), id)
	if err != nil {
		fail(w, r, mediaRes, err)
		return
	}
	if m == nil {
		notFound(w, mediaRes)
		return
	}
	respond(w, http.StatusOK, "", a.mediaView(r.Context(), m))
}

// MediaUpload stores a file in the media library. An optional alt_text
// form field is saved with it.
func (a *Admin) MediaUpload(w http.ResponseWriter, r *http.Request) {
	f := a.readUpload(w, r)
	if f == nil {
		return
	}

	alt := r.FormValue("alt_text")
	sess := middleware.SessionFromCtx(r.Context())
	m, err := a.saveUpload(r.Context(), f, sess.UserID, trimPtr(&alt))
	if err != nil {
		fail(w, r, mediaRes, err)
		return
	}
	respond(w, http.StatusCreated, "File uploaded successfully.", a.mediaView(r.Context(), m))
}

type mediaUpdateRequest struct {
	AltText *string `json:"alt_text"`
}

// MediaUpdate changes the alt text of a media item.
func (a *Admin) MediaUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", mediaRes)
	if !ok {
		return
	}
	var req mediaUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.AltText = trimPtr(req.AltText)
	if req.AltText != nil {
		errs := fieldErrors{}
		errs.maxLen("alt_text", *req.AltText, maxTextLen)
		if !errs.ok() {
			respondInvalid(w, errs)
			return
		}
	}

	m, err := a.stores.Media.UpdateAltText(r.Context(), id, req.AltText)
	if err != nil {
		fail(w, r, mediaRes, err)
		return
	}
	respond(w, http.StatusOK, "Media updated successfully.", a.mediaView(r.Context(), m))
}

// MediaDelete removes the media row and then its objects. Storage errors
// are logged; the row is already gone at that point.
func (a *Admin) MediaDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", mediaRes)
	if !ok {
		return
	}
	ctx := r.Context()
	m, err := a.stores.Media.Delete(ctx, id)
	if err != nil {
		fail(w, r, mediaRes, err)
		return
	}
	if m == nil {
		notFound(w, mediaRes)
		return
	}

	if a.storage != nil {
		keys := []string{m.S3Key}
		if m.ThumbS3Key != nil {
			keys = append(keys, *m.ThumbS3Key)
		}
		if err := a.storage.Remove(ctx, m.Bucket, keys...); err != nil {
			slog.Warn("remove media objects failed", "media_id", m.ID, "error", err)
		}
	}
	respond(w, http.StatusOK, "Media deleted successfully.", nil)
}

// readImageUpload is readUpload restricted to raster and vector images.
func (a *Admin) readImageUpload(w http.ResponseWriter, r *http.Request) *upload.File {
	f := a.readUpload(w, r)
	if f == nil {
		return nil
	}
	if !strings.HasPrefix(f.MimeType, "image/") {
		respondInvalid(w, fieldErrors{"file": "The file must be an image."})
		return nil
	}
	return f
}

// AgentPhotoUpload stores an image and makes it the agent's photo.
func (a *Admin) AgentPhotoUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", agentRes)
	if !ok {
		return
	}
	ctx := r.Context()
	agent, err := a.stores.Agents.FindByID(ctx, id)
	if err != nil {
		fail(w, r, agentRes, err)
		return
	}
	if agent == nil {
		notFound(w, agentRes)
		return
	}

	f := a.readImageUpload(w, r)
	if f == nil {
		return
	}
	m, err := a.saveUpload(ctx, f, middleware.SessionFromCtx(ctx).UserID, &agent.Name)
	if err != nil {
		fail(w, r, mediaRes, err)
		return
	}
	if err := a.stores.Agents.SetPhoto(ctx, id, m.ID); err != nil {
		fail(w, r, agentRes, err)
		return
	}
	respond(w, http.StatusOK, "Photo updated successfully.", a.mediaView(ctx, m))
}

// PostFeaturedImageUpload stores an image and makes it the post's
// featured image.
func (a *Admin) PostFeaturedImageUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", postRes)
	if !ok {
		return
	}
	ctx := r.Context()
	post, err := a.stores.Posts.FindByID(ctx, id)
	if err != nil {
		fail(w, r, postRes, err)
		return
	}
	if post == nil {
		notFound(w, postRes)
		return
	}

	f := a.readImageUpload(w, r)
	if f == nil {
		return
	}
	m, err := a.saveUpload(ctx, f, middleware.SessionFromCtx(ctx).UserID, &post.Title)
	if err != nil {
		fail(w, r, mediaRes, err)
		return
	}
	if err := a.stores.Posts.SetFeaturedImage(ctx, id, m.ID); err != nil {
		fail(w, r, postRes, err)
		return
	}
	respond(w, http.StatusOK, "Featured image updated successfully.", a.mediaView(ctx, m))
}
