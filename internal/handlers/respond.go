// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"realtycms/internal/moderation"
	"realtycms/internal/settings"
	"realtycms/internal/store"
	"realtycms/internal/upload"
)

// maxJSONBody caps request bodies of JSON endpoints.
const maxJSONBody = 1 << 20

// envelope is the success body of mutations and single-item reads.
type envelope struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// errorBody is the failure body of every endpoint.
type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// respond writes a success envelope.
func respond(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Message: message, Data: data})
}

func respondError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// respondInvalid writes a 422 with per-field messages.
func respondInvalid(w http.ResponseWriter, fields fieldErrors) {
	writeJSON(w, http.StatusUnprocessableEntity, errorBody{
		Error:  "The given data was invalid.",
		Fields: fields,
	})
}

// decodeJSON reads a JSON request body into dst. It writes the error
// response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		respondError(w, http.StatusRequestEntityTooLarge, "Request body is too large.")
	case errors.Is(err, io.EOF):
		respondError(w, http.StatusBadRequest, "Request body is empty.")
	default:
		respondError(w, http.StatusBadRequest, "Malformed JSON body.")
	}
	return false
}

// resource describes an entity for error messages.
type resource struct {
	name  string // display name, e.g. "Agent"
	table string // used to derive the field of a unique violation
	inUse string // message when deletion is refused
}

var (
	agentRes        = resource{"Agent", "agents", "Cannot delete an agent who still has properties."}
	amenityRes      = resource{"Amenity", "amenities", "Cannot delete an amenity that is still assigned to properties."}
	locationRes     = resource{"Location", "locations", "Cannot delete a location that still has properties."}
	propertyTypeRes = resource{"Property type", "property_types", "Cannot delete a property type that still has properties."}
	propertyRes     = resource{name: "Property", table: "properties"}
	postRes         = resource{name: "Post", table: "posts"}
	tagRes          = resource{name: "Tag", table: "tags"}
	categoryRes     = resource{name: "Category", table: "categories"}
	commentRes      = resource{name: "Comment", table: "comments"}
	mediaRes        = resource{name: "Media", table: "media"}
	userRes         = resource{"User", "users", "Cannot delete a user who still authors posts."}
	teamRes         = resource{name: "Team", table: "teams"}
	settingRes      = resource{name: "Setting", table: "seo_settings"}
)

// notFound writes the 404 for res.
func notFound(w http.ResponseWriter, res resource) {
	respondError(w, http.StatusNotFound, res.name+" not found.")
}

// fail maps a store or service error to an HTTP response. Unknown errors
// are logged and reported as 500.
func fail(w http.ResponseWriter, r *http.Request, res resource, err error) {
	var constraint *store.ConstraintError
	switch {
	case errors.Is(err, store.ErrNotFound):
		notFound(w, res)
	case errors.Is(err, store.ErrConflict):
		if errors.As(err, &constraint) {
			if field := constraint.Field(res.table); field != "" {
				writeJSON(w, http.StatusConflict, errorBody{
					Error:  res.name + " already exists.",
					Fields: fieldErrors{field: "This " + humanize(field) + " has already been taken."},
				})
				return
			}
		}
		respondError(w, http.StatusConflict, res.name+" already exists.")
	case errors.Is(err, store.ErrInUse):
		msg := res.inUse
		if msg == "" {
			msg = res.name + " is still referenced by other records."
		}
		respondError(w, http.StatusConflict, msg)
	case errors.Is(err, store.ErrPersonalTeam):
		respondError(w, http.StatusConflict, "Personal teams cannot be deleted.")
	case errors.Is(err, store.ErrTeamOwner):
		respondError(w, http.StatusConflict, "The team owner cannot be removed.")
	case errors.Is(err, store.ErrCategoryCycle):
		respondInvalid(w, fieldErrors{"parent_id": "A category cannot be nested under itself."})
	case errors.Is(err, store.ErrInvalidParent):
		respondInvalid(w, fieldErrors{"parent_id": "The parent comment does not belong to this post."})
	case errors.Is(err, settings.ErrInvalidValue):
		respondInvalid(w, fieldErrors{"value": capitalize(err.Error()) + "."})
	case errors.Is(err, moderation.ErrUnknownAction):
		respondInvalid(w, fieldErrors{"action": "The selected action is invalid."})
	case errors.Is(err, upload.ErrTooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, "File exceeds the 20 MB limit.")
	case errors.Is(err, upload.ErrEmpty):
		respondInvalid(w, fieldErrors{"file": "The file is empty."})
	case errors.Is(err, upload.ErrUnsupportedType):
		respondInvalid(w, fieldErrors{"file": "This file type is not allowed."})
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"resource", res.name,
			"error", err,
		)
		respondError(w, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}

// failWrite is fail for create and update paths. A foreign key violation
// there means the payload referenced a row that does not exist.
func failWrite(w http.ResponseWriter, r *http.Request, res resource, err error) {
	if errors.Is(err, store.ErrInUse) {
		respondError(w, http.StatusUnprocessableEntity, "One of the referenced records does not exist.")
		return
	}
	fail(w, r, res, err)
}

// pathID parses the {key} URL parameter as a UUID. Malformed ids cannot
// match a row, so they are reported as not found.
func pathID(w http.ResponseWriter, r *http.Request, key string, res resource) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, key))
	if err != nil {
		notFound(w, res)
		return uuid.Nil, false
	}
	return id, true
}
