// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"realtycms/internal/models"
)

type settingRequest struct {
	Key   string             `json:"key"`
	Value string             `json:"value"`
	Type  models.SettingType `json:"type"`
	Group string             `json:"group"`
}

type settingsRequest struct {
	Settings []settingRequest `json:"settings"`
}

// SeoIndex returns every SEO setting grouped by its group.
func (a *Admin) SeoIndex(w http.ResponseWriter, r *http.Request) {
	all, err := a.settings.All(r.Context())
	if err != nil {
		fail(w, r, settingRes, err)
		return
	}

	grouped := make(map[string][]models.SeoSetting)
	for _, st := range all {
		grouped[st.Group] = append(grouped[st.Group], st)
	}
	respond(w, http.StatusOK, "", grouped)
}

// SeoUpdateMany saves several settings at once. Nothing is written when
// any of them is invalid; the cache is flushed once.
func (a *Admin) SeoUpdateMany(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Settings) == 0 {
		respondInvalid(w, fieldErrors{"settings": "Provide at least one setting."})
		return
	}

	in := make([]models.SeoSetting, len(req.Settings))
	for i, s := range req.Settings {
		in[i] = models.SeoSetting{Key: s.Key, Value: s.Value, Type: s.Type, Group: s.Group}
	}
	saved, err := a.settings.SetMany(r.Context(), in)
	if err != nil {
		fail(w, r, settingRes, err)
		return
	}
	respond(w, http.StatusOK, "SEO settings updated successfully.", saved)
}

// SeoShow returns one setting.
func (a *Admin) SeoShow(w http.ResponseWriter, r *http.Request) {
	st, err := a.settings.Find(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		fail(w, r, settingRes, err)
		return
	}
	if st == nil {
		notFound(w, settingRes)
		return
	}
	respond(w, http.StatusOK, "", st)
}

// SeoUpdate creates or replaces the setting named in the URL.
func (a *Admin) SeoUpdate(w http.ResponseWriter, r *http.Request) {
	var req settingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	st, err := a.settings.Set(r.Context(), chi.URLParam(r, "key"), req.Value, req.Type, req.Group)
	if err != nil {
		fail(w, r, settingRes, err)
		return
	}
	respond(w, http.StatusOK, "SEO setting updated successfully.", st)
}

// SeoDelete removes a setting.
func (a *Admin) SeoDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.settings.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		fail(w, r, settingRes, err)
		return
	}
	respond(w, http.StatusOK, "SEO setting deleted successfully.", nil)
}
