// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"realtycms/internal/cache"
	"realtycms/internal/models"
	"realtycms/internal/settings"
)

// memSettings is an in-memory settings.Store.
type memSettings struct {
	mu   sync.Mutex
	rows map[string]models.SeoSetting
}

func (m *memSettings) All(context.Context) ([]models.SeoSetting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SeoSetting, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *memSettings) Find(_ context.Context, key string) (*models.SeoSetting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[key]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memSettings) Upsert(_ context.Context, s models.SeoSetting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.Key] = s
	return nil
}

func (m *memSettings) UpsertMany(ctx context.Context, in []models.SeoSetting) error {
	for _, s := range in {
		m.Upsert(ctx, s)
	}
	return nil
}

func (m *memSettings) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, key)
	return nil
}

func seoAdmin(t *testing.T) (*Admin, *settings.Service, *cache.Local) {
	t.Helper()
	local := cache.NewLocal(16, time.Minute)
	svc := settings.New(&memSettings{rows: map[string]models.SeoSetting{}}, cache.NewLayered(local), nil)
	return NewAdmin(Stores{}, nil, svc, nil), svc, local
}

func TestSeoUpdate_FlushesCache(t *testing.T) {
	a, svc, local := seoAdmin(t)
	ctx := context.Background()

	rec := serve(t, a.SeoUpdate, http.MethodPut, "/seo/{key}", "/seo/site_title",
		map[string]string{"value": "Old Title"}, adminSession())
	expectStatus(t, rec, http.StatusOK)

	if v, _ := svc.Get(ctx, "site_title", ""); v != "Old Title" {
		t.Fatalf("site_title: got %q", v)
	}
	if local.Len() == 0 {
		t.Fatal("expected the read to populate the cache")
	}

	rec = serve(t, a.SeoUpdate, http.MethodPut, "/seo/{key}", "/seo/site_title",
		map[string]string{"value": "New Title"}, adminSession())
	expectStatus(t, rec, http.StatusOK)

	if v, _ := svc.Get(ctx, "site_title", ""); v != "New Title" {
		t.Errorf("stale value after update: got %q", v)
	}
}

func TestSeoUpdate_InvalidValue(t *testing.T) {
	a, _, _ := seoAdmin(t)

	rec := serve(t, a.SeoUpdate, http.MethodPut, "/seo/{key}", "/seo/robots_index",
		map[string]string{"value": "maybe", "type": "boolean"}, adminSession())
	expectStatus(t, rec, http.StatusUnprocessableEntity)
	if _, ok := decodeResponse(t, rec).Fields["value"]; !ok {
		t.Error("expected a value field error")
	}
}

func TestSeoUpdateMany_AllOrNothing(t *testing.T) {
	a, svc, _ := seoAdmin(t)

	body := map[string]any{"settings": []map[string]string{
		{"key": "site_title", "value": "Realty"},
		{"key": "max_items", "value": "ten", "type": "integer"},
	}}
	rec := serve(t, a.SeoUpdateMany, http.MethodPut, "/seo", "/seo", body, adminSession())
	expectStatus(t, rec, http.StatusUnprocessableEntity)

	if st, _ := svc.Find(context.Background(), "site_title"); st != nil {
		t.Error("valid setting written despite an invalid sibling")
	}
}

func TestSeoUpdateMany_Empty(t *testing.T) {
	a, _, _ := seoAdmin(t)
	rec := serve(t, a.SeoUpdateMany, http.MethodPut, "/seo", "/seo", map[string]any{"settings": []any{}}, adminSession())
	expectStatus(t, rec, http.StatusUnprocessableEntity)
}

func TestSeoIndex_GroupsSettings(t *testing.T) {
	a, svc, _ := seoAdmin(t)
	ctx := context.Background()
	svc.Set(ctx, "site_title", "Realty", models.SettingString, "general")
	svc.Set(ctx, "og_image", "/og.png", models.SettingString, "social")
	svc.Set(ctx, "twitter_handle", "@realty", models.SettingString, "social")

	rec := serve(t, a.SeoIndex, http.MethodGet, "/seo", "/seo", nil, adminSession())
	expectStatus(t, rec, http.StatusOK)

	var grouped map[string][]models.SeoSetting
	decodeData(t, rec, &grouped)
	if len(grouped["general"]) != 1 || len(grouped["social"]) != 2 {
		t.Errorf("unexpected grouping: %+v", grouped)
	}
}

func TestSeoShowAndDelete(t *testing.T) {
	a, svc, _ := seoAdmin(t)
	svc.Set(context.Background(), "site_title", "Realty", "", "")

	rec := serve(t, a.SeoShow, http.MethodGet, "/seo/{key}", "/seo/site_title", nil, adminSession())
	expectStatus(t, rec, http.StatusOK)
	var st models.SeoSetting
	decodeData(t, rec, &st)
	if st.Type != models.SettingString || st.Group != settings.DefaultGroup {
		t.Errorf("defaults not applied: %+v", st)
	}

	rec = serve(t, a.SeoDelete, http.MethodDelete, "/seo/{key}", "/seo/site_title", nil, adminSession())
	expectStatus(t, rec, http.StatusOK)

	rec = serve(t, a.SeoShow, http.MethodGet, "/seo/{key}", "/seo/site_title", nil, adminSession())
	expectStatus(t, rec, http.StatusNotFound)
}
