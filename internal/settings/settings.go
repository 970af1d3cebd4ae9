// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package settings serves SEO configuration values. Reads go through the
// cache layers before touching the database; any write flushes the whole
// settings cache, since the key set is small and values may be derived
// from one another by the consumers.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"realtycms/internal/models"
)

// ErrInvalidValue is returned when a value does not parse as its declared type.
var ErrInvalidValue = errors.New("invalid setting value")

// DefaultGroup is used when a setting is written without a group.
const DefaultGroup = "general"

// Store persists settings rows.
type Store interface {
	All(ctx context.Context) ([]models.SeoSetting, error)
	Find(ctx context.Context, key string) (*models.SeoSetting, error)
	Upsert(ctx context.Context, s models.SeoSetting) error
	UpsertMany(ctx context.Context, settings []models.SeoSetting) error
	Delete(ctx context.Context, key string) error
}

// Cache holds setting values by key.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
	Flush(ctx context.Context)
}

// InvalidationLog records cache flushes.
type InvalidationLog interface {
	Log(ctx context.Context, entityType, entityKey, action string)
}

// Service reads and writes SEO settings.
type Service struct {
	store Store
	cache Cache
	log   InvalidationLog
}

// New creates a settings service. log may be nil.
func New(store Store, cache Cache, log InvalidationLog) *Service {
	return &Service{store: store, cache: cache, log: log}
}

// Get returns the value for key, or def when the setting does not exist.
// Missing keys are not cached, so a later Set is picked up immediately.
func (s *Service) Get(ctx context.Context, key, def string) (string, error) {
	if v, ok := s.cache.Get(ctx, key); ok {
		return v, nil
	}

	st, err := s.store.Find(ctx, key)
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	if st == nil {
		return def, nil
	}

	s.cache.Set(ctx, key, st.Value)
	return st.Value, nil
}

// All returns every stored setting ordered by group and key.
func (s *Service) All(ctx context.Context) ([]models.SeoSetting, error) {
	return s.store.All(ctx)
}

// Find returns a single setting row, or nil if it does not exist.
func (s *Service) Find(ctx context.Context, key string) (*models.SeoSetting, error) {
	return s.store.Find(ctx, key)
}

// Set validates and stores a setting, then flushes the cache.
func (s *Service) Set(ctx context.Context, key, value string, typ models.SettingType, group string) (*models.SeoSetting, error) {
	st, err := normalize(models.SeoSetting{Key: key, Value: value, Type: typ, Group: group})
	if err != nil {
		return nil, err
	}
	if err := s.store.Upsert(ctx, st); err != nil {
		return nil, err
	}
	s.flush(ctx, st.Key)
	return &st, nil
}

// SetMany validates every setting before writing any of them, stores them
// in one transaction and flushes the cache once.
func (s *Service) SetMany(ctx context.Context, in []models.SeoSetting) ([]models.SeoSetting, error) {
	out := make([]models.SeoSetting, 0, len(in))
	for _, st := range in {
		n, err := normalize(st)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return out, nil
	}
	if err := s.store.UpsertMany(ctx, out); err != nil {
		return nil, err
	}
	s.flush(ctx, "*")
	return out, nil
}

// Delete removes a setting and flushes the cache.
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return err
	}
	s.flush(ctx, key)
	return nil
}

func (s *Service) flush(ctx context.Context, key string) {
	s.cache.Flush(ctx)
	if s.log != nil {
		s.log.Log(ctx, "seo_setting", key, "flush")
	}
}

// normalize fills defaults and checks the value against its type.
func normalize(st models.SeoSetting) (models.SeoSetting, error) {
	st.Key = strings.TrimSpace(st.Key)
	if st.Key == "" {
		return st, fmt.Errorf("%w: key is required", ErrInvalidValue)
	}
	if len(st.Key) > 100 {
		return st, fmt.Errorf("%w: key %s is too long", ErrInvalidValue, st.Key)
	}
	if st.Type == "" {
		st.Type = models.SettingString
	}
	if !st.Type.Valid() {
		return st, fmt.Errorf("%w: unknown type %q for %s", ErrInvalidValue, st.Type, st.Key)
	}
	if strings.TrimSpace(st.Group) == "" {
		st.Group = DefaultGroup
	}
	if _, err := st.Typed(); err != nil {
		return st, fmt.Errorf("%w: %s is not a valid %s", ErrInvalidValue, st.Key, st.Type)
	}
	return st, nil
}
