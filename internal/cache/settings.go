// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// settings.go provides the Valkey-backed settings cache (L2). It is shared
// by every application instance, so a flush issued by one instance is seen
// by all of them.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// settingsKeyPrefix is the Valkey key prefix for cached settings.
	settingsKeyPrefix = "seo:"

	// DefaultSettingsTTL bounds how long a setting stays in Valkey.
	DefaultSettingsTTL = time.Hour
)

// ValkeySettings caches setting values in Valkey.
type ValkeySettings struct {
	client *redis.Client
	ttl    time.Duration
}

// NewValkeySettings creates a settings cache backed by the given Valkey client.
func NewValkeySettings(client *redis.Client, ttl time.Duration) *ValkeySettings {
	if ttl == 0 {
		ttl = DefaultSettingsTTL
	}
	return &ValkeySettings{client: client, ttl: ttl}
}

// Get returns the cached value for key.
func (vs *ValkeySettings) Get(ctx context.Context, key string) (string, bool) {
	val, err := vs.client.Get(ctx, settingsKeyPrefix+key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		slog.Warn("settings cache get error", "key", key, "error", err)
		return "", false
	}
	slog.Debug("settings cache hit", "layer", "valkey", "key", key)
	return val, true
}

// Set stores a value with the configured TTL.
func (vs *ValkeySettings) Set(ctx context.Context, key, value string) {
	if err := vs.client.Set(ctx, settingsKeyPrefix+key, value, vs.ttl).Err(); err != nil {
		slog.Warn("settings cache set error", "key", key, "error", err)
	}
}

// Flush removes every cached setting by scanning for the prefix.
func (vs *ValkeySettings) Flush(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := vs.client.Scan(ctx, cursor, settingsKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("settings cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := vs.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("settings cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	slog.Info("settings cache cleared", "layer", "valkey", "deleted", deleted)
}
