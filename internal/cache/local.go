// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultLocalSize is the entry limit of the in-process cache.
const DefaultLocalSize = 512

// Local is the in-process settings cache (L1). Entries expire after a short
// TTL so that a flush on another instance is picked up without any
// cross-process signalling.
type Local struct {
	lru *expirable.LRU[string, string]
}

// NewLocal creates an expiring LRU holding up to size entries.
func NewLocal(size int, ttl time.Duration) *Local {
	if size <= 0 {
		size = DefaultLocalSize
	}
	return &Local{lru: expirable.NewLRU[string, string](size, nil, ttl)}
}

// Get returns the cached value for key.
func (l *Local) Get(_ context.Context, key string) (string, bool) {
	return l.lru.Get(key)
}

// Set stores a value.
func (l *Local) Set(_ context.Context, key, value string) {
	l.lru.Add(key, value)
}

// Flush drops every entry.
func (l *Local) Flush(context.Context) {
	l.lru.Purge()
}

// Len reports the number of live entries.
func (l *Local) Len() int {
	return l.lru.Len()
}
