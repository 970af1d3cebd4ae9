// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import "context"

// Layered reads through its layers in order and backfills the faster
// layers on a hit further down. Writes and flushes go to every layer.
type Layered struct {
	layers []Layer
}

// NewLayered builds a cache from the fastest layer to the slowest. Nil
// layers are skipped, so an optional Valkey layer can be passed as is.
func NewLayered(layers ...Layer) *Layered {
	l := &Layered{}
	for _, layer := range layers {
		if layer != nil {
			l.layers = append(l.layers, layer)
		}
	}
	return l
}

// Get returns the value from the first layer that has it.
func (l *Layered) Get(ctx context.Context, key string) (string, bool) {
	for i, layer := range l.layers {
		if v, ok := layer.Get(ctx, key); ok {
			for j := 0; j < i; j++ {
				l.layers[j].Set(ctx, key, v)
			}
			return v, true
		}
	}
	return "", false
}

// Set writes the value to every layer.
func (l *Layered) Set(ctx context.Context, key, value string) {
	for _, layer := range l.layers {
		layer.Set(ctx, key, value)
	}
}

// Flush clears every layer, slowest first, so a concurrent reader cannot
// refill the fast layer from a stale slow one.
func (l *Layered) Flush(ctx context.Context) {
	for i := len(l.layers) - 1; i >= 0; i-- {
		l.layers[i].Flush(ctx)
	}
}
