// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL-friendly identifiers from titles and makes them
// unique within a table by appending a numeric suffix.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Fallback is used when a title contains nothing that survives
// normalization.
const Fallback = "untitled"

// maxAttempts bounds the suffix search. Reaching it means the exists check
// is broken rather than that the table is genuinely full.
const maxAttempts = 10000

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, space or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace      = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// ExistsFunc reports whether a slug is already taken by another row.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Unique returns base if it is free, otherwise the first free candidate of
// base-1, base-2, and so on. An empty base becomes Fallback. When maxLen is
// positive every candidate, suffix included, is at most maxLen bytes long;
// base is cut as needed to make room for the suffix.
//
// The check and the subsequent insert are not atomic; a concurrent writer
// can still take the slug, in which case the unique index rejects the
// insert.
func Unique(ctx context.Context, base string, maxLen int, exists ExistsFunc) (string, error) {
	if base == "" {
		base = Fallback
	}

	candidate := Truncate(base, maxLen)
	for i := 1; i <= maxAttempts; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		suffix := fmt.Sprintf("-%d", i)
		candidate = Truncate(base, maxLen-len(suffix)) + suffix
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxAttempts)
}

// Truncate cuts s to at most maxLen bytes and drops any hyphens left
// dangling at the cut. A non-positive maxLen leaves s unchanged. Slugs
// are ASCII once generated, so byte and rune lengths agree.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return strings.TrimRight(s[:maxLen], "-")
}

// FromTitle normalizes an explicit slug when one was submitted and falls
// back to deriving one from the title.
func FromTitle(title, explicit string) string {
	if s := Generate(explicit); s != "" {
		return s
	}
	return Generate(title)
}
