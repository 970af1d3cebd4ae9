// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package listing

// Meta is the pagination block of a list response.
type Meta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// Page is the envelope returned by every list endpoint.
type Page[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

// NewPage wraps one page of rows. Data is never nil so that it encodes as
// an empty JSON array.
func NewPage[T any](data []T, q Query, total int) Page[T] {
	if data == nil {
		data = []T{}
	}
	last := 1
	if q.PerPage > 0 && total > 0 {
		last = (total + q.PerPage - 1) / q.PerPage
	}
	return Page[T]{
		Data: data,
		Meta: Meta{
			CurrentPage: q.Page,
			LastPage:    last,
			PerPage:     q.PerPage,
			Total:       total,
		},
	}
}
