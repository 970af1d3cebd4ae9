// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package listing composes the search, filter, sort and pagination part of
// every admin list query. Each entity describes itself with a Definition; Build
// turns request parameters into a parameterized WHERE/ORDER BY/LIMIT tail
// that the store appends to its SELECT.
package listing

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Reserved query parameter names. Every other non-empty parameter is a
// candidate filter.
const (
	ParamSearch    = "search"
	ParamSort      = "sort"
	ParamDirection = "direction"
	ParamPage      = "page"
)

// MaxPage is the highest page number a request can ask for. Build lowers
// it further so that the row offset stays within an int32.
const MaxPage = math.MaxInt32

// Params holds the raw list options of one request.
type Params struct {
	Search    string
	Filters   map[string]string
	Sort      string
	Direction string
	Page      int
}

// ParseParams extracts list options from a query string. Malformed page
// numbers fall back to page 1 and oversized ones to MaxPage.
func ParseParams(q url.Values) Params {
	p := Params{
		Search:    strings.TrimSpace(q.Get(ParamSearch)),
		Sort:      strings.TrimSpace(q.Get(ParamSort)),
		Direction: strings.ToLower(strings.TrimSpace(q.Get(ParamDirection))),
		Page:      1,
		Filters:   make(map[string]string),
	}

	// Atoi saturates on ErrRange, which the clamp below then bounds.
	if n, err := strconv.Atoi(q.Get(ParamPage)); err == nil || errors.Is(err, strconv.ErrRange) {
		p.Page = n
	}
	p.Page = max(1, min(p.Page, MaxPage))

	for key, values := range q {
		switch key {
		case ParamSearch, ParamSort, ParamDirection, ParamPage:
			continue
		}
		if len(values) == 0 {
			continue
		}
		if v := strings.TrimSpace(values[0]); v != "" {
			p.Filters[key] = v
		}
	}
	return p
}
