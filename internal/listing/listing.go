// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package listing

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Filter maps one query parameter onto a SQL condition.
type Filter struct {
	// Param is the query parameter name, e.g. "status".
	Param string
	// Column is compared for equality with the parsed value.
	Column string
	// Clause replaces the equality test when set. It must contain exactly
	// one %s, which is substituted with the placeholder.
	Clause string
	// Parse validates and converts the raw value. A false result means the
	// value is unknown and the filter is skipped. Nil accepts any value.
	Parse func(string) (any, bool)
}

// Definition describes how one entity is listed.
type Definition struct {
	// SearchColumns are ORed together with ILIKE.
	SearchColumns []string
	Filters       []Filter
	// Sorts maps the public sort key to a column expression.
	Sorts            map[string]string
	DefaultSort      string
	DefaultDirection string
	PerPage          int
	// Key breaks ties so that pages are stable. Defaults to "id".
	Key string
}

// Query is the compiled tail of a list statement.
type Query struct {
	Where   string
	Args    []any
	OrderBy string
	Page    int
	PerPage int
}

// Offset returns the row offset of the requested page.
func (q Query) Offset() int {
	return (q.Page - 1) * q.PerPage
}

// Limit appends LIMIT/OFFSET placeholders after the filter arguments and
// returns the clause together with the full argument list.
func (q Query) Limit() (string, []any) {
	n := len(q.Args)
	args := make([]any, 0, n+2)
	args = append(args, q.Args...)
	args = append(args, q.PerPage, q.Offset())
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", n+1, n+2), args
}

// Build compiles request parameters against the definition. Unknown filters,
// unknown sort keys and invalid directions are ignored in favour of the
// defaults.
func (s Definition) Build(p Params) Query {
	var conds []string
	var args []any

	placeholder := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if p.Search != "" && len(s.SearchColumns) > 0 {
		ph := placeholder("%" + escapeLike(p.Search) + "%")
		ors := make([]string, len(s.SearchColumns))
		for i, col := range s.SearchColumns {
			ors[i] = col + " ILIKE " + ph
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	for _, f := range s.Filters {
		raw, ok := p.Filters[f.Param]
		if !ok || raw == "" {
			continue
		}
		var val any = raw
		if f.Parse != nil {
			if val, ok = f.Parse(raw); !ok {
				continue
			}
		}
		ph := placeholder(val)
		if f.Clause != "" {
			conds = append(conds, fmt.Sprintf(f.Clause, ph))
		} else {
			conds = append(conds, f.Column+" = "+ph)
		}
	}

	q := Query{Args: args, Page: p.Page, PerPage: s.PerPage}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 15
	}
	if last := MaxPage / q.PerPage; q.Page > last {
		q.Page = last
	}
	if len(conds) > 0 {
		q.Where = "WHERE " + strings.Join(conds, " AND ")
	}
	q.OrderBy = s.orderBy(p.Sort, p.Direction)
	return q
}

func (s Definition) orderBy(sort, direction string) string {
	col, ok := s.Sorts[sort]
	if !ok {
		col = s.Sorts[s.DefaultSort]
	}

	dir := strings.ToUpper(direction)
	if dir != "ASC" && dir != "DESC" {
		dir = strings.ToUpper(s.DefaultDirection)
		if dir != "ASC" {
			dir = "DESC"
		}
	}

	key := s.Key
	if key == "" {
		key = "id"
	}
	if col == "" {
		return "ORDER BY " + key + " " + dir
	}
	return "ORDER BY " + col + " " + dir + ", " + key + " " + dir
}

// escapeLike escapes the LIKE metacharacters so that user input matches
// literally. Backslash is the default escape character in PostgreSQL.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// OneOf accepts only the listed values.
func OneOf(values ...string) func(string) (any, bool) {
	return func(v string) (any, bool) {
		for _, allowed := range values {
			if v == allowed {
				return v, true
			}
		}
		return nil, false
	}
}

// UUID accepts well-formed UUIDs.
func UUID(v string) (any, bool) {
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, false
	}
	return id, true
}

// Bool accepts the usual spellings of true and false.
func Bool(v string) (any, bool) {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return nil, false
}
