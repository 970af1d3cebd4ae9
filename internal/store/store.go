// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all RealtyCMS
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"realtycms/internal/listing"
	"realtycms/internal/slug"
)

var (
	// ErrNotFound is returned by mutations that target a missing row.
	// Lookups return (nil, nil) instead.
	ErrNotFound = errors.New("not found")
	// ErrConflict wraps unique constraint violations.
	ErrConflict = errors.New("already exists")
	// ErrInUse is returned when a row is still referenced by other rows.
	ErrInUse = errors.New("still in use")
)

// PostgreSQL error codes mapped by mapError.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// ConstraintError carries the name of the violated constraint next to the
// sentinel it maps to.
type ConstraintError struct {
	Err        error
	Constraint string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%v (%s)", e.Err, e.Constraint)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// Field guesses the offending column from PostgreSQL's default constraint
// naming, e.g. "agents_license_number_key" on table "agents" yields
// "license_number". It returns "" when the name does not follow the pattern.
func (e *ConstraintError) Field(table string) string {
	name, ok := strings.CutPrefix(e.Constraint, table+"_")
	if !ok {
		return ""
	}
	name, ok = strings.CutSuffix(name, "_key")
	if !ok {
		return ""
	}
	return name
}

// mapError translates constraint violations into ErrConflict and ErrInUse.
// Other errors are returned unchanged.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return &ConstraintError{Err: ErrConflict, Constraint: pgErr.ConstraintName}
	case pgForeignKeyViolation:
		return &ConstraintError{Err: ErrInUse, Constraint: pgErr.ConstraintName}
	}
	return err
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// list runs the count and page queries of a listing. from is the FROM
// clause including any joins; columns is the select list scanned by scan.
func list[T any](ctx context.Context, db queryer, from, columns string, q listing.Query,
	scan func(scanner) (*T, error)) (listing.Page[T], error) {

	var total int
	countSQL := "SELECT COUNT(*) FROM " + from + " " + q.Where
	if err := db.QueryRowContext(ctx, countSQL, q.Args...).Scan(&total); err != nil {
		return listing.Page[T]{}, fmt.Errorf("count %s: %w", from, err)
	}

	limit, args := q.Limit()
	rows, err := db.QueryContext(ctx,
		"SELECT "+columns+" FROM "+from+" "+q.Where+" "+q.OrderBy+" "+limit, args...)
	if err != nil {
		return listing.Page[T]{}, fmt.Errorf("list %s: %w", from, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return listing.Page[T]{}, fmt.Errorf("scan %s: %w", from, err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return listing.Page[T]{}, err
	}
	return listing.NewPage(items, q, total), nil
}

// slugTaken reports whether another row of table already uses candidate.
func slugTaken(ctx context.Context, db queryer, table, candidate string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+table+` WHERE slug = $1 AND id <> $2)`,
		candidate, exclude,
	).Scan(&taken)
	return taken, err
}

// slugWidths holds the VARCHAR width of each table's slug column.
var slugWidths = map[string]int{
	"amenities":      255,
	"locations":      255,
	"property_types": 255,
	"properties":     300,
	"categories":     255,
	"tags":           255,
	"posts":          300,
}

// pickSlug decides the slug a row is saved with. A submitted slug is
// normalized and made unique. Without one, the slug is derived from the
// title on create, and on update only when the title changed. prevTitle
// and prevSlug are empty on create. The result always fits the table's
// slug column.
func pickSlug(ctx context.Context, db queryer, table string, id uuid.UUID,
	title, submitted, prevTitle, prevSlug string) (string, error) {

	base := slug.Generate(submitted)
	switch {
	case base != "":
	case prevSlug != "" && title == prevTitle:
		return prevSlug, nil
	default:
		base = slug.Generate(title)
	}

	return slug.Unique(ctx, base, slugWidths[table], func(ctx context.Context, candidate string) (bool, error) {
		return slugTaken(ctx, db, table, candidate, id)
	})
}

// countRefs returns how many rows of the query's table reference id.
func countRefs(ctx context.Context, db queryer, query string, id uuid.UUID) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, query, id).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// syncJoin replaces the rows of a many-to-many join table for one owner.
func syncJoin(ctx context.Context, tx *sql.Tx, table, ownerCol, itemCol string,
	owner uuid.UUID, items []uuid.UUID) error {

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE `+ownerCol+` = $1`, owner); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	if len(items) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO `+table+` (`+ownerCol+`, `+itemCol+`) VALUES ($1, $2) ON CONFLICT DO NOTHING`)
	if err != nil {
		return fmt.Errorf("prepare %s: %w", table, err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, owner, item); err != nil {
			return fmt.Errorf("insert %s: %w", table, mapError(err))
		}
	}
	return nil
}

// loadIDs collects a single UUID column.
func loadIDs(ctx context.Context, db queryer, query string, args ...any) ([]uuid.UUID, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// affected turns a zero-row result into ErrNotFound.
func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
