// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"realtycms/internal/models"
)

func TestMapError(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "agents_email_key"})
	err := mapError(unique)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("unique violation: got %v, want ErrConflict", err)
	}
	var ce *ConstraintError
	if !errors.As(err, &ce) || ce.Field("agents") != "email" {
		t.Errorf("Field: got %+v", ce)
	}

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "posts_author_id_fkey"}
	if err := mapError(fk); !errors.Is(err, ErrInUse) {
		t.Errorf("foreign key violation: got %v, want ErrInUse", err)
	}

	other := errors.New("connection refused")
	if err := mapError(other); err != other {
		t.Errorf("unrelated error changed: %v", err)
	}
}

func TestConstraintErrorField(t *testing.T) {
	tests := []struct {
		constraint, table, want string
	}{
		{"agents_license_number_key", "agents", "license_number"},
		{"users_email_key", "users", "email"},
		{"posts_slug_key", "posts", "slug"},
		{"idx_custom", "posts", ""},
		{"posts_author_id_fkey", "posts", ""},
	}
	for _, tt := range tests {
		ce := &ConstraintError{Err: ErrConflict, Constraint: tt.constraint}
		if got := ce.Field(tt.table); got != tt.want {
			t.Errorf("Field(%s, %s) = %q, want %q", tt.constraint, tt.table, got, tt.want)
		}
	}
}

func TestBuildTree(t *testing.T) {
	root := models.Category{ID: uuid.New(), Name: "Guides"}
	child := models.Category{ID: uuid.New(), Name: "Buying", ParentID: &root.ID}
	grandchild := models.Category{ID: uuid.New(), Name: "Mortgages", ParentID: &child.ID}
	other := models.Category{ID: uuid.New(), Name: "News"}

	tree := buildTree([]models.Category{root, child, grandchild, other}, nil, 0)
	if len(tree) != 2 {
		t.Fatalf("roots: got %d, want 2", len(tree))
	}
	if len(tree[0].Children) != 1 || tree[0].Children[0].Depth != 1 {
		t.Fatalf("child: got %+v", tree[0].Children)
	}
	gc := tree[0].Children[0].Children
	if len(gc) != 1 || gc[0].Name != "Mortgages" || gc[0].Depth != 2 {
		t.Errorf("grandchild: got %+v", gc)
	}
}

func TestUniqueIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	got := uniqueIDs([]uuid.UUID{a, b, a, a, b})
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("got %v", got)
	}
}
