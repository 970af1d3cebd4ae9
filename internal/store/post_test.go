// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"realtycms/internal/models"
)

func TestPostSyncTagsAndCategories(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	posts := NewPostStore(db)
	post := testPost(t, db)

	tags := NewTagStore(db)
	cats := NewCategoryStore(db)
	suffix := uuid.NewString()[:8]

	t1, err := tags.Create(ctx, &models.Tag{Name: "Investing " + suffix})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	t2, err := tags.Create(ctx, &models.Tag{Name: "Renting " + suffix})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	cat, err := cats.Create(ctx, &models.Category{Name: "Guides " + suffix})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM tags WHERE id IN ($1, $2)", t1.ID, t2.ID)
		db.Exec("DELETE FROM categories WHERE id = $1", cat.ID)
	})

	if err := posts.SyncTags(ctx, post.ID, []uuid.UUID{t1.ID, t2.ID, t1.ID}); err != nil {
		t.Fatalf("sync tags: %v", err)
	}
	if err := posts.SyncCategories(ctx, post.ID, []uuid.UUID{cat.ID}); err != nil {
		t.Fatalf("sync categories: %v", err)
	}

	got, err := posts.FindByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got.TagIDs) != 2 || len(got.CategoryIDs) != 1 {
		t.Fatalf("links: tags=%v categories=%v", got.TagIDs, got.CategoryIDs)
	}

	if err := posts.SyncTags(ctx, post.ID, []uuid.UUID{t2.ID}); err != nil {
		t.Fatalf("resync tags: %v", err)
	}
	got, _ = posts.FindByID(ctx, post.ID)
	if len(got.TagIDs) != 1 || got.TagIDs[0] != t2.ID {
		t.Errorf("after resync: %v", got.TagIDs)
	}

	counted, _ := tags.FindByID(ctx, t2.ID)
	if counted.PostsCount != 1 {
		t.Errorf("tag posts_count: got %d", counted.PostsCount)
	}
}

func TestPostPublishStampsPublishedAt(t *testing.T) {
	db := testDB(t)
	author := testUser(t, db)
	s := NewPostStore(db)
	ctx := context.Background()

	p, err := s.Create(ctx, &models.Post{Title: "Draft " + uuid.NewString()[:8], Status: models.PostStatusDraft, AuthorID: author.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.PublishedAt != nil {
		t.Error("draft must not have published_at")
	}

	p.Status = models.PostStatusPublished
	p, err = s.Update(ctx, p)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if p.PublishedAt == nil {
		t.Error("published_at not stamped")
	}

	found, err := s.FindPublishedBySlug(ctx, p.Slug)
	if err != nil || found == nil || found.ID != p.ID {
		t.Errorf("FindPublishedBySlug: %v %v", found, err)
	}
}

func TestCategoryCycleRefused(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()
	suffix := uuid.NewString()[:8]

	parent, err := s.Create(ctx, &models.Category{Name: "Parent " + suffix})
	if err != nil {
		t.Fatal(err)
	}
	child, err := s.Create(ctx, &models.Category{Name: "Child " + suffix, ParentID: &parent.ID})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id IN ($1, $2)", parent.ID, child.ID) })

	parent.ParentID = &child.ID
	if _, err := s.Update(ctx, parent); err != ErrCategoryCycle {
		t.Errorf("got %v, want ErrCategoryCycle", err)
	}
}
