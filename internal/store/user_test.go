// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"realtycms/internal/models"
)

func TestUserStoreCreate(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db)

	if user.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if user.Role != models.RoleAuthor {
		t.Errorf("role: got %q, want %q", user.Role, models.RoleAuthor)
	}
	if user.TOTPEnabled {
		t.Error("expected totp_enabled=false for new user")
	}
	if user.PasswordHash == "" || user.PasswordHash == "testpass123" {
		t.Error("password hash must be set and not plaintext")
	}
	if user.CurrentTeamID == nil {
		t.Fatal("expected a personal team")
	}

	team, err := NewTeamStore(db).FindByID(context.Background(), *user.CurrentTeamID)
	if err != nil || team == nil {
		t.Fatalf("find personal team: %v", err)
	}
	if !team.PersonalTeam || len(team.Members) != 1 || team.Members[0].Role != TeamRoleOwner {
		t.Errorf("personal team: %+v", team)
	}
}

func TestUserStoreFindByEmail(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	missing, err := s.FindByEmail(ctx, "nobody-"+uuid.NewString()+"@store-test.local")
	if err != nil || missing != nil {
		t.Fatalf("not found case: %v %v", missing, err)
	}

	user := testUser(t, db)
	found, err := s.FindByEmail(ctx, user.Email)
	if err != nil || found == nil || found.ID != user.ID {
		t.Fatalf("FindByEmail: %v %v", found, err)
	}
}

func TestUserStoreDuplicateEmail(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db)

	_, err := NewUserStore(db).Create(context.Background(), "Dup", user.Email, "x", models.RoleEditor)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("got %v, want ErrConflict", err)
	}
}

func TestUserStoreCheckPassword(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	user := testUser(t, db)

	if !s.CheckPassword(user, "testpass123") {
		t.Error("expected correct password to pass")
	}
	if s.CheckPassword(user, "wrong") {
		t.Error("expected wrong password to fail")
	}

	if err := s.UpdatePassword(context.Background(), user.ID, "n3w-secret"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	updated, _ := s.FindByID(context.Background(), user.ID)
	if !s.CheckPassword(updated, "n3w-secret") {
		t.Error("new password rejected")
	}
}

func TestUserStoreTOTPFlow(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()
	user := testUser(t, db)

	if err := s.SetTOTPSecret(ctx, user.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	if err := s.EnableTOTP(ctx, user.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}
	got, _ := s.FindByID(ctx, user.ID)
	if !got.TOTPEnabled || got.TOTPSecret == nil {
		t.Errorf("after enable: %+v", got)
	}

	if err := s.ResetTOTP(ctx, user.ID); err != nil {
		t.Fatalf("ResetTOTP: %v", err)
	}
	got, _ = s.FindByID(ctx, user.ID)
	if got.TOTPEnabled || got.TOTPSecret != nil {
		t.Errorf("after reset: %+v", got)
	}
}

func TestUserWithPostsIsInUse(t *testing.T) {
	db := testDB(t)
	post := testPost(t, db)

	err := NewUserStore(db).Delete(context.Background(), post.AuthorID)
	if !errors.Is(err, ErrInUse) {
		t.Errorf("got %v, want ErrInUse", err)
	}
}

func TestTeamMembership(t *testing.T) {
	db := testDB(t)
	teams := NewTeamStore(db)
	ctx := context.Background()
	owner := testUser(t, db)
	member := testUser(t, db)

	team, err := teams.Create(ctx, "Sales "+uuid.NewString()[:8], owner.ID)
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if err := teams.AddMember(ctx, team.ID, member.ID, "editor"); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := NewUserStore(db).SwitchTeam(ctx, member.ID, team.ID); err != nil {
		t.Fatalf("switch team: %v", err)
	}

	got, _ := teams.FindByID(ctx, team.ID)
	if got.MemberCount != 2 {
		t.Errorf("members: got %d, want 2", got.MemberCount)
	}

	if err := teams.RemoveMember(ctx, team.ID, owner.ID); !errors.Is(err, ErrTeamOwner) {
		t.Errorf("remove owner: got %v", err)
	}
	if err := teams.RemoveMember(ctx, team.ID, member.ID); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	m, _ := NewUserStore(db).FindByID(ctx, member.ID)
	if m.CurrentTeamID != nil && *m.CurrentTeamID == team.ID {
		t.Error("current team should be cleared after removal")
	}

	if err := teams.Delete(ctx, *owner.CurrentTeamID); !errors.Is(err, ErrPersonalTeam) {
		t.Errorf("delete personal team: got %v", err)
	}
	if err := teams.Delete(ctx, team.ID); err != nil {
		t.Errorf("delete team: %v", err)
	}
}
