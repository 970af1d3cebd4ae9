package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestCommentIsReply(t *testing.T) {
	parent := uuid.New()

	top := &Comment{}
	if top.IsReply() {
		t.Error("comment without parent should not be a reply")
	}

	reply := &Comment{ParentID: &parent}
	if !reply.IsReply() {
		t.Error("comment with parent should be a reply")
	}
}

func TestCommentGuestAuthor(t *testing.T) {
	name := "Jane Guest"
	guest := &Comment{GuestName: &name}
	if !guest.IsGuest() {
		t.Error("comment without user should be a guest comment")
	}
	if guest.AuthorName() != name {
		t.Errorf("AuthorName: got %q, want %q", guest.AuthorName(), name)
	}

	uid := uuid.New()
	registered := &Comment{UserID: &uid}
	if registered.IsGuest() {
		t.Error("comment with user should not be a guest comment")
	}
	if registered.AuthorName() != "" {
		t.Errorf("AuthorName for registered author: got %q, want empty", registered.AuthorName())
	}
}
