// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package moderation models the comment moderation state machine. It owns
// the status enum and a single transition function that reports the
// counter adjustments a status change implies. It performs no I/O; the
// store applies the reported effects inside one transaction.
package moderation

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the moderation state of a comment.
type Status string

const (
	Pending  Status = "pending"
	Approved Status = "approved"
	Rejected Status = "rejected"
	Spam     Status = "spam"
)

// Statuses lists every status in display order.
var Statuses = []Status{Pending, Approved, Rejected, Spam}

var (
	// ErrUnknownStatus is returned when parsing an unrecognized status.
	ErrUnknownStatus = errors.New("unknown comment status")
	// ErrUnknownAction is returned when parsing an unrecognized action.
	ErrUnknownAction = errors.New("unknown moderation action")
)

// Valid reports whether s is one of the four moderation states.
func (s Status) Valid() bool {
	switch s {
	case Pending, Approved, Rejected, Spam:
		return true
	}
	return false
}

// ParseStatus converts user input into a Status. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// Action is an admin moderation command.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionSpam    Action = "spam"
	ActionDelete  Action = "delete"
)

// ParseAction converts user input into an Action.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case ActionApprove, ActionReject, ActionSpam, ActionDelete:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Target returns the status an action moves a comment into. Delete has no
// target status and reports false.
func (a Action) Target() (Status, bool) {
	switch a {
	case ActionApprove:
		return Approved, true
	case ActionReject:
		return Rejected, true
	case ActionSpam:
		return Spam, true
	}
	return "", false
}
