// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package moderation

// Effect describes what a status change does beyond writing the new status.
//
// CounterDelta applies to the owning post's comments_count and, when the
// comment is a reply, to the parent's replies_count. Only moves into or out
// of Approved change counters, so repeating an approval is a no-op.
type Effect struct {
	From         Status
	To           Status
	CounterDelta int
	// StampApproval sets approved_at/approved_by to now/the acting user.
	StampApproval bool
	// ClearApproval resets approved_at/approved_by to NULL.
	ClearApproval bool
}

// Changed reports whether the transition moves the comment to a new status.
func (e Effect) Changed() bool {
	return e.From != e.To
}

// Counters splits the delta between the post and the parent comment.
func (e Effect) Counters(isReply bool) Counters {
	c := Counters{Post: e.CounterDelta}
	if isReply {
		c.Parent = e.CounterDelta
	}
	return c
}

// Counters holds the adjustments for the two denormalized counters.
type Counters struct {
	Post   int // posts.comments_count
	Parent int // comments.replies_count of the parent
}

// IsZero reports whether no counter needs to change.
func (c Counters) IsZero() bool {
	return c.Post == 0 && c.Parent == 0
}

// Transition computes the effect of moving a comment from one status to
// another. Every transition is allowed; none is refused by a business rule.
func Transition(from, to Status) Effect {
	e := Effect{From: from, To: to}

	switch {
	case to == Approved && from != Approved:
		e.CounterDelta = 1
		e.StampApproval = true
	case to == Approved:
		// Already approved: keep the original approval stamp.
	case from == Approved:
		e.CounterDelta = -1
		e.ClearApproval = true
	default:
		e.ClearApproval = true
	}

	return e
}

// Removal returns the counter delta for deleting a comment in the given
// status. Replies removed along with it are not counted individually.
func Removal(status Status) int {
	if status == Approved {
		return -1
	}
	return 0
}
