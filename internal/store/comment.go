// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"realtycms/internal/listing"
	"realtycms/internal/models"
	"realtycms/internal/moderation"
)

// ErrInvalidParent is returned when a reply points at a comment that does
// not exist or belongs to another post.
var ErrInvalidParent = errors.New("parent comment does not belong to this post")

// CommentStore handles comment persistence and moderation. Every status
// change and its counter adjustments run in a single transaction with the
// comment row locked.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// CommentListing describes how the moderation queue is searched, filtered
// and sorted.
var CommentListing = listing.Definition{
	SearchColumns: []string{"c.content", "c.guest_name", "c.guest_email"},
	Filters: []listing.Filter{
		{Param: "status", Column: "c.status", Parse: func(v string) (any, bool) {
			st, err := moderation.ParseStatus(v)
			return string(st), err == nil
		}},
		{Param: "post_id", Column: "c.post_id", Parse: listing.UUID},
		{Param: "user_id", Column: "c.user_id", Parse: listing.UUID},
		{Param: "parent_id", Column: "c.parent_id", Parse: listing.UUID},
		{Param: "is_featured", Column: "c.is_featured", Parse: listing.Bool},
		{Param: "top_level", Clause: "(c.parent_id IS NULL) = %s", Parse: listing.Bool},
	},
	Sorts: map[string]string{
		"created_at":    "c.created_at",
		"likes_count":   "c.likes_count",
		"replies_count": "c.replies_count",
		"status":        "c.status",
	},
	DefaultSort:      "created_at",
	DefaultDirection: "desc",
	PerPage:          15,
	Key:              "c.id",
}

// commentColumns ends with the depth, computed by walking the parent chain.
const commentColumns = `c.id, c.post_id, c.user_id, c.parent_id, c.guest_name, c.guest_email,
	c.guest_website, c.content, c.status, c.approved_at, c.approved_by, c.likes_count,
	c.replies_count, c.is_featured, c.metadata, c.ip_address, c.user_agent,
	c.created_at, c.updated_at,
	(WITH RECURSIVE chain(pid, depth) AS (
		SELECT c.parent_id, 0
		UNION ALL
		SELECT x.parent_id, chain.depth + 1 FROM comments x JOIN chain ON x.id = chain.pid
	) SELECT MAX(depth) FROM chain)`

func scanComment(row scanner) (*models.Comment, error) {
	var c models.Comment
	var meta []byte
	err := row.Scan(
		&c.ID, &c.PostID, &c.UserID, &c.ParentID, &c.GuestName, &c.GuestEmail,
		&c.GuestWebsite, &c.Content, &c.Status, &c.ApprovedAt, &c.ApprovedBy, &c.LikesCount,
		&c.RepliesCount, &c.IsFeatured, &meta, &c.IPAddress, &c.UserAgent,
		&c.CreatedAt, &c.UpdatedAt, &c.Depth,
	)
	if err != nil {
		return nil, err
	}
	c.Metadata = meta
	return &c, nil
}

// List returns one page of comments.
func (s *CommentStore) List(ctx context.Context, p listing.Params) (listing.Page[models.Comment], error) {
	return list(ctx, s.db, "comments c", commentColumns, CommentListing.Build(p), scanComment)
}

// FindByID retrieves a comment with its computed depth. Returns nil if not found.
func (s *CommentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	c, err := scanComment(s.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments c WHERE c.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Replies returns the direct replies of a comment, oldest first.
func (s *CommentStore) Replies(ctx context.Context, parentID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments c WHERE c.parent_id = $1 ORDER BY c.created_at, c.id`, parentID)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	defer rows.Close()

	var out []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reply: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Create inserts a comment. A comment created as approved is counted and
// stamped just like an approval. Replies must belong to the same post as
// their parent.
func (s *CommentStore) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	if c.Status == "" {
		c.Status = moderation.Pending
	}
	meta := string(c.Metadata)
	if meta == "" {
		meta = "{}"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if c.ParentID != nil {
		var parentPost uuid.UUID
		err := tx.QueryRowContext(ctx,
			`SELECT post_id FROM comments WHERE id = $1`, *c.ParentID).Scan(&parentPost)
		if err == sql.ErrNoRows || (err == nil && parentPost != c.PostID) {
			return nil, ErrInvalidParent
		}
		if err != nil {
			return nil, fmt.Errorf("check parent comment: %w", err)
		}
	}

	effect := moderation.Transition(moderation.Pending, c.Status)
	var approvedBy *uuid.UUID
	if effect.StampApproval {
		approvedBy = c.ApprovedBy
	}

	var id uuid.UUID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO comments (post_id, user_id, parent_id, guest_name, guest_email, guest_website,
			content, status, approved_at, approved_by, is_featured, metadata, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			CASE WHEN $9::boolean THEN NOW() END, $10, $11, $12::jsonb, $13, $14)
		RETURNING id
	`, c.PostID, c.UserID, c.ParentID, c.GuestName, c.GuestEmail, c.GuestWebsite,
		c.Content, c.Status, effect.StampApproval, approvedBy, c.IsFeatured, meta,
		c.IPAddress, c.UserAgent,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", mapError(err))
	}

	if err := applyCounters(ctx, tx, c.PostID, c.ParentID, effect.Counters(c.ParentID != nil)); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit comment: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Update edits the text fields of a comment. Status is only changed
// through Moderate.
func (s *CommentStore) Update(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	meta := string(c.Metadata)
	if meta == "" {
		meta = "{}"
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE comments SET
			content = $1, guest_name = $2, guest_email = $3, guest_website = $4,
			metadata = $5::jsonb, updated_at = NOW()
		WHERE id = $6
	`, c.Content, c.GuestName, c.GuestEmail, c.GuestWebsite, meta, c.ID)
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	if err := affected(res); err != nil {
		return nil, err
	}
	return s.FindByID(ctx, c.ID)
}

// Moderate moves a comment to status to on behalf of actor (nil for
// system actions) and applies the counter effect of the transition.
func (s *CommentStore) Moderate(ctx context.Context, id uuid.UUID, to moderation.Status,
	actor *uuid.UUID) (*models.Comment, moderation.Effect, error) {

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, moderation.Effect{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	effect, err := moderateTx(ctx, tx, id, to, actor)
	if err != nil {
		return nil, moderation.Effect{}, err
	}
	if err := tx.Commit(); err != nil {
		return nil, moderation.Effect{}, fmt.Errorf("commit moderation: %w", err)
	}

	c, err := s.FindByID(ctx, id)
	return c, effect, err
}

// moderateTx performs one transition inside tx.
func moderateTx(ctx context.Context, tx *sql.Tx, id uuid.UUID, to moderation.Status,
	actor *uuid.UUID) (moderation.Effect, error) {

	var from moderation.Status
	var postID uuid.UUID
	var parentID *uuid.UUID
	err := tx.QueryRowContext(ctx,
		`SELECT status, post_id, parent_id FROM comments WHERE id = $1 FOR UPDATE`, id,
	).Scan(&from, &postID, &parentID)
	if err == sql.ErrNoRows {
		return moderation.Effect{}, ErrNotFound
	}
	if err != nil {
		return moderation.Effect{}, fmt.Errorf("lock comment: %w", err)
	}

	effect := moderation.Transition(from, to)
	switch {
	case effect.StampApproval:
		_, err = tx.ExecContext(ctx, `
			UPDATE comments SET status = $1, approved_at = NOW(), approved_by = $2, updated_at = NOW()
			WHERE id = $3`, to, actor, id)
	case effect.ClearApproval:
		_, err = tx.ExecContext(ctx, `
			UPDATE comments SET status = $1, approved_at = NULL, approved_by = NULL, updated_at = NOW()
			WHERE id = $2`, to, id)
	}
	if err != nil {
		return moderation.Effect{}, fmt.Errorf("update comment status: %w", err)
	}

	if err := applyCounters(ctx, tx, postID, parentID, effect.Counters(parentID != nil)); err != nil {
		return moderation.Effect{}, err
	}
	return effect, nil
}

// applyCounters adjusts the post and parent counters, never below zero.
func applyCounters(ctx context.Context, tx *sql.Tx, postID uuid.UUID, parentID *uuid.UUID,
	c moderation.Counters) error {

	if c.Post != 0 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE posts SET comments_count = GREATEST(comments_count + $1, 0) WHERE id = $2`,
			c.Post, postID); err != nil {
			return fmt.Errorf("adjust post comments_count: %w", err)
		}
	}
	if c.Parent != 0 && parentID != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE comments SET replies_count = GREATEST(replies_count + $1, 0) WHERE id = $2`,
			c.Parent, *parentID); err != nil {
			return fmt.Errorf("adjust parent replies_count: %w", err)
		}
	}
	return nil
}

// Like increments the like counter and returns the new value.
func (s *CommentStore) Like(ctx context.Context, id uuid.UUID) (int, error) {
	var likes int
	err := s.db.QueryRowContext(ctx,
		`UPDATE comments SET likes_count = likes_count + 1 WHERE id = $1 RETURNING likes_count`, id,
	).Scan(&likes)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("like comment: %w", err)
	}
	return likes, nil
}

// ToggleFeatured flips the featured flag and returns the new value.
func (s *CommentStore) ToggleFeatured(ctx context.Context, id uuid.UUID) (bool, error) {
	var featured bool
	err := s.db.QueryRowContext(ctx,
		`UPDATE comments SET is_featured = NOT is_featured, updated_at = NOW() WHERE id = $1 RETURNING is_featured`, id,
	).Scan(&featured)
	if err == sql.ErrNoRows {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("toggle featured: %w", err)
	}
	return featured, nil
}

// Delete removes a comment and, through the foreign key cascade, all of its
// replies. Counters are adjusted for the deleted comment only; replies
// removed with it are not counted individually. The deleted row is returned.
func (s *CommentStore) Delete(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var locked uuid.UUID
	err = tx.QueryRowContext(ctx, `SELECT id FROM comments WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock comment: %w", err)
	}

	c, err := scanComment(tx.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments c WHERE c.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("load comment: %w", err)
	}

	delta := moderation.Removal(c.Status)
	counters := moderation.Effect{CounterDelta: delta}.Counters(c.IsReply())
	if err := applyCounters(ctx, tx, c.PostID, c.ParentID, counters); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete comment: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete: %w", err)
	}
	return c, nil
}

// BulkResult summarizes a bulk moderation request.
type BulkResult struct {
	Action   moderation.Action `json:"action"`
	Affected int               `json:"affected"`
	// Effects holds the transition of every comment for status actions.
	Effects map[uuid.UUID]moderation.Effect `json:"-"`
}

// Bulk applies action to every id in one transaction. If any id is
// missing nothing is changed and ErrNotFound is returned.
//
// Status actions go through the same transition as the single-comment
// path, so their counter effects accumulate. Delete is a plain multi-row
// delete that leaves counters untouched.
func (s *CommentStore) Bulk(ctx context.Context, ids []uuid.UUID, action moderation.Action,
	actor *uuid.UUID) (*BulkResult, error) {

	ids = uniqueIDs(ids)
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var found int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE id = ANY($1::uuid[])`, raw,
	).Scan(&found); err != nil {
		return nil, fmt.Errorf("count bulk comments: %w", err)
	}
	if found != len(ids) {
		return nil, fmt.Errorf("bulk %s: %d of %d comments: %w", action, len(ids)-found, len(ids), ErrNotFound)
	}

	result := &BulkResult{Action: action}
	if action == moderation.ActionDelete {
		res, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = ANY($1::uuid[])`, raw)
		if err != nil {
			return nil, fmt.Errorf("bulk delete comments: %w", err)
		}
		n, _ := res.RowsAffected()
		result.Affected = int(n)
	} else {
		to, ok := action.Target()
		if !ok {
			return nil, fmt.Errorf("bulk: %w: %q", moderation.ErrUnknownAction, action)
		}
		result.Effects = make(map[uuid.UUID]moderation.Effect, len(ids))
		for _, id := range ids {
			effect, err := moderateTx(ctx, tx, id, to, actor)
			if err != nil {
				return nil, fmt.Errorf("bulk %s %s: %w", action, id, err)
			}
			result.Effects[id] = effect
		}
		result.Affected = len(ids)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit bulk: %w", err)
	}
	return result, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// CountByStatus returns the number of comments in each status.
func (s *CommentStore) CountByStatus(ctx context.Context) (map[moderation.Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM comments GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	defer rows.Close()

	counts := make(map[moderation.Status]int, len(moderation.Statuses))
	for _, st := range moderation.Statuses {
		counts[st] = 0
	}
	for rows.Next() {
		var st moderation.Status
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, fmt.Errorf("scan comment count: %w", err)
		}
		counts[st] = n
	}
	return counts, rows.Err()
}
