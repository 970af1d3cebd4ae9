// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"realtycms/internal/moderation"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	ctxErr error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.ctxErr = ctx.Err()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafka_PublishEncodesEvent(t *testing.T) {
	fw := &fakeWriter{}
	k := &Kafka{w: fw}

	commentID, postID := uuid.New(), uuid.New()
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	k.Publish(context.Background(), Event{
		Type: CommentApproved, CommentID: commentID, PostID: &postID, Status: "approved", At: at,
	})

	if len(fw.msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(fw.msgs))
	}
	msg := fw.msgs[0]
	if string(msg.Key) != commentID.String() {
		t.Errorf("Key = %q", msg.Key)
	}

	var got map[string]any
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]any{
		"type":       "comment.approved",
		"comment_id": commentID.String(),
		"post_id":    postID.String(),
		"status":     "approved",
		"at":         "2026-05-01T10:00:00Z",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
}

func TestKafka_PublishStampsTimeAndOmitsPost(t *testing.T) {
	fw := &fakeWriter{}
	k := &Kafka{w: fw}

	k.Publish(context.Background(), Event{Type: CommentBulk, CommentID: uuid.New(), Status: "deleted"})

	var got map[string]any
	json.Unmarshal(fw.msgs[0].Value, &got)
	if _, ok := got["post_id"]; ok {
		t.Error("post_id present for event without a post")
	}
	if got["at"] == "0001-01-01T00:00:00Z" {
		t.Error("at was not stamped")
	}
}

func TestKafka_PublishSurvivesCancelledRequest(t *testing.T) {
	fw := &fakeWriter{}
	k := &Kafka{w: fw}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	k.Publish(ctx, Event{Type: CommentSpam, CommentID: uuid.New()})

	if fw.ctxErr != nil {
		t.Errorf("write context already done: %v", fw.ctxErr)
	}
	if len(fw.msgs) != 1 {
		t.Errorf("messages = %d", len(fw.msgs))
	}
}

func TestKafka_PublishErrorIsSwallowed(t *testing.T) {
	fw := &fakeWriter{err: errors.New("broker down")}
	k := &Kafka{w: fw}

	// Must not panic or block.
	k.Publish(context.Background(), Event{Type: CommentRejected, CommentID: uuid.New()})
	k.Publish(context.Background())

	if err := k.Close(); err != nil || !fw.closed {
		t.Errorf("Close = %v, closed = %v", err, fw.closed)
	}
}

// TestNewKafka_DoesNotBlockRequests checks the writer hands batches off in
// the background instead of holding the caller for the batch timeout.
func TestNewKafka_DoesNotBlockRequests(t *testing.T) {
	k := NewKafka([]string{"localhost:9092"}, "comment-moderation")
	defer k.Close()

	w, ok := k.w.(*kafka.Writer)
	if !ok {
		t.Fatalf("writer type %T", k.w)
	}
	if !w.Async {
		t.Error("writer must be asynchronous")
	}
	if w.Completion == nil {
		t.Error("delivery errors would go unreported without a Completion callback")
	}
	if w.Topic != "comment-moderation" {
		t.Errorf("Topic = %q", w.Topic)
	}
}

func TestLogDelivery(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	msgs := []kafka.Message{{Key: []byte("a")}, {Key: []byte("b")}}
	logDelivery(msgs, errors.New("leader not available"))
	logDelivery(msgs, nil)

	out := buf.String()
	if !strings.Contains(out, "publish moderation events failed") || !strings.Contains(out, "leader not available") {
		t.Errorf("failure not logged:\n%s", out)
	}
	if !strings.Contains(out, "moderation events published") || !strings.Contains(out, "count=2") {
		t.Errorf("success not logged:\n%s", out)
	}
}

func TestTypeFor(t *testing.T) {
	tests := map[moderation.Action]Type{
		moderation.ActionApprove: CommentApproved,
		moderation.ActionReject:  CommentRejected,
		moderation.ActionSpam:    CommentSpam,
		moderation.ActionDelete:  CommentDeleted,
	}
	for a, want := range tests {
		if got := TypeFor(a); got != want {
			t.Errorf("TypeFor(%q) = %q, want %q", a, got, want)
		}
	}
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	p.Publish(context.Background(), Event{Type: CommentFeatured})
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
