// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package events publishes comment moderation events to Kafka so that
// downstream consumers (notifications, search indexing, analytics) can
// follow the moderation queue. Publishing is best-effort: a failure is
// logged and never fails the request that caused it.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"realtycms/internal/moderation"
)

// Type names a moderation event.
type Type string

const (
	CommentApproved Type = "comment.approved"
	CommentRejected Type = "comment.rejected"
	CommentSpam     Type = "comment.spam"
	CommentDeleted  Type = "comment.deleted"
	CommentFeatured Type = "comment.featured"
	CommentBulk     Type = "comment.bulk"
)

// TypeFor maps a moderation action to its event type.
func TypeFor(a moderation.Action) Type {
	switch a {
	case moderation.ActionApprove:
		return CommentApproved
	case moderation.ActionReject:
		return CommentRejected
	case moderation.ActionSpam:
		return CommentSpam
	case moderation.ActionDelete:
		return CommentDeleted
	}
	return Type("comment." + string(a))
}

// Event is the JSON message written to the topic.
type Event struct {
	Type      Type       `json:"type"`
	CommentID uuid.UUID  `json:"comment_id"`
	PostID    *uuid.UUID `json:"post_id,omitempty"`
	Status    string     `json:"status"`
	At        time.Time  `json:"at"`
}

// Publisher sends moderation events.
type Publisher interface {
	Publish(ctx context.Context, events ...Event)
	Close() error
}

// Nop discards every event. It is used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, ...Event) {}
func (Nop) Close() error                      { return nil }

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes events to a single topic, keyed by comment ID so that
// all events for one comment land on the same partition in order.
type Kafka struct {
	w messageWriter
}

// NewKafka creates a publisher writing to topic on brokers. The writer is
// asynchronous: Publish only enqueues, and delivery failures surface
// through logDelivery once the batch is flushed.
func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		Async:                  true,
		Completion:             logDelivery,
		AllowAutoTopicCreation: true,
	}}
}

// logDelivery reports the outcome of an asynchronous batch.
func logDelivery(msgs []kafka.Message, err error) {
	if err != nil {
		slog.Warn("publish moderation events failed", "count", len(msgs), "error", err)
		return
	}
	slog.Debug("moderation events published", "count", len(msgs))
}

// Publish hands events to the writer. The request context only contributes
// its values; a cancelled request does not drop events already accepted.
func (k *Kafka) Publish(ctx context.Context, events ...Event) {
	if len(events) == 0 {
		return
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		if e.At.IsZero() {
			e.At = time.Now().UTC()
		}
		body, err := json.Marshal(e)
		if err != nil {
			slog.Warn("marshal moderation event", "type", e.Type, "comment_id", e.CommentID, "error", err)
			continue
		}
		msgs = append(msgs, kafka.Message{Key: []byte(e.CommentID.String()), Value: body})
	}

	if err := k.w.WriteMessages(context.WithoutCancel(ctx), msgs...); err != nil {
		slog.Warn("enqueue moderation events failed", "count", len(msgs), "error", err)
	}
}

// Close flushes pending writes and releases the connection.
func (k *Kafka) Close() error {
	return k.w.Close()
}
