package queue

import (
	"context"
	"time"

	"github.com/pulsewire/backend/internal/models"
)

// Entry is the serialized form of a notification record while it sits on the
// durable work queue. It carries no database id: the persisted row is the
// system of record, the entry only drives one delivery attempt. An entry is
// consumed exactly once; it is never re-enqueued after a pop, whatever the
// delivery outcome.
type Entry struct {
	UserID     uint      `bson:"user_id" json:"user_id"`
	ContentID  uint      `bson:"content_id" json:"content_id"`
	Type       string    `bson:"type" json:"type"`
	Message    string    `bson:"message" json:"message"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	EnqueuedAt time.Time `bson:"enqueued_at" json:"-"`
}

// EntryFromNotification builds a queue entry from a persisted record
func EntryFromNotification(n *models.Notification) *Entry {
	return &Entry{
		UserID:    n.UserID,
		ContentID: n.ContentID,
		Type:      n.Type,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	}
}

// Payload converts the entry into the shape pushed down a live connection
func (e *Entry) Payload() *models.NotificationPayload {
	return &models.NotificationPayload{
		UserID:    e.UserID,
		ContentID: e.ContentID,
		Type:      e.Type,
		Message:   e.Message,
		IsRead:    false,
		CreatedAt: e.CreatedAt,
	}
}

// Queue is the durable hand-off buffer between record creation and delivery.
// Enqueue returns once the entry is durably queued. Pop removes and returns
// the oldest entry; it returns (nil, nil) when the queue is empty. Pop must
// be atomic: no two callers may receive the same entry.
type Queue interface {
	Enqueue(ctx context.Context, entry *Entry) error
	Pop(ctx context.Context) (*Entry, error)
}
