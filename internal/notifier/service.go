package notifier

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/pulsewire/backend/internal/models"
	"github.com/pulsewire/backend/internal/queue"
)

// FollowerSource resolves the follower set of a user. The result contains no
// duplicates and never the user itself.
type FollowerSource interface {
	GetFollowerIDs(userID uint) ([]uint, error)
}

// NotificationStore persists notification records as a single batch,
// assigning ids and timestamps in place.
type NotificationStore interface {
	CreateNotifications(notifications []*models.Notification) error
}

// Deliverer attempts a live push and reports whether anyone received it
type Deliverer interface {
	DeliverToUser(userID uint, payload *models.NotificationPayload) bool
}

// Service translates content-creation events into per-follower notification
// records and hands them to the delivery pipeline.
type Service struct {
	followers FollowerSource
	store     NotificationStore
	queue     queue.Queue
	worker    *DrainWorker
}

// NewService creates a fan-out service with its own drain worker
func NewService(followers FollowerSource, store NotificationStore, q queue.Queue, dispatcher Deliverer) *Service {
	return &Service{
		followers: followers,
		store:     store,
		queue:     q,
		worker:    NewDrainWorker(q, dispatcher),
	}
}

// CreateForContent resolves the author's followers, materializes one record
// per follower, persists the batch and enqueues one delivery entry per
// record. Zero followers is a no-op success. Resolution and persistence
// errors propagate and leave nothing downstream of the failure; enqueue
// errors are per-entry and best-effort.
func (s *Service) CreateForContent(ctx context.Context, authorID, contentID uint, contentType, title string) ([]*models.Notification, error) {
	followerIDs, err := s.followers.GetFollowerIDs(authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve followers of user %d: %w", authorID, err)
	}

	if len(followerIDs) == 0 {
		return nil, nil
	}

	message := fmt.Sprintf("%s - New %s by user %d", title, strings.ToLower(contentType), authorID)
	notifications := make([]*models.Notification, len(followerIDs))
	for i, followerID := range followerIDs {
		notifications[i] = &models.Notification{
			UserID:    followerID,
			ContentID: contentID,
			Type:      strings.ToUpper(contentType),
			Message:   message,
			IsRead:    false,
		}
	}

	if err := s.store.CreateNotifications(notifications); err != nil {
		return nil, fmt.Errorf("failed to store notifications: %w", err)
	}

	// Queueing happens only after a successful batch insert and is not
	// transactionally coupled to it: a failed enqueue leaves the stored
	// record as the catch-up path and the batch continues.
	for _, n := range notifications {
		if err := s.queue.Enqueue(ctx, queue.EntryFromNotification(n)); err != nil {
			log.Printf("Failed to enqueue notification for user %d: %v", n.UserID, err)
		}
	}

	log.Printf("Notifications created for content %d: %d recipient(s)", contentID, len(notifications))
	return notifications, nil
}

// DrainOnce empties the delivery queue, see DrainWorker.DrainOnce
func (s *Service) DrainOnce(ctx context.Context) (int, error) {
	return s.worker.DrainOnce(ctx)
}

// OnContentCreated runs fan-out and then a drain pass. Intended to be
// invoked as a detached background task: content creation must never fail
// because notification delivery failed, so every error ends here in the log.
func (s *Service) OnContentCreated(authorID, contentID uint, contentType, title string) {
	ctx := context.Background()

	if _, err := s.CreateForContent(ctx, authorID, contentID, contentType, title); err != nil {
		log.Printf("Error creating notifications for content %d: %v", contentID, err)
		return
	}

	if _, err := s.worker.DrainOnce(ctx); err != nil {
		log.Printf("Error processing notification queue: %v", err)
	}
}
