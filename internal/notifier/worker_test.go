package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pulsewire/backend/internal/models"
	"github.com/pulsewire/backend/internal/queue"
	"github.com/stretchr/testify/assert"
)

// memoryQueue is an in-memory Queue double shared by the notifier tests
type memoryQueue struct {
	mu              sync.Mutex
	entries         []*queue.Entry
	pops            int
	popErr          error
	enqueueErr      error
	failNextEnqueue bool
}

func (q *memoryQueue) Enqueue(ctx context.Context, entry *queue.Entry) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	if q.failNextEnqueue {
		q.failNextEnqueue = false
		return errors.New("enqueue failed")
	}
	entry.EnqueuedAt = time.Now()
	q.entries = append(q.entries, entry)
	return nil
}

func (q *memoryQueue) Pop(ctx context.Context) (*queue.Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.popErr != nil {
		return nil, q.popErr
	}
	if len(q.entries) == 0 {
		return nil, nil
	}
	q.pops++
	entry := q.entries[0]
	q.entries = q.entries[1:]
	return entry, nil
}

func (q *memoryQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// fakeDeliverer reports online status per user and records delivered payloads
type fakeDeliverer struct {
	mu        sync.Mutex
	online    map[uint]bool
	delivered []*models.NotificationPayload
}

func (d *fakeDeliverer) DeliverToUser(userID uint, payload *models.NotificationPayload) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.online[userID] {
		return false
	}
	d.delivered = append(d.delivered, payload)
	return true
}

func (d *fakeDeliverer) deliveredPayloads() []*models.NotificationPayload {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.delivered
}

func enqueueEntries(t *testing.T, q *memoryQueue, userIDs ...uint) {
	t.Helper()
	for i, userID := range userIDs {
		err := q.Enqueue(context.Background(), &queue.Entry{
			UserID:    userID,
			ContentID: uint(i + 1),
			Type:      "BLOG",
			Message:   "hi",
		})
		assert.NoError(t, err)
	}
}

func TestDrainOnceEmptiesQueue(t *testing.T) {
	q := &memoryQueue{}
	deliverer := &fakeDeliverer{online: map[uint]bool{1: true, 2: true, 3: true}}
	worker := NewDrainWorker(q, deliverer)

	enqueueEntries(t, q, 1, 2, 3, 1, 2)

	processed, err := worker.DrainOnce(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 5, processed)
	assert.Equal(t, 5, q.pops)
	assert.Equal(t, 0, q.size())
	assert.Len(t, deliverer.deliveredPayloads(), 5)
}

func TestDrainOnceOnEmptyQueueReturnsImmediately(t *testing.T) {
	q := &memoryQueue{}
	worker := NewDrainWorker(q, &fakeDeliverer{online: map[uint]bool{}})

	processed, err := worker.DrainOnce(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, processed)
	assert.Equal(t, 0, q.pops)
}

func TestDrainOnceDiscardsEntriesForOfflineUsers(t *testing.T) {
	q := &memoryQueue{}
	deliverer := &fakeDeliverer{online: map[uint]bool{}}
	worker := NewDrainWorker(q, deliverer)

	enqueueEntries(t, q, 1, 2)

	processed, err := worker.DrainOnce(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, processed)
	// No redelivery: misses are consumed, never re-enqueued
	assert.Equal(t, 0, q.size())
	assert.Empty(t, deliverer.deliveredPayloads())

	processed, err = worker.DrainOnce(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, processed)
}

func TestDrainOncePreservesQueueOrder(t *testing.T) {
	q := &memoryQueue{}
	deliverer := &fakeDeliverer{online: map[uint]bool{7: true}}
	worker := NewDrainWorker(q, deliverer)

	enqueueEntries(t, q, 7, 7, 7)

	_, err := worker.DrainOnce(context.Background())
	assert.NoError(t, err)

	payloads := deliverer.deliveredPayloads()
	assert.Len(t, payloads, 3)
	assert.Equal(t, uint(1), payloads[0].ContentID)
	assert.Equal(t, uint(2), payloads[1].ContentID)
	assert.Equal(t, uint(3), payloads[2].ContentID)
}

func TestDrainOnceStopsOnPopError(t *testing.T) {
	q := &memoryQueue{popErr: errors.New("queue unavailable")}
	worker := NewDrainWorker(q, &fakeDeliverer{online: map[uint]bool{}})

	processed, err := worker.DrainOnce(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 0, processed)
}

func TestDrainOnceDeliversIsReadFalse(t *testing.T) {
	q := &memoryQueue{}
	deliverer := &fakeDeliverer{online: map[uint]bool{1: true}}
	worker := NewDrainWorker(q, deliverer)

	enqueueEntries(t, q, 1)

	_, err := worker.DrainOnce(context.Background())
	assert.NoError(t, err)

	payloads := deliverer.deliveredPayloads()
	assert.Len(t, payloads, 1)
	assert.False(t, payloads[0].IsRead)
	assert.Equal(t, "BLOG", payloads[0].Type)
}
