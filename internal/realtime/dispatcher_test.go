package realtime

import (
	"errors"
	"sync"
	"testing"

	"github.com/pulsewire/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

// recordingConn captures every payload pushed to it
type recordingConn struct {
	mu       sync.Mutex
	payloads []*models.NotificationPayload
	sendErr  error
}

func (r *recordingConn) Send(payload *models.NotificationPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sendErr != nil {
		return r.sendErr
	}
	r.payloads = append(r.payloads, payload)
	return nil
}

func (r *recordingConn) received() []*models.NotificationPayload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.payloads
}

func testPayload(userID uint) *models.NotificationPayload {
	return &models.NotificationPayload{
		UserID:    userID,
		ContentID: 99,
		Type:      "BLOG",
		Message:   "Hello - New blog by user 7",
	}
}

func TestDeliverToUserOfflineReturnsFalse(t *testing.T) {
	dispatcher := NewDispatcher(NewRegistry())

	delivered := dispatcher.DeliverToUser(1, testPayload(1))
	assert.False(t, delivered)
}

func TestDeliverToUserPushesToEveryConnection(t *testing.T) {
	registry := NewRegistry()
	c1 := &recordingConn{}
	c2 := &recordingConn{}
	registry.AddConnection(1, c1)
	registry.AddConnection(1, c2)

	dispatcher := NewDispatcher(registry)
	payload := testPayload(1)

	delivered := dispatcher.DeliverToUser(1, payload)
	assert.True(t, delivered)
	assert.Equal(t, []*models.NotificationPayload{payload}, c1.received())
	assert.Equal(t, []*models.NotificationPayload{payload}, c2.received())
}

func TestDeliverToUserIgnoresConnectionPushFailure(t *testing.T) {
	registry := NewRegistry()
	broken := &recordingConn{sendErr: errors.New("write failed")}
	healthy := &recordingConn{}
	registry.AddConnection(1, broken)
	registry.AddConnection(1, healthy)

	dispatcher := NewDispatcher(registry)

	// Individual push failures are the transport's concern
	delivered := dispatcher.DeliverToUser(1, testPayload(1))
	assert.True(t, delivered)
	assert.Len(t, healthy.received(), 1)
}

func TestDeliverToUsersCountsReachedRecipients(t *testing.T) {
	registry := NewRegistry()
	online := &recordingConn{}
	registry.AddConnection(1, online)

	dispatcher := NewDispatcher(registry)

	reached := dispatcher.DeliverToUsers([]uint{1, 2, 3}, testPayload(0))
	assert.Equal(t, 1, reached)
	assert.Len(t, online.received(), 1)
}

func TestBroadcastReachesEveryConnection(t *testing.T) {
	registry := NewRegistry()
	c1 := &recordingConn{}
	c2 := &recordingConn{}
	c3 := &recordingConn{}
	registry.AddConnection(1, c1)
	registry.AddConnection(1, c2)
	registry.AddConnection(2, c3)

	dispatcher := NewDispatcher(registry)
	dispatcher.Broadcast(testPayload(0))

	assert.Len(t, c1.received(), 1)
	assert.Len(t, c2.received(), 1)
	assert.Len(t, c3.received(), 1)
}
