package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSendQueuesPayloadForWritePump(t *testing.T) {
	client := newWSConnection(nil)

	assert.NoError(t, client.Send(testPayload(1)))
	assert.Len(t, client.send, 1)
}

func TestSendAfterDisconnectIsDropped(t *testing.T) {
	registry := NewRegistry()
	client := newWSConnection(nil)
	registry.AddConnection(1, client)

	// A delivery pass snapshots the connection list before pushing, so the
	// disconnect sequence can complete in between
	conns := registry.ConnectionsFor(1)

	registry.RemoveConnection(client)
	client.closeSend()

	assert.NotPanics(t, func() {
		assert.NoError(t, conns[0].Send(testPayload(1)))
	})
}

func TestCloseSendIsIdempotent(t *testing.T) {
	client := newWSConnection(nil)

	client.closeSend()
	assert.NotPanics(t, func() {
		client.closeSend()
	})
}
