package realtime

import (
	"testing"

	"github.com/pulsewire/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

// stubConn is a no-op connection for registry tests
type stubConn struct {
	name string
}

func (s *stubConn) Send(payload *models.NotificationPayload) error {
	return nil
}

func TestRegistryTracksMultipleConnectionsPerUser(t *testing.T) {
	registry := NewRegistry()
	c1 := &stubConn{name: "c1"}
	c2 := &stubConn{name: "c2"}

	registry.AddConnection(1, c1)
	registry.AddConnection(1, c2)

	assert.True(t, registry.IsOnline(1))
	assert.Equal(t, 2, registry.ConnectionCount(1))
	assert.Equal(t, 2, registry.TotalConnections())

	registry.RemoveConnection(c1)
	assert.True(t, registry.IsOnline(1))
	assert.Equal(t, 1, registry.ConnectionCount(1))

	registry.RemoveConnection(c2)
	assert.False(t, registry.IsOnline(1))
	assert.Equal(t, 0, registry.ConnectionCount(1))
	assert.Equal(t, 0, registry.TotalConnections())
	assert.NotContains(t, registry.OnlineUsers(), uint(1))
}

func TestRegistryRemoveUnknownConnectionIsNoOp(t *testing.T) {
	registry := NewRegistry()
	registry.AddConnection(1, &stubConn{name: "known"})

	assert.NotPanics(t, func() {
		registry.RemoveConnection(&stubConn{name: "unknown"})
	})
	assert.Equal(t, 1, registry.TotalConnections())
}

func TestRegistryConnectionsForOfflineUserIsEmpty(t *testing.T) {
	registry := NewRegistry()

	assert.Empty(t, registry.ConnectionsFor(42))
	assert.False(t, registry.IsOnline(42))
}

func TestRegistryConnectionsForPreservesRegistrationOrder(t *testing.T) {
	registry := NewRegistry()
	c1 := &stubConn{name: "first"}
	c2 := &stubConn{name: "second"}
	c3 := &stubConn{name: "third"}

	registry.AddConnection(7, c1)
	registry.AddConnection(7, c2)
	registry.AddConnection(7, c3)

	conns := registry.ConnectionsFor(7)
	assert.Equal(t, []Connection{c1, c2, c3}, conns)

	// Mutating the returned slice must not affect the registry
	conns[0] = c3
	assert.Equal(t, []Connection{c1, c2, c3}, registry.ConnectionsFor(7))
}

func TestRegistryOnlineUsersAcrossUsers(t *testing.T) {
	registry := NewRegistry()
	registry.AddConnection(1, &stubConn{name: "a"})
	registry.AddConnection(2, &stubConn{name: "b"})
	registry.AddConnection(2, &stubConn{name: "c"})

	users := registry.OnlineUsers()
	assert.Len(t, users, 2)
	assert.Contains(t, users, uint(1))
	assert.Contains(t, users, uint(2))
	assert.Equal(t, 3, registry.TotalConnections())
}

func TestRegistryStatsSnapshot(t *testing.T) {
	registry := NewRegistry()
	registry.AddConnection(1, &stubConn{name: "a"})
	registry.AddConnection(2, &stubConn{name: "b"})
	registry.AddConnection(2, &stubConn{name: "c"})

	stats := registry.Stats()
	assert.Equal(t, 3, stats.TotalConnections)
	assert.Equal(t, 2, stats.OnlineUsers)
	assert.Equal(t, 1, stats.ConnectionCounts[1])
	assert.Equal(t, 2, stats.ConnectionCounts[2])
}
