package realtime

import (
	"sync"

	"github.com/pulsewire/backend/internal/models"
)

// Connection is a live client connection capable of receiving a push. The
// websocket transport provides the production implementation; tests use
// in-memory stand-ins.
type Connection interface {
	Send(payload *models.NotificationPayload) error
}

// Registry is the authoritative, process-local record of which users are
// reachable right now and through which connections. A user may hold many
// simultaneous connections (multi-device, multi-tab). The reverse index keeps
// RemoveConnection O(1); disconnects are far more frequent than the number of
// tracked users.
type Registry struct {
	mu        sync.RWMutex
	userConns map[uint][]Connection
	connUser  map[Connection]uint
}

// RegistryStats is a point-in-time snapshot of the registry counters
type RegistryStats struct {
	TotalConnections int          `json:"total_connections"`
	OnlineUsers      int          `json:"online_users"`
	ConnectionCounts map[uint]int `json:"connection_counts"`
}

// NewRegistry creates an empty presence registry
func NewRegistry() *Registry {
	return &Registry{
		userConns: make(map[uint][]Connection),
		connUser:  make(map[Connection]uint),
	}
}

// AddConnection registers a connection under the given user. Callers must not
// register the same connection twice.
func (r *Registry) AddConnection(userID uint, conn Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.connUser[conn] = userID
	r.userConns[userID] = append(r.userConns[userID], conn)
}

// RemoveConnection unregisters a connection from its owning user. When the
// user's last connection goes away the user entry is removed entirely so
// that online-user enumeration stays compact. Unknown connections are a
// no-op, not an error.
func (r *Registry) RemoveConnection(conn Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.connUser[conn]
	if !ok {
		return
	}
	delete(r.connUser, conn)

	conns := r.userConns[userID]
	for i, c := range conns {
		if c == conn {
			conns = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(conns) == 0 {
		delete(r.userConns, userID)
	} else {
		r.userConns[userID] = conns
	}
}

// IsOnline reports whether the user has at least one registered connection
func (r *Registry) IsOnline(userID uint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.userConns[userID]) > 0
}

// ConnectionsFor returns the user's connections in registration order.
// Empty if the user is offline. The returned slice is a copy.
func (r *Registry) ConnectionsFor(userID uint) []Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := r.userConns[userID]
	out := make([]Connection, len(conns))
	copy(out, conns)
	return out
}

// AllConnections returns every registered connection regardless of user
func (r *Registry) AllConnections() []Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Connection, 0, len(r.connUser))
	for conn := range r.connUser {
		out = append(out, conn)
	}
	return out
}

// OnlineUsers returns the ids of all users with at least one connection
func (r *Registry) OnlineUsers() []uint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]uint, 0, len(r.userConns))
	for userID := range r.userConns {
		users = append(users, userID)
	}
	return users
}

// ConnectionCount returns the number of open connections for one user
func (r *Registry) ConnectionCount(userID uint) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.userConns[userID])
}

// TotalConnections returns the number of open connections across all users
func (r *Registry) TotalConnections() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connUser)
}

// Stats returns a snapshot of the registry counters
func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[uint]int, len(r.userConns))
	for userID, conns := range r.userConns {
		counts[userID] = len(conns)
	}
	return RegistryStats{
		TotalConnections: len(r.connUser),
		OnlineUsers:      len(r.userConns),
		ConnectionCounts: counts,
	}
}
