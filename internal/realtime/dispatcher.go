package realtime

import (
	"log"

	"github.com/pulsewire/backend/internal/models"
)

// Dispatcher routes payloads to live connections via the presence registry
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a dispatcher backed by the given registry
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// DeliverToUser pushes the payload down every open connection of the user.
// Returns false when the user has no connections; offline is an expected
// outcome, not an error. Pushes are best-effort: an individual connection
// failure is the transport's concern and is not surfaced to the caller.
func (d *Dispatcher) DeliverToUser(userID uint, payload *models.NotificationPayload) bool {
	conns := d.registry.ConnectionsFor(userID)
	if len(conns) == 0 {
		return false
	}

	for _, conn := range conns {
		if err := conn.Send(payload); err != nil {
			log.Printf("Failed to push to a connection of user %d: %v", userID, err)
		}
	}
	return true
}

// DeliverToUsers applies DeliverToUser sequentially and returns how many
// recipients were reached. The count is informational only.
func (d *Dispatcher) DeliverToUsers(userIDs []uint, payload *models.NotificationPayload) int {
	sent := 0
	for _, userID := range userIDs {
		if d.DeliverToUser(userID, payload) {
			sent++
		}
	}
	return sent
}

// Broadcast pushes the payload to every known connection regardless of user.
// Used for system-wide announcements, not for notification fan-out.
func (d *Dispatcher) Broadcast(payload *models.NotificationPayload) {
	for _, conn := range d.registry.AllConnections() {
		if err := conn.Send(payload); err != nil {
			log.Printf("Failed to push broadcast to a connection: %v", err)
		}
	}
}
