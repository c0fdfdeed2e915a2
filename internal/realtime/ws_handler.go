package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pulsewire/backend/internal/middleware"
	"github.com/pulsewire/backend/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // tighten for production deployments
	},
}

// wsConnection wraps a websocket with a buffered outbound channel so that a
// slow reader never blocks a delivery lookup. The mutex orders Send against
// closeSend: delivery snapshots the registry before pushing, so a Send can
// arrive after the connection was unregistered.
type wsConnection struct {
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool
	send   chan []byte
}

func newWSConnection(conn *websocket.Conn) *wsConnection {
	return &wsConnection{
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Send queues the payload for the write pump. Non-blocking: when the buffer
// is full or the connection is already closed the message is dropped, the
// persisted record remains the system of record for catch-up.
func (c *wsConnection) Send(payload *models.NotificationPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	select {
	case c.send <- data:
	default:
	}
	return nil
}

// closeSend stops the write pump. Idempotent; once it returns no Send will
// touch the channel again.
func (c *wsConnection) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *wsConnection) writePump() {
	defer func() {
		c.conn.WriteMessage(websocket.CloseMessage, []byte{})
		c.conn.Close()
	}()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// WSHandler handles the websocket connect/disconnect lifecycle
type WSHandler struct {
	registry *Registry
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(registry *Registry) *WSHandler {
	return &WSHandler{registry: registry}
}

// RegisterRealtimeRoutes registers the websocket and stats routes
func (h *WSHandler) RegisterRealtimeRoutes(e *echo.Echo) {
	e.GET("/ws", h.HandleConnection)
	e.GET("/ws/stats", h.GetStats)
}

// HandleConnection authenticates the client, upgrades the connection and
// registers it in the presence registry until the client disconnects.
func (h *WSHandler) HandleConnection(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
	}
	claims, err := middleware.ParseToken(token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}
	userID := claims.UserID

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Println("WebSocket upgrade failed:", err)
		return err
	}

	client := newWSConnection(conn)
	h.registry.AddConnection(userID, client)
	go client.writePump()
	log.Printf("User %d connected, %d connection(s)", userID, h.registry.ConnectionCount(userID))

	// Block until the client goes away; inbound frames are ignored.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.registry.RemoveConnection(client)
	client.closeSend()
	log.Printf("User %d disconnected", userID)
	return nil
}

// GetStats returns a snapshot of the presence registry counters
func (h *WSHandler) GetStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.registry.Stats())
}
