package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Baaaki/restaurant-directory/internal/access"
	"github.com/Baaaki/restaurant-directory/internal/broker"
	"github.com/Baaaki/restaurant-directory/internal/metrics"
	"github.com/Baaaki/restaurant-directory/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	maxSessionLifetime = 15 * time.Minute
	writeWait          = 10 * time.Second // Time allowed to write a message to the peer
	pongWait           = 60 * time.Second
	pingPeriod         = (pongWait * 9) / 10 // 54 seconds
	maxMessageSize     = 4 * 1024            // clients only send control frames
)

// FeedMessage is what feed clients receive: a restaurant change, or a
// notice that the server is ending the session.
type FeedMessage struct {
	Type         string `json:"type"`
	RestaurantID string `json:"restaurant_id,omitempty"`
	OwnerID      string `json:"owner_id,omitempty"`
	Timestamp    string `json:"timestamp,omitempty"`
	Error        string `json:"error,omitempty"`
}

// EventSource is where the feed gets restaurant changes from.
type EventSource interface {
	Subscribe(ctx context.Context) (<-chan broker.RestaurantEvent, error)
}

// RestaurantFeedHandler streams restaurant change events to authenticated
// websocket clients. Clients are read-only listeners.
type RestaurantFeedHandler struct {
	events   EventSource
	upgrader websocket.Upgrader
	lifetime time.Duration
	clients  map[*websocket.Conn]*feedClient
	mu       sync.RWMutex
}

type feedClient struct {
	conn        *websocket.Conn
	userID      uuid.UUID
	username    string
	connectedAt time.Time

	// gorilla connections allow one concurrent writer
	writeMu sync.Mutex
}

// NewRestaurantFeedHandler builds the feed. An empty allowedOrigins list
// accepts any origin.
func NewRestaurantFeedHandler(events EventSource, allowedOrigins []string) *RestaurantFeedHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &RestaurantFeedHandler{
		events:   events,
		lifetime: maxSessionLifetime,
		clients:  make(map[*websocket.Conn]*feedClient),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(origins) == 0 {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// Start subscribes to restaurant events and fans them out to every
// connected client until ctx is cancelled. The subscription is live when
// Start returns.
func (h *RestaurantFeedHandler) Start(ctx context.Context) error {
	events, err := h.events.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		logger.Log.Info("Restaurant feed started")
		for event := range events {
			h.broadcast(FeedMessage{
				Type:         string(event.Type),
				RestaurantID: event.RestaurantID.String(),
				OwnerID:      event.OwnerID.String(),
				Timestamp:    event.Timestamp.UTC().Format(time.RFC3339),
			})
		}
		logger.Log.Info("Restaurant feed stopped")
	}()
	return nil
}

// HandleWebSocket upgrades an authenticated request and keeps the
// connection open until the client leaves or the session expires.
func (h *RestaurantFeedHandler) HandleWebSocket(c *gin.Context) {
	claims, err := access.RequireAuthenticated(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Warn("Failed to upgrade connection", zap.Error(err))
		return
	}

	client := &feedClient{
		conn:        conn,
		userID:      claims.UserID,
		username:    claims.Username,
		connectedAt: time.Now(),
	}

	h.mu.Lock()
	h.clients[conn] = client
	total := len(h.clients)
	h.mu.Unlock()
	metrics.FeedConnections.Inc()

	logger.Log.Info("Feed client connected",
		zap.String("user_id", client.userID.String()),
		zap.String("username", client.username),
		zap.Int("total", total),
	)

	defer h.removeClient(conn)

	h.handleClient(client)
}

// ClientCount reports the number of connected feed clients.
func (h *RestaurantFeedHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// handleClient drains control frames until the peer goes away; the session
// timer closes the connection from our side.
func (h *RestaurantFeedHandler) handleClient(client *feedClient) {
	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)

	go h.keepAlive(client, done)

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Log.Debug("Feed read error", zap.Error(err))
			}
			return
		}
	}
}

// keepAlive pings the client and ends the session once its lifetime is up.
func (h *RestaurantFeedHandler) keepAlive(client *feedClient, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	sessionTimer := time.NewTimer(h.lifetime)
	defer sessionTimer.Stop()

	for {
		select {
		case <-ticker.C:
			if err := client.write(websocket.PingMessage, nil); err != nil {
				logger.Log.Debug("Ping failed", zap.String("user_id", client.userID.String()), zap.Error(err))
				return
			}

		case <-sessionTimer.C:
			h.closeClientGracefully(client, "session expired")
			return

		case <-done:
			return
		}
	}
}

// broadcast writes msg to a snapshot of the clients, one goroutine each, so
// a slow peer neither holds the client lock nor delays the others. It
// returns once every write has finished, which keeps events in order per
// client.
func (h *RestaurantFeedHandler) broadcast(msg FeedMessage) {
	var wg sync.WaitGroup
	for _, client := range h.snapshot() {
		wg.Add(1)
		go func(client *feedClient) {
			defer wg.Done()
			if err := client.writeJSON(msg); err != nil {
				// handleClient notices the broken connection and removes it
				logger.Log.Debug("Failed to send feed event", zap.Error(err))
			}
		}(client)
	}
	wg.Wait()
}

func (h *RestaurantFeedHandler) snapshot() []*feedClient {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := make([]*feedClient, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	return clients
}

func (h *RestaurantFeedHandler) closeClientGracefully(client *feedClient, reason string) {
	if err := client.writeJSON(FeedMessage{Type: "session_expired", Error: reason}); err != nil {
		logger.Log.Debug("Failed to send session_expired message", zap.Error(err))
	}

	// The peer answers the close frame, which ends the read loop
	if err := client.write(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason),
	); err != nil {
		logger.Log.Debug("Failed to send close frame", zap.Error(err))
		_ = client.conn.Close()
	}
}

func (h *RestaurantFeedHandler) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	client, exists := h.clients[conn]
	delete(h.clients, conn)
	remaining := len(h.clients)
	h.mu.Unlock()

	if !exists {
		return
	}
	_ = conn.Close()
	metrics.FeedConnections.Dec()

	logger.Log.Info("Feed client disconnected",
		zap.String("user_id", client.userID.String()),
		zap.Duration("session", time.Since(client.connectedAt).Round(time.Second)),
		zap.Int("remaining", remaining),
	)
}

func (c *feedClient) write(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

func (c *feedClient) writeJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}
