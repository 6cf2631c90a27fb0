package notification

import (
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 32
)

// Event is pushed to connected clients as a JSON text frame.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

const (
	EventNotification = "notification"
	EventUnreadCount  = "unread_count"
)

type connection struct {
	userID int64
	conn   *websocket.Conn
	send   chan []byte
}

// Hub tracks live websocket connections per user. A user may have several
// tabs open; every connection receives the user's events.
type Hub struct {
	mu          sync.RWMutex
	connections map[int64]map[*connection]struct{}
	upgrader    websocket.Upgrader
	log         *zap.Logger
}

// NewHub accepts upgrades from allowedOrigins, or from any origin when the
// list is empty.
func NewHub(allowedOrigins []string, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		connections: make(map[int64]map[*connection]struct{}),
		log:         log.Named("ws"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, origin)
		},
	}
	return h
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.connections[c.userID]
	if !ok {
		set = make(map[*connection]struct{})
		h.connections[c.userID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.connections[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; ok {
		delete(set, c)
		close(c.send)
	}
	if len(set) == 0 {
		delete(h.connections, c.userID)
	}
}

// Connected reports how many live connections userID has.
func (h *Hub) Connected(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[userID])
}

// Push delivers an event to every connection of userID. Slow clients whose
// buffer is full miss the event.
func (h *Hub) Push(userID int64, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("marshal ws event", zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections[userID] {
		select {
		case c.send <- data:
		default:
			h.log.Warn("ws client too slow, event dropped", zap.Int64("user_id", userID))
		}
	}
}

// Serve upgrades the request and blocks until the client disconnects. The
// hello event is queued once the connection is registered.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID int64, hello *Event) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &connection{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	h.register(c)
	if hello != nil {
		h.Push(userID, *hello)
	}
	h.log.Debug("ws connected", zap.Int64("user_id", userID))

	go h.writePump(c)
	h.readPump(c)
	return nil
}

// readPump only services control frames; clients do not send events.
func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		h.log.Debug("ws disconnected", zap.Int64("user_id", c.userID))
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
