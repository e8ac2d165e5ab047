package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"dues-app-go/internal/metrics"
	"dues-app-go/pkg/logger"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// Subscriber is the authenticated user behind a socket.
type Subscriber struct {
	UserID string
	Role   string
}

func (s Subscriber) IsStaff() bool {
	return s.Role == "admin" || s.Role == "treasurer"
}

// Authorizer decides whether a non-staff user may follow a member's room.
type Authorizer interface {
	CanFollowMember(ctx context.Context, userID, memberID string) (bool, error)
}

type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	rooms    map[string]map[*client]struct{}
	auth     Authorizer
	upgrader websocket.Upgrader
	log      logger.Logger
}

func NewHub(auth Authorizer, allowedOrigins []string, log logger.Logger) *Hub {
	h := &Hub{
		clients: make(map[*client]struct{}),
		rooms:   make(map[string]map[*client]struct{}),
		auth:    auth,
		log:     log,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

// Publish fans a row change out to every room it concerns.
func (h *Hub) Publish(change Change) {
	for _, delivery := range Route(change) {
		h.Broadcast(delivery.Room, delivery.Message)
	}
}

// Broadcast queues msg for every member of room and returns how many
// clients accepted it. Clients whose buffers are full are disconnected.
func (h *Hub) Broadcast(room string, msg Message) int {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.log.InternalError("realtime.broadcast: encode message failed", err, "event", msg.Event)
		return 0
	}

	delivered := 0
	var slow []*client
	h.mu.RLock()
	for c := range h.rooms[room] {
		select {
		case c.send <- payload:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	metrics.RealtimeEvents.WithLabelValues(msg.Event).Inc()
	for _, c := range slow {
		h.log.Warn("realtime.broadcast: dropping slow client", "user_id", c.sub.UserID, "room", room)
		metrics.RealtimeDropped.Inc()
		h.remove(c)
	}
	return delivered
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// ServeWS upgrades the request and blocks until the socket closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sub Subscriber) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		sub:  sub,
	}
	h.add(c)

	go c.writePump()
	c.readPump(r.Context())
	return nil
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.remove(c)
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	metrics.RealtimeClients.Inc()
	h.log.Debug("realtime: client connected", "user_id", c.sub.UserID)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	close(c.send)
	h.mu.Unlock()

	metrics.RealtimeClients.Dec()
	h.log.Debug("realtime: client disconnected", "user_id", c.sub.UserID)
}

func (h *Hub) join(c *client, room string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return false
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	return true
}

// reply queues a message for one client unless it already left.
func (h *Hub) reply(c *client, msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	wildcard := false
	for _, origin := range allowed {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			wildcard = true
		}
		if origin != "" {
			set[origin] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || wildcard {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
