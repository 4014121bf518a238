// Package realtime pushes live snapshots to connected browsers over
// websockets.
package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// EventType names the collection an event carries.
type EventType string

const (
	EventItinerary EventType = "itinerary"
	EventPacking   EventType = "packing"
	EventPhotos    EventType = "photos"
)

// Event is one message sent to clients. Data is always a full snapshot of
// the collection, never a diff.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected clients and fans events out to them. Each client has
// its own writer goroutine; a client whose queue is full is disconnected
// rather than slowing down the others.
type Hub struct {
	log      *slog.Logger
	upgrader websocket.Upgrader
	greet    func() []Event

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub constructs a Hub that accepts connections from the given origins.
// "*" allows any origin. Requests without an Origin header are always
// accepted.
func NewHub(log *slog.Logger, origins []string) *Hub {
	h := &Hub{log: log, clients: map[*client]struct{}{}}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(origins, "*") || slices.Contains(origins, origin)
		},
	}
	return h
}

// OnConnect sets the events sent to every new client before any broadcast,
// so a fresh page renders without waiting for the next change. fn runs with
// the hub locked and must not call back into the hub.
func (h *Hub) OnConnect(fn func() []Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.greet = fn
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues e for every connected client.
func (h *Hub) Broadcast(e Event) {
	msg, err := json.Marshal(e)
	if err != nil {
		h.log.Error("realtime: marshal event", "type", e.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Warn("realtime: client too slow, disconnecting", "remote", c.conn.RemoteAddr().String())
			h.removeLocked(c)
		}
	}
}

// ServeHTTP upgrades the request and serves the client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response.
		h.log.WarnContext(r.Context(), "realtime: upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	// The greeting is built and queued in the same critical section that
	// registers the client, so every later broadcast is queued behind it.
	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.greet != nil {
		for _, e := range h.greet() {
			h.enqueueLocked(c, e)
		}
	}
	h.mu.Unlock()

	go h.writePump(c)
	h.readPump(c)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}

// enqueueLocked queues e for c, dropping c if its queue is full.
func (h *Hub) enqueueLocked(c *client, e Event) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	msg, err := json.Marshal(e)
	if err != nil {
		h.log.Error("realtime: marshal event", "type", e.Type, "error", err)
		return
	}
	select {
	case c.send <- msg:
	default:
		h.removeLocked(c)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked unregisters c and closes its queue; the writer then closes
// the connection. Safe to call more than once.
func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// readPump discards client messages; it exists to process control frames and
// notice disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
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

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
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
