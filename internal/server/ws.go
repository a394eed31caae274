package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/counter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

const (
	liveQueueSize  = 64
	liveWriteLimit = time.Second
)

// LiveHandler pushes every emission to connected WebSocket clients. It is
// also a sink, so it can sit next to the serial port in a fanout.
type LiveHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	queue   chan []byte
	done    chan struct{}
	once    sync.Once
}

// liveMessage is the JSON pushed for each emission.
type liveMessage struct {
	Value     int   `json:"value"`
	Heartbeat bool  `json:"heartbeat"`
	Timestamp int64 `json:"timestamp"`
}

// NewLiveHandler creates a LiveHandler and starts its broadcaster.
func NewLiveHandler() *LiveHandler {
	h := &LiveHandler{
		clients: make(map[*websocket.Conn]bool),
		queue:   make(chan []byte, liveQueueSize),
		done:    make(chan struct{}),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *LiveHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Send queues the emission for broadcast. It never blocks; when the queue
// is full the emission is dropped.
func (h *LiveHandler) Send(e counter.Emission) {
	msg, err := json.Marshal(liveMessage{
		Value:     e.Value,
		Heartbeat: e.Heartbeat,
		Timestamp: e.At.UnixMilli(),
	})
	if err != nil {
		return
	}

	select {
	case h.queue <- msg:
	default:
	}
}

// Close stops the broadcaster. Connected clients stay open until they hang up.
func (h *LiveHandler) Close() {
	h.once.Do(func() { close(h.done) })
}

// broadcast sends queued messages to all connected clients.
func (h *LiveHandler) broadcast() {
	for {
		select {
		case <-h.done:
			return
		case msg := <-h.queue:
			// Writes happen under the write lock so that no two goroutines
			// write to the same connection.
			h.mu.Lock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(liveWriteLimit))
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					log.Printf("websocket write error: %v", err)
				}
			}
			h.mu.Unlock()
		}
	}
}
