package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/fouzanpasha/physioapp/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LiveHandler broadcasts coaching ticks to WebSocket clients. It hooks
// into the application pipeline, so clients see exactly what the coach
// scored, frame by frame.
type LiveHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewLiveHandler creates a LiveHandler and subscribes it to the app's
// coaching ticks.
func NewLiveHandler(a *app.App) *LiveHandler {
	h := &LiveHandler{
		clients: make(map[*websocket.Conn]bool),
	}
	a.AddTickHook(h.Broadcast)
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

// Broadcast sends one coaching tick to all connected clients.
func (h *LiveHandler) Broadcast(tick app.Tick) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(tick)
	if err != nil {
		return
	}

	for conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}
