package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"olympool/metrics"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Update is one message pushed to leaderboard listeners
type Update struct {
	Type   string      `json:"type"` // "leaderboard" or "medals"
	Data   interface{} `json:"data"`
	SentAt time.Time   `json:"sent_at"`
}

// Hub fans leaderboard updates out to connected websocket clients
type Hub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan Update
	mutex     sync.Mutex
	log       *slog.Logger
}

// NewHub creates a hub. Call Run to start delivering updates.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Update, 16),
		log:       log,
	}
}

// RegisterClient adds a websocket client
func (h *Hub) RegisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	h.clients[conn] = true
	metrics.WebsocketClients.Set(float64(len(h.clients)))
	h.mutex.Unlock()
}

// UnregisterClient removes a websocket client
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	delete(h.clients, conn)
	metrics.WebsocketClients.Set(float64(len(h.clients)))
	h.mutex.Unlock()
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast queues an update for every client. It never blocks: when the
// queue is full the update is dropped, the next one carries fresh state.
func (h *Hub) Broadcast(updateType string, data interface{}) {
	if h == nil {
		return
	}
	update := Update{Type: updateType, Data: data, SentAt: time.Now()}
	select {
	case h.broadcast <- update:
	default:
		h.log.Warn("Broadcast queue full, dropping update", "type", updateType)
	}
}

// Run delivers queued updates until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case update := <-h.broadcast:
			h.deliver(update)
		}
	}
}

// deliver writes outside the lock so a slow client never blocks
// registration. Only Run calls it, so writes are never concurrent.
func (h *Hub) deliver(update Update) {
	h.mutex.Lock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mutex.Unlock()

	var failed []*websocket.Conn
	for _, client := range clients {
		_ = client.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.WriteJSON(update); err != nil {
			h.log.Warn("WebSocket write error", "error", err)
			client.Close()
			failed = append(failed, client)
		}
	}

	h.mutex.Lock()
	for _, client := range failed {
		delete(h.clients, client)
	}
	metrics.WebsocketClients.Set(float64(len(h.clients)))
	h.mutex.Unlock()
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
	metrics.WebsocketClients.Set(0)
}
