// Package chat implements the in-process group chat hub: one room per
// group chat-room id, broadcast-only fan-out to every connected client.
package chat

import (
	"log/slog"
	"sync"
)

// Message is one chat message as it travels through a room.
type Message struct {
	Room   string `json:"-"`
	Sender string `json:"sender"`
	Name   string `json:"name"`
	Text   string `json:"text"`
}

// client is one connected websocket, represented by its outbound queue.
type client struct {
	send chan Message
}

// Hub tracks rooms and their connected clients.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*client]struct{}
	logger *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		rooms:  make(map[string]map[*client]struct{}),
		logger: logger,
	}
}

// Join registers a new client in a room and returns its receive channel
// together with a leave function. The channel is closed on leave.
func (h *Hub) Join(room string) (<-chan Message, func()) {
	c := &client{send: make(chan Message, 32)}

	h.mu.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*client]struct{})
	}
	h.rooms[room][c] = struct{}{}
	count := len(h.rooms[room])
	h.mu.Unlock()

	h.logger.Debug("chat client joined",
		slog.String("room", room),
		slog.Int("clients", count),
	)

	leave := func() {
		h.mu.Lock()
		if clients, ok := h.rooms[room]; ok {
			if _, member := clients[c]; member {
				delete(clients, c)
				close(c.send)
			}
			if len(clients) == 0 {
				delete(h.rooms, room)
			}
		}
		h.mu.Unlock()
	}
	return c.send, leave
}

// Broadcast delivers a message to every client in its room. Clients whose
// queue is full are skipped rather than blocking the sender.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[msg.Room] {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("chat client too slow, dropping message",
				slog.String("room", msg.Room),
			)
		}
	}
}

// RoomSize reports the number of connected clients in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
