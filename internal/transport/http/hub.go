package http

import (
	"sync"

	"live-quiz-service/internal/domain"
)

const sendBuffer = 32

// Hub tracks live connections and the room each one listens to. It is the
// app.Broadcaster for the websocket transport.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	rooms   map[string]map[string]struct{}
}

type client struct {
	id   string
	room string
	send chan outboundMessage[any]
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
		rooms:   make(map[string]map[string]struct{}),
	}
}

func (h *Hub) register(connID string) *client {
	c := &client{id: connID, send: make(chan outboundMessage[any], sendBuffer)}
	h.mu.Lock()
	h.clients[connID] = c
	h.mu.Unlock()
	return c
}

// unregister drops the connection and closes its send channel.
func (h *Hub) unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[connID]
	if !ok {
		return
	}
	h.removeFromRoomLocked(c)
	delete(h.clients, connID)
	close(c.send)
}

// joinRoom moves the connection into roomID and returns the room it was in before.
func (h *Hub) joinRoom(connID, roomID string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[connID]
	if !ok {
		return ""
	}
	previous := c.room
	h.removeFromRoomLocked(c)
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[string]struct{})
		h.rooms[roomID] = members
	}
	members[connID] = struct{}{}
	c.room = roomID
	return previous
}

// leaveRoom detaches the connection from its room and returns that room.
func (h *Hub) leaveRoom(connID string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[connID]
	if !ok {
		return ""
	}
	room := c.room
	h.removeFromRoomLocked(c)
	return room
}

func (h *Hub) removeFromRoomLocked(c *client) {
	if c.room == "" {
		return
	}
	if members, ok := h.rooms[c.room]; ok {
		delete(members, c.id)
		if len(members) == 0 {
			delete(h.rooms, c.room)
		}
	}
	c.room = ""
}

// Broadcast queues the event for every connection in the room.
func (h *Hub) Broadcast(roomID string, event domain.Event) {
	msg := outboundMessage[any]{Type: string(event.Type), Payload: event.Payload}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for connID := range h.rooms[roomID] {
		if c, ok := h.clients[connID]; ok {
			enqueue(c, msg)
		}
	}
}

// Send queues the event for a single connection.
func (h *Hub) Send(connID string, event domain.Event) {
	msg := outboundMessage[any]{Type: string(event.Type), Payload: event.Payload}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[connID]; ok {
		enqueue(c, msg)
	}
}

// enqueue never blocks: when the buffer is full the oldest message is dropped.
func enqueue(c *client, msg outboundMessage[any]) {
	select {
	case c.send <- msg:
		return
	default:
	}
	select {
	case <-c.send:
	default:
	}
	select {
	case c.send <- msg:
	default:
	}
}
