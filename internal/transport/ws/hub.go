package ws

import (
	"log/slog"
	"sync"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

type Conn interface {
	ID() string
	Send(msg Message) error
	Close() error
}

// Hub delivers outbound events to live connections. Room groups are explicit
// and only change through Subscribe/Unsubscribe/Detach.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]Conn                // connID -> conn
	rooms map[string]map[string]struct{} // room -> set of connIDs
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]Conn),
		rooms: make(map[string]map[string]struct{}),
	}
}

func (h *Hub) Attach(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[c.ID()] = c
}

// Detach forgets the connection and removes it from every room group.
func (h *Hub) Detach(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.conns, connID)
	for room, rs := range h.rooms {
		delete(rs, connID)
		if len(rs) == 0 {
			delete(h.rooms, room)
		}
	}
}

func (h *Hub) Subscribe(connID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rs, ok := h.rooms[room]
	if !ok {
		rs = make(map[string]struct{})
		h.rooms[room] = rs
	}
	rs[connID] = struct{}{}
}

func (h *Hub) Unsubscribe(connID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if rs, ok := h.rooms[room]; ok {
		delete(rs, connID)
		if len(rs) == 0 {
			delete(h.rooms, room)
		}
	}
}

func (h *Hub) ToConn(connID string, ev domain.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if c, ok := h.conns[connID]; ok {
		h.send(c, ev)
	}
}

func (h *Hub) ToRoom(room string, ev domain.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id := range h.rooms[room] {
		if c, ok := h.conns[id]; ok {
			h.send(c, ev)
		}
	}
}

func (h *Hub) ToAll(ev domain.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.conns {
		h.send(c, ev)
	}
}

// Len returns the number of attached connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Close closes every attached connection. Read loops then run their normal
// disconnect path.
func (h *Hub) Close() {
	h.mu.RLock()
	conns := make([]Conn, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.Close(); err != nil {
			slog.Debug("ws hub close conn failed", "conn", c.ID(), "err", err)
		}
	}
	slog.Info("ws hub closed", "conns", len(conns))
}

// send is best-effort; Conn.Send never blocks.
func (h *Hub) send(c Conn, ev domain.Event) {
	if err := c.Send(Message{Type: ev.Name, Payload: ev.Payload}); err != nil {
		slog.Warn("ws send dropped", "conn", c.ID(), "event", ev.Name, "err", err)
	}
}
