// Package registry tracks the session bound to each live connection.
package registry

import (
	"sync"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session // connID -> session
}

func New() *Registry {
	return &Registry{sessions: make(map[string]*domain.Session)}
}

// Register creates a session with no rooms. An empty display name means the
// client never logged in: nothing is registered and ok is false.
func (r *Registry) Register(connID, displayName string) (domain.Session, bool) {
	if connID == "" || displayName == "" {
		return domain.Session{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s := &domain.Session{ConnID: connID, DisplayName: displayName}
	r.sessions[connID] = s
	return s.Clone(), true
}

// Unregister removes the session and returns what it held.
func (r *Registry) Unregister(connID string) (domain.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if !ok {
		return domain.Session{}, false
	}
	delete(r.sessions, connID)
	return *s, true
}

func (r *Registry) Get(connID string) (domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[connID]
	if !ok {
		return domain.Session{}, false
	}
	return s.Clone(), true
}

// AddRoom appends room to the session's rooms unless it is already there.
// Returns false for an unknown connection.
func (r *Registry) AddRoom(connID, room string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if !ok {
		return false
	}
	if !s.InRoom(room) {
		s.Rooms = append(s.Rooms, room)
	}
	return true
}

// RemoveRoom drops room from the session's rooms, keeping the order of the rest.
func (r *Registry) RemoveRoom(connID, room string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if !ok {
		return false
	}
	for i, name := range s.Rooms {
		if name == room {
			s.Rooms = append(s.Rooms[:i:i], s.Rooms[i+1:]...)
			break
		}
	}
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
