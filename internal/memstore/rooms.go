// Package memstore keeps rooms, their members and message history in memory
// for the lifetime of the process.
package memstore

import (
	"sync"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

type CreateResult int

const (
	Created CreateResult = iota
	AlreadyExists
)

func (r CreateResult) String() string {
	if r == Created {
		return "created"
	}
	return "already_exists"
}

type room struct {
	members []string
	history []domain.Message
}

// Store owns every room. Rooms are never deleted.
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*room
	order []string // creation order
}

func New() *Store {
	return &Store{rooms: make(map[string]*room)}
}

// EnsureRoom creates the room if it is missing and returns its current state.
func (s *Store) EnsureRoom(name string) domain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	rm, ok := s.rooms[name]
	if !ok {
		rm = s.createLocked(name)
	}
	return snapshot(name, rm)
}

// TryCreateRoom creates the room only if nobody has referenced it before.
func (s *Store) TryCreateRoom(name string) CreateResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[name]; ok {
		return AlreadyExists
	}
	s.createLocked(name)
	return Created
}

func (s *Store) Exists(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.rooms[name]
	return ok
}

func (s *Store) Room(name string) (domain.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rm, ok := s.rooms[name]
	if !ok {
		return domain.Room{}, false
	}
	return snapshot(name, rm), true
}

// ListRoomNames returns room names in creation order.
func (s *Store) ListRoomNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(make([]string, 0, len(s.order)), s.order...)
}

func (s *Store) createLocked(name string) *room {
	rm := &room{
		members: []string{},
		history: []domain.Message{},
	}
	s.rooms[name] = rm
	s.order = append(s.order, name)
	return rm
}

func snapshot(name string, rm *room) domain.Room {
	return domain.Room{
		Name:    name,
		Members: append(make([]string, 0, len(rm.members)), rm.members...),
		History: append(make([]domain.Message, 0, len(rm.history)), rm.history...),
	}
}
