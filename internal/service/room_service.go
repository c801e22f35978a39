package service

import (
	"fmt"
	"log/slog"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/memstore"
)

const msgRoomExists = "Room already exists!"

// CreateRoom returns ok=false when the request is incomplete; the caller then
// sends no reply at all.
func (s *ChatService) CreateRoom(connID, roomName string) (domain.CreateRoomResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.identity(connID); !ok || roomName == "" {
		slog.Debug("chat create ignored", "conn", connID, "room", roomName)
		return domain.CreateRoomResult{}, false
	}

	if s.store.TryCreateRoom(roomName) == memstore.AlreadyExists {
		return domain.CreateRoomResult{Success: false, Message: msgRoomExists}, true
	}
	slog.Info("chat room created", "conn", connID, "room", roomName)

	s.out.ToAll(domain.Event{
		Name: domain.EventRoomCreated,
		Payload: domain.RoomCreatedPayload{
			Room:  roomName,
			Rooms: s.store.ListRoomNames(),
		},
	})
	return domain.CreateRoomResult{
		Success: true,
		Message: fmt.Sprintf(`Room "%s" created!`, roomName),
	}, true
}

// RoomService is the read-only view of rooms used by the HTTP and gRPC surfaces.
type RoomService struct {
	store *memstore.Store
}

func NewRoomService(store *memstore.Store) *RoomService {
	return &RoomService{store: store}
}

func (s *RoomService) ListRooms() []string {
	return s.store.ListRoomNames()
}

func (s *RoomService) GetRoom(name string) (domain.Room, error) {
	room, ok := s.store.Room(name)
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return room, nil
}

// History pages through a room's messages, oldest first.
func (s *RoomService) History(name, cursor string, limit int) ([]domain.Message, string, error) {
	return s.store.HistoryPage(name, cursor, limit)
}
