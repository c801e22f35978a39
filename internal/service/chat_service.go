package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/memstore"
	"github.com/cwrk-planet/chat-service/internal/registry"
)

// Dispatcher fans outbound events out to live connections. Room groups are
// maintained only through Subscribe/Unsubscribe.
type Dispatcher interface {
	Subscribe(connID, room string)
	Unsubscribe(connID, room string)
	ToConn(connID string, ev domain.Event)
	ToRoom(room string, ev domain.Event)
	ToAll(ev domain.Event)
}

// ChatService handles every inbound chat event. Handlers run one at a time, so
// the events emitted for one inbound event are dispatched before the next one
// is processed.
type ChatService struct {
	mu       sync.Mutex
	store    *memstore.Store
	sessions *registry.Registry
	out      Dispatcher

	now func() time.Time
}

func NewChatService(store *memstore.Store, sessions *registry.Registry, out Dispatcher) *ChatService {
	return &ChatService{
		store:    store,
		sessions: sessions,
		out:      out,
		now:      time.Now,
	}
}

func (s *ChatService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Connect binds displayName to the connection. Without a display name the
// connection stays anonymous and later room events on it are ignored.
func (s *ChatService) Connect(connID, displayName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions.Register(connID, displayName)
	if !ok {
		slog.Debug("chat connect without identity", "conn", connID)
		return
	}
	slog.Info("chat connect", "conn", connID, "user", sess.DisplayName)

	s.out.ToAll(domain.Event{
		Name:    domain.EventUserConnected,
		Payload: domain.UserPayload{Username: sess.DisplayName},
	})
}

// Disconnect leaves every joined room in join order, then drops the session.
// Unknown connections are ignored.
func (s *ChatService) Disconnect(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions.Get(connID)
	if !ok {
		return
	}

	for _, room := range sess.Rooms {
		s.out.Unsubscribe(connID, room)
		members, removed := s.store.RemoveMember(room, sess.DisplayName)
		if !removed {
			continue
		}
		s.out.ToRoom(room, domain.Event{
			Name: domain.EventUserLeft,
			Payload: domain.MembershipPayload{
				Username: sess.DisplayName,
				Room:     room,
				Users:    members,
			},
		})
	}

	s.sessions.Unregister(connID)
	slog.Info("chat disconnect", "conn", connID, "user", sess.DisplayName, "rooms", len(sess.Rooms))

	s.out.ToAll(domain.Event{
		Name:    domain.EventUserDisconnected,
		Payload: domain.UserPayload{Username: sess.DisplayName},
	})
}

// SendMessage records the message when the room exists and broadcasts it to
// the room group either way.
func (s *ChatService) SendMessage(connID, room, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.identity(connID)
	if !ok || room == "" || text == "" {
		slog.Debug("chat send ignored", "conn", connID, "room", room)
		return
	}

	msg := domain.NewMessage(sess.DisplayName, text, s.now())
	if !s.store.AppendMessage(room, msg) {
		slog.Debug("chat message not stored, unknown room", "conn", connID, "room", room)
	}

	s.out.ToRoom(room, domain.Event{
		Name:    domain.EventReceiveMessage,
		Payload: domain.ToChatMessagePayload(msg),
	})
}

func (s *ChatService) identity(connID string) (domain.Session, bool) {
	sess, ok := s.sessions.Get(connID)
	if !ok || sess.DisplayName == "" {
		return domain.Session{}, false
	}
	return sess, true
}
