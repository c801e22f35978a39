package service

import (
	"log/slog"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

// JoinRoom creates the room on first reference, subscribes the connection to
// it and sends the room history to the joiner only.
func (s *ChatService) JoinRoom(connID, room string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.identity(connID)
	if !ok || room == "" {
		slog.Debug("chat join ignored", "conn", connID, "room", room)
		return
	}

	s.store.EnsureRoom(room)
	s.out.Subscribe(connID, room)
	members := s.store.AddMember(room, sess.DisplayName)
	s.sessions.AddRoom(connID, room)

	s.out.ToRoom(room, domain.Event{
		Name: domain.EventUserJoined,
		Payload: domain.MembershipPayload{
			Username: sess.DisplayName,
			Room:     room,
			Users:    members,
		},
	})
	s.out.ToConn(connID, domain.Event{
		Name:    domain.EventLoadMessages,
		Payload: domain.ToHistoryPayload(s.store.History(room)),
	})
}

// LeaveRoom always emits user_left, even when the name was not a member.
func (s *ChatService) LeaveRoom(connID, room string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.identity(connID)
	if !ok || room == "" {
		slog.Debug("chat leave ignored", "conn", connID, "room", room)
		return
	}

	s.out.Unsubscribe(connID, room)
	members, _ := s.store.RemoveMember(room, sess.DisplayName)
	s.sessions.RemoveRoom(connID, room)

	s.out.ToRoom(room, domain.Event{
		Name: domain.EventUserLeft,
		Payload: domain.MembershipPayload{
			Username: sess.DisplayName,
			Room:     room,
			Users:    members,
		},
	})
}
