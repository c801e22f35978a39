package memstore

import (
	"fmt"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// AppendMessage appends to the room's history. A message for a room that does
// not exist is dropped and false is returned.
func (s *Store) AppendMessage(name string, msg domain.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rm, ok := s.rooms[name]
	if !ok {
		return false
	}
	rm.history = append(rm.history, msg)
	return true
}

func (s *Store) History(name string) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rm, ok := s.rooms[name]
	if !ok {
		return []domain.Message{}
	}
	return append(make([]domain.Message, 0, len(rm.history)), rm.history...)
}

// HistoryPage returns up to limit messages, oldest first, starting after the
// position encoded in cursor. next is empty once the end of history is reached.
func (s *Store) HistoryPage(name, cursor string, limit int) ([]domain.Message, string, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	cur, err := DecodeCursor(cursor)
	if err != nil {
		return nil, "", fmt.Errorf("decode cursor: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rm, ok := s.rooms[name]
	if !ok {
		return nil, "", domain.ErrRoomNotFound
	}

	start := 0
	if cur != nil {
		start = cur.Offset
	}
	if start > len(rm.history) {
		start = len(rm.history)
	}
	end := start + limit
	if end > len(rm.history) {
		end = len(rm.history)
	}
	out := append(make([]domain.Message, 0, end-start), rm.history[start:end]...)

	var next string
	if end < len(rm.history) {
		if c, e := EncodeCursor(Cursor{Offset: end}); e == nil {
			next = c
		}
	}
	return out, next, nil
}
