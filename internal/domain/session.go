package domain

// Session is the identity and room membership of one live connection.
type Session struct {
	ConnID      string
	DisplayName string
	Rooms       []string // join order, no duplicates
}

func (s Session) InRoom(room string) bool {
	for _, r := range s.Rooms {
		if r == room {
			return true
		}
	}
	return false
}

// Clone returns a copy that does not share the Rooms backing array.
func (s Session) Clone() Session {
	out := s
	out.Rooms = append([]string(nil), s.Rooms...)
	return out
}
