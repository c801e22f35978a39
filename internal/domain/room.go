package domain

// Room is a named channel. Members are display names, not sessions.
type Room struct {
	Name    string
	Members []string
	History []Message
}

// HasMember reports whether name is in the member list.
func (r Room) HasMember(name string) bool {
	for _, m := range r.Members {
		if m == name {
			return true
		}
	}
	return false
}

// CreateRoomResult is returned to the caller of create_room only.
type CreateRoomResult struct {
	Success bool
	Message string
}
