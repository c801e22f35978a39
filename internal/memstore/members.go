package memstore

// AddMember adds displayName to the room's member list unless it is already
// there and returns the resulting list. Unknown rooms yield an empty list.
func (s *Store) AddMember(name, displayName string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	rm, ok := s.rooms[name]
	if !ok {
		return []string{}
	}
	if indexOf(rm.members, displayName) < 0 {
		rm.members = append(rm.members, displayName)
	}
	return append(make([]string, 0, len(rm.members)), rm.members...)
}

// RemoveMember drops displayName from the room and reports whether it was a
// member. The returned list is the membership after the edit.
func (s *Store) RemoveMember(name, displayName string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rm, ok := s.rooms[name]
	if !ok {
		return []string{}, false
	}
	i := indexOf(rm.members, displayName)
	if i >= 0 {
		rm.members = append(rm.members[:i:i], rm.members[i+1:]...)
	}
	return append(make([]string, 0, len(rm.members)), rm.members...), i >= 0
}

func (s *Store) Members(name string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rm, ok := s.rooms[name]
	if !ok {
		return []string{}
	}
	return append(make([]string, 0, len(rm.members)), rm.members...)
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}
