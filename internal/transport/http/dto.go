package http

type LoginRequest struct {
	Username string `json:"username"`
}

type LoginResponse struct {
	Username string `json:"username"`
}

type ChatPageResponse struct {
	Username string   `json:"username"`
	Rooms    []string `json:"rooms"`
}

type RoomsListResponse struct {
	Items []string `json:"items"`
}

type RoomItem struct {
	Name         string   `json:"name"`
	Members      []string `json:"members"`
	MessageCount int      `json:"message_count"`
}

type ChatMessageItem struct {
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type ChatHistoryResponse struct {
	Items      []ChatMessageItem `json:"items"`
	NextCursor string            `json:"next_cursor,omitempty"`
}
