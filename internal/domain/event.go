package domain

// Outbound event names.
const (
	EventUserConnected    = "user_connected"
	EventUserDisconnected = "user_disconnected"
	EventRoomCreated      = "room_created"
	EventUserJoined       = "user_joined"
	EventUserLeft         = "user_left"
	EventLoadMessages     = "load_messages"
	EventReceiveMessage   = "receive_message"
)

// Event is one outbound notification; Payload is one of the *Payload types below.
type Event struct {
	Name    string
	Payload any
}

type UserPayload struct {
	Username string `json:"username"`
}

type RoomCreatedPayload struct {
	Room  string   `json:"room"`
	Rooms []string `json:"rooms"`
}

type MembershipPayload struct {
	Username string   `json:"username"`
	Room     string   `json:"room"`
	Users    []string `json:"users"`
}

type ChatMessagePayload struct {
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type HistoryPayload struct {
	Messages []ChatMessagePayload `json:"messages"`
}

func ToChatMessagePayload(m Message) ChatMessagePayload {
	return ChatMessagePayload{
		Username:  m.Author,
		Message:   m.Text,
		Timestamp: m.SentAt,
	}
}

func ToHistoryPayload(history []Message) HistoryPayload {
	out := HistoryPayload{Messages: make([]ChatMessagePayload, 0, len(history))}
	for _, m := range history {
		out.Messages = append(out.Messages, ToChatMessagePayload(m))
	}
	return out
}
