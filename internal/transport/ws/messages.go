package ws

// Inbound event types. connect and disconnect are implied by the socket itself.
const (
	TypeCreateRoom  = "create_room"
	TypeJoinRoom    = "join_room"
	TypeLeaveRoom   = "leave_room"
	TypeSendMessage = "send_message"
)

// TypeAck answers an inbound frame that carried an ack_id.
const TypeAck = "ack"

// Message is the frame envelope in both directions.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
	AckID   string `json:"ack_id,omitempty"`
}

type CreateRoomPayload struct {
	RoomName string `json:"room_name"`
}

type RoomPayload struct {
	Room string `json:"room"`
}

type SendMessagePayload struct {
	Room    string `json:"room"`
	Message string `json:"message"`
}

type AckPayload struct {
	AckID   string `json:"ack_id"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}
