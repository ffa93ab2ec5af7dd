package relay

// Inbound event types, sent by clients over the relay connection.
const (
	EventJoinRoom    = "join_room"
	EventSendMessage = "send_message"
	EventLeaveRoom   = "leave_room"
)

// Outbound event types, emitted by the relay.
const (
	EventConnected  = "connected"
	EventRoomJoined = "room_joined"
	EventUserJoined = "user_joined"
	EventNewMessage = "new_message"
	EventUserLeft   = "user_left"
	EventRoomLeft   = "room_left"
	EventError      = "error"
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type ConnectedPayload struct {
	SessionID string `json:"session_id"`
}

// JoinPayload doubles as the leave_room payload; both carry the same fields.
type JoinPayload struct {
	RoomID string `json:"room_id"`
	UserID string `json:"user_id"`
}

type RoomJoinedPayload struct {
	RoomID     string `json:"room_id"`
	UserID     string `json:"user_id"`
	UsersCount int    `json:"users_count"`
}

// UserEventPayload backs both user_joined and user_left notifications.
type UserEventPayload struct {
	UserID     string `json:"user_id"`
	UsersCount int    `json:"users_count"`
}

type SendPayload struct {
	RoomID  string `json:"room_id"`
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	HMAC    string `json:"hmac"`
}

type NewMessagePayload struct {
	RoomID    string `json:"room_id"`
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
	HMAC      string `json:"hmac"`
	Timestamp string `json:"timestamp"`
}

type RoomLeftPayload struct {
	RoomID string `json:"room_id"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
