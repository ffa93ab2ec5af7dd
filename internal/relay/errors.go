package relay

import "errors"

var (
	ErrMissingFields  = errors.New("room_id and user_id are required")
	ErrRoomNotFound   = errors.New("room not found")
	ErrNotInRoom      = errors.New("user is not in the room")
	ErrNotJoined      = errors.New("connection has not joined this room")
	ErrMessageTooLong = errors.New("message too long")
	ErrBadIntegrity   = errors.New("message failed integrity check")
	ErrIncomplete     = errors.New("incomplete message data")
)
