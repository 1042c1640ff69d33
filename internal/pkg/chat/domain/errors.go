package chat

import "errors"

// Domain-level errors for room and membership behaviors
var (
	ErrNotMember           = errors.New("chat: user is not a member of the room")
	ErrRoomNotFound        = errors.New("chat: room not found")
	ErrMessageNotFound     = errors.New("chat: message not found")
	ErrInvalidParticipants = errors.New("chat: a direct room requires exactly two distinct user ids")
	ErrEmptyMessage        = errors.New("chat: empty message content")
	ErrInvalidMessageType  = errors.New("chat: message type must be text, image or file")
)
