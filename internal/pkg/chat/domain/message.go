package chat

import (
	"strings"
	"time"
)

// MessageType represents the kind of message content.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeFile  MessageType = "file"
)

// Valid reports whether t is one of the supported message types.
func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeFile:
		return true
	}
	return false
}

// Message is an immutable log entry in a room, ordered by (CreatedAt, ID).
// ID and CreatedAt are assigned by the store on insert.
type Message struct {
	ID        int64       `db:"id"`
	RoomID    int64       `db:"room_id"`
	SenderID  int64       `db:"sender_id"`
	Type      MessageType `db:"message_type"`
	Content   string      `db:"content"`
	CreatedAt time.Time   `db:"created_at"`
}

// NewMessage validates and normalizes a message draft before persistence.
// An empty type defaults to text; content is trimmed and must be non-empty.
func NewMessage(roomID, senderID int64, msgType MessageType, content string) (*Message, error) {
	if msgType == "" {
		msgType = MessageTypeText
	}
	if !msgType.Valid() {
		return nil, ErrInvalidMessageType
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	return &Message{
		RoomID:   roomID,
		SenderID: senderID,
		Type:     msgType,
		Content:  content,
	}, nil
}
