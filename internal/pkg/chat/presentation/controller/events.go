package controller

import (
	"encoding/json"
	"time"

	chat "kachat/internal/pkg/chat/domain"
)

// Server-sent frame types, shared by the websocket and HTTP send paths so a
// message reaches subscribers identically no matter which surface stored it.
const (
	frameReceiveMessage    = "receive_message"
	frameRoomUpdated       = "chat_room_updated"
	frameUserTyping        = "user_typing"
	frameMessageReadUpdate = "message_read_update"
)

type messagePayload struct {
	ID          int64     `json:"id"`
	RoomID      int64     `json:"room_id"`
	SenderID    int64     `json:"sender_id"`
	MessageType string    `json:"message_type"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	UnreadCount int       `json:"unread_count"`
}

func toMessagePayload(m chat.Message) messagePayload {
	return messagePayload{
		ID:          m.ID,
		RoomID:      m.RoomID,
		SenderID:    m.SenderID,
		MessageType: string(m.Type),
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
		UnreadCount: 1,
	}
}

type receiveMessageEvent struct {
	Type    string         `json:"type"`
	Message messagePayload `json:"message"`
}

// roomUpdatedEvent is the narrow room-list refresh signal broadcast to every
// session, so users outside the room see it appear, reorder or vanish.
type roomUpdatedEvent struct {
	Type            string     `json:"type"`
	RoomID          int64      `json:"room_id"`
	Action          string     `json:"action"` // created | join | leave | message
	UserID          int64      `json:"user_id,omitempty"`
	LastMessage     string     `json:"last_message,omitempty"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
}

type userTypingEvent struct {
	Type     string `json:"type"`
	RoomID   int64  `json:"room_id"`
	Handle   string `json:"handle"`
	IsTyping bool   `json:"isTyping"`
}

type messageReadUpdateEvent struct {
	Type        string `json:"type"`
	MessageID   int64  `json:"message_id"`
	RoomID      int64  `json:"room_id"`
	UnreadCount int    `json:"unread_count"`
}

func encodeReceiveMessage(m chat.Message) []byte {
	b, _ := json.Marshal(receiveMessageEvent{Type: frameReceiveMessage, Message: toMessagePayload(m)})
	return b
}

func encodeRoomUpdated(ev roomUpdatedEvent) []byte {
	ev.Type = frameRoomUpdated
	b, _ := json.Marshal(ev)
	return b
}

func messageRoomUpdate(m chat.Message) []byte {
	t := m.CreatedAt
	return encodeRoomUpdated(roomUpdatedEvent{
		RoomID:          m.RoomID,
		Action:          "message",
		LastMessage:     m.Content,
		LastMessageTime: &t,
	})
}
