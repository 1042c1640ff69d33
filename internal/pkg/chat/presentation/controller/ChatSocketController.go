package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	authport "kachat/internal/infrastructure/auth/port"
	"kachat/internal/infrastructure/realtime"
	"kachat/internal/pkg/chat/application/usecase"
	chat "kachat/internal/pkg/chat/domain"
)

const (
	maxFrameSize = 1 << 20
	readWait     = 60 * time.Second
	opTimeout    = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client-sent frame types.
const (
	frameJoinRoom    = "join_room"
	frameLeaveRoom   = "leave_room"
	frameSendMessage = "send_message"
	frameTypingStart = "typing_start"
	frameTypingStop  = "typing_stop"
	frameMessageRead = "message_read"
)

type inboundFrame struct {
	Type        string `json:"type"`
	RoomID      int64  `json:"room_id"`
	MessageID   int64  `json:"message_id"`
	MessageType string `json:"message_type"`
	Content     string `json:"content"`
}

// ChatSocketController owns the websocket endpoint: it authenticates the
// handshake, attaches the session to the hub and runs the read loop that
// translates client frames into use case calls and fan-out.
type ChatSocketController struct {
	Verifier  authport.Verifier
	Hub       *realtime.Hub
	Join      *usecase.JoinChatUseCase
	Send      *usecase.SendMessageUseCase
	ListChats *usecase.ListChatsUseCase
	Log       *slog.Logger
}

func NewChatSocketController(
	verifier authport.Verifier,
	hub *realtime.Hub,
	join *usecase.JoinChatUseCase,
	send *usecase.SendMessageUseCase,
	listChats *usecase.ListChatsUseCase,
	log *slog.Logger,
) *ChatSocketController {
	if log == nil {
		log = slog.Default()
	}
	return &ChatSocketController{
		Verifier:  verifier,
		Hub:       hub,
		Join:      join,
		Send:      send,
		ListChats: listChats,
		Log:       log,
	}
}

// Handle upgrades the request after verifying the token. A missing or invalid
// token is refused with 401 before any upgrade happens, so unauthenticated
// clients never hold a socket.
func (h *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = c.GetHeader("Sec-WebSocket-Protocol")
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		identity, err := h.Verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.Log.Warn("websocket upgrade failed", "user_id", identity.UserID, "error", err)
			return
		}

		conn := realtime.NewConnection(identity.UserID, identity.Handle, ws)
		conn.Start()
		h.Hub.Attach(conn)

		h.Log.Info("websocket session opened", "user_id", identity.UserID, "session_id", conn.ID)
		h.reply(conn, gin.H{"type": "connected", "user_id": identity.UserID})

		h.readLoop(conn, ws)

		h.Hub.Detach(conn)
		conn.Close(websocket.CloseNormalClosure, "bye")
		h.Log.Info("websocket session closed", "user_id", identity.UserID, "session_id", conn.ID)
	}
}

func (h *ChatSocketController) readLoop(conn *realtime.Connection, ws *websocket.Conn) {
	ws.SetReadLimit(maxFrameSize)
	_ = ws.SetReadDeadline(time.Now().Add(readWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.Log.Warn("websocket read failed", "user_id", conn.UserID, "error", err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			h.replyError(conn, "malformed frame")
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		h.handleFrame(ctx, conn, frame)
		cancel()
	}
}

func (h *ChatSocketController) handleFrame(ctx context.Context, conn *realtime.Connection, frame inboundFrame) {
	switch frame.Type {
	case frameJoinRoom:
		h.handleJoin(ctx, conn, frame)
	case frameLeaveRoom:
		h.handleLeave(conn, frame)
	case frameSendMessage:
		h.handleSend(ctx, conn, frame)
	case frameTypingStart:
		h.handleTyping(conn, frame, true)
	case frameTypingStop:
		h.handleTyping(conn, frame, false)
	case frameMessageRead:
		h.handleMessageRead(conn, frame)
	default:
		h.replyError(conn, "unknown frame type")
	}
}

// handleJoin subscribes the session to a room's live feed after checking the
// caller is a member. Membership itself is not changed.
func (h *ChatSocketController) handleJoin(ctx context.Context, conn *realtime.Connection, frame inboundFrame) {
	if err := h.Join.Execute(ctx, usecase.JoinChatInput{RoomID: frame.RoomID, UserID: conn.UserID}); err != nil {
		h.replyUseCaseError(conn, err)
		return
	}

	h.Hub.Subscribe(frame.RoomID, conn)
	h.reply(conn, gin.H{"type": "joined", "room_id": frame.RoomID})
	h.Hub.Dispatch(frame.RoomID, encodeRoomUpdated(roomUpdatedEvent{
		RoomID: frame.RoomID,
		Action: "join",
		UserID: conn.UserID,
	}), conn.UserID)
}

// handleLeave drops the live subscription only. The membership endpoint is the
// one that hides the room. Leaving a room the session never joined is just the
// ack, so a client cannot broadcast into arbitrary rooms.
func (h *ChatSocketController) handleLeave(conn *realtime.Connection, frame inboundFrame) {
	subscribed := h.Hub.IsSubscribed(frame.RoomID, conn)
	h.Hub.Unsubscribe(frame.RoomID, conn)
	h.reply(conn, gin.H{"type": "left", "room_id": frame.RoomID})
	if !subscribed {
		return
	}
	h.Hub.Dispatch(frame.RoomID, encodeRoomUpdated(roomUpdatedEvent{
		RoomID: frame.RoomID,
		Action: "leave",
		UserID: conn.UserID,
	}), conn.UserID)
}

func (h *ChatSocketController) handleSend(ctx context.Context, conn *realtime.Connection, frame inboundFrame) {
	result, err := h.Send.Execute(ctx, usecase.SendMessageInput{
		RoomID:   frame.RoomID,
		SenderID: conn.UserID,
		Type:     chat.MessageType(frame.MessageType),
		Content:  frame.Content,
		FanOut: func(res usecase.SendMessageResult) {
			msg := *res.Message
			payload := encodeReceiveMessage(msg)
			h.Hub.Dispatch(msg.RoomID, payload, conn.UserID)
			h.Hub.NotifyUser(conn.UserID, payload)
			h.Hub.BroadcastAll(messageRoomUpdate(msg))
		},
	})
	if err != nil {
		h.replyUseCaseError(conn, err)
		return
	}

	h.ListChats.Invalidate(ctx, conn.UserID)

	if result.RevealPending {
		h.reply(conn, gin.H{"type": "warning", "detail": "message stored, visibility update pending"})
	}
}

// Typing and read events are pure relays into the room's delivery set, so a
// session may only emit them into rooms it has joined.
func (h *ChatSocketController) handleTyping(conn *realtime.Connection, frame inboundFrame, typing bool) {
	if !h.Hub.IsSubscribed(frame.RoomID, conn) {
		h.replyError(conn, "join the room first")
		return
	}
	b, _ := json.Marshal(userTypingEvent{
		Type:     frameUserTyping,
		RoomID:   frame.RoomID,
		Handle:   conn.Handle,
		IsTyping: typing,
	})
	h.Hub.Dispatch(frame.RoomID, b, conn.UserID)
}

func (h *ChatSocketController) handleMessageRead(conn *realtime.Connection, frame inboundFrame) {
	if !h.Hub.IsSubscribed(frame.RoomID, conn) {
		h.replyError(conn, "join the room first")
		return
	}
	b, _ := json.Marshal(messageReadUpdateEvent{
		Type:        frameMessageReadUpdate,
		MessageID:   frame.MessageID,
		RoomID:      frame.RoomID,
		UnreadCount: 0,
	})
	h.Hub.Dispatch(frame.RoomID, b, conn.UserID)
}

func (h *ChatSocketController) reply(conn *realtime.Connection, body gin.H) {
	b, _ := json.Marshal(body)
	_ = conn.Send(b)
}

func (h *ChatSocketController) replyError(conn *realtime.Connection, detail string) {
	h.reply(conn, gin.H{"type": "error", "detail": detail})
}

// replyUseCaseError translates domain failures into client error frames. Store
// errors stay opaque.
func (h *ChatSocketController) replyUseCaseError(conn *realtime.Connection, err error) {
	switch {
	case errors.Is(err, chat.ErrNotMember):
		h.replyError(conn, "not a member of this room")
	case errors.Is(err, chat.ErrRoomNotFound):
		h.replyError(conn, "chat room not found")
	case errors.Is(err, usecase.ErrStore):
		h.replyError(conn, "internal error")
	default:
		h.replyError(conn, err.Error())
	}
}
