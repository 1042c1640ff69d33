package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kachat/internal/infrastructure/realtime"
	"kachat/internal/pkg/chat/application/usecase"
	chat "kachat/internal/pkg/chat/domain"
)

// SendMessageController is the non-live send fallback. It runs the exact same
// append+reveal use case as the websocket path and performs the same fan-out,
// so a client without a socket produces indistinguishable effects.
type SendMessageController struct {
	UC        *usecase.SendMessageUseCase
	Hub       *realtime.Hub
	ListChats *usecase.ListChatsUseCase
}

func NewSendMessageController(uc *usecase.SendMessageUseCase, hub *realtime.Hub, listChats *usecase.ListChatsUseCase) *SendMessageController {
	return &SendMessageController{UC: uc, Hub: hub, ListChats: listChats}
}

type sendMessageRequest struct {
	RoomID      int64  `json:"room_id" binding:"required"`
	MessageType string `json:"message_type"`
	Content     string `json:"content" binding:"required"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		caller := currentUser(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			RoomID:   req.RoomID,
			SenderID: caller,
			Type:     chat.MessageType(req.MessageType),
			Content:  req.Content,
			FanOut: func(res usecase.SendMessageResult) {
				msg := *res.Message
				h.Hub.Dispatch(msg.RoomID, encodeReceiveMessage(msg), 0)
				h.Hub.BroadcastAll(messageRoomUpdate(msg))
			},
		})
		if err != nil {
			writeError(c, err)
			return
		}

		h.ListChats.Invalidate(ctx, caller)

		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"message":        toMessagePayload(*result.Message),
			"reveal_pending": result.RevealPending,
		})
	}
}
