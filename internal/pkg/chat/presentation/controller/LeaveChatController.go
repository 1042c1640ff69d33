package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"kachat/internal/infrastructure/realtime"
	"kachat/internal/pkg/chat/application/usecase"
)

// LeaveChatController handles the soft-leave endpoint: the room disappears
// from the caller's list but shared history stays intact.
type LeaveChatController struct {
	UC        *usecase.LeaveChatUseCase
	Hub       *realtime.Hub
	ListChats *usecase.ListChatsUseCase
}

func NewLeaveChatController(uc *usecase.LeaveChatUseCase, hub *realtime.Hub, listChats *usecase.ListChatsUseCase) *LeaveChatController {
	return &LeaveChatController{UC: uc, Hub: hub, ListChats: listChats}
}

func (h *LeaveChatController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, err := strconv.ParseInt(c.Param("roomId"), 10, 64)
		if err != nil || roomID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomId must be a positive integer"})
			return
		}

		caller := currentUser(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := h.UC.Execute(ctx, usecase.LeaveChatInput{RoomID: roomID, UserID: caller}); err != nil {
			writeError(c, err)
			return
		}

		h.ListChats.Invalidate(ctx, caller)
		h.Hub.BroadcastAll(encodeRoomUpdated(roomUpdatedEvent{
			RoomID: roomID,
			Action: "leave",
			UserID: caller,
		}))

		c.JSON(http.StatusOK, gin.H{"success": true, "room_id": roomID})
	}
}
