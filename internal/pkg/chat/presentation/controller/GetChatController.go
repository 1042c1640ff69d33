package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"kachat/internal/pkg/chat/application/usecase"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

// GetChatController returns a single room's detail view: the room, its
// members and the latest message visible to the caller.
type GetChatController struct {
	UC *usecase.GetChatUseCase
}

func NewGetChatController(repo repository.ChatRepository) *GetChatController {
	return &GetChatController{UC: usecase.NewGetChatUseCase(repo)}
}

func (h *GetChatController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, err := strconv.ParseInt(c.Param("roomId"), 10, 64)
		if err != nil || roomID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomId must be a positive integer"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.GetChatInput{RoomID: roomID, ViewerID: currentUser(c)})
		if err != nil {
			writeError(c, err)
			return
		}

		body := gin.H{
			"room_id":    out.Room.ID,
			"room_name":  out.Room.Name,
			"created_at": out.Room.CreatedAt,
			"members":    toMemberViews(out.Members),
		}
		if out.LastMessage != nil {
			body["last_message"] = toMessagePayload(*out.LastMessage)
		}
		c.JSON(http.StatusOK, body)
	}
}
