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

// LatestMessageController returns the newest message of a room the caller may
// see, or a null message for a room without visible history.
type LatestMessageController struct {
	UC *usecase.LatestMessageUseCase
}

func NewLatestMessageController(repo repository.ChatRepository) *LatestMessageController {
	return &LatestMessageController{UC: usecase.NewLatestMessageUseCase(repo)}
}

func (h *LatestMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, err := strconv.ParseInt(c.Param("roomId"), 10, 64)
		if err != nil || roomID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomId must be a positive integer"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msg, err := h.UC.Execute(ctx, usecase.LatestMessageInput{RoomID: roomID, ViewerID: currentUser(c)})
		if err != nil {
			writeError(c, err)
			return
		}

		if msg == nil {
			c.JSON(http.StatusOK, gin.H{"message": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": toMessagePayload(*msg)})
	}
}
