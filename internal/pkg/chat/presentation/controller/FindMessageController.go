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

// FindMessageController fetches a single message by id, restricted to members
// of its room.
type FindMessageController struct {
	UC *usecase.FindMessageUseCase
}

func NewFindMessageController(repo repository.ChatRepository) *FindMessageController {
	return &FindMessageController{UC: usecase.NewFindMessageUseCase(repo)}
}

func (h *FindMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		messageID, err := strconv.ParseInt(c.Param("messageId"), 10, 64)
		if err != nil || messageID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "messageId must be a positive integer"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msg, err := h.UC.Execute(ctx, usecase.FindMessageInput{
			MessageID: messageID,
			ViewerID:  currentUser(c),
		})
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": toMessagePayload(*msg)})
	}
}
