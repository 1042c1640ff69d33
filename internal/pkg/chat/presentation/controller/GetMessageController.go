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

// GetMessageController returns a history page of a room, newest first, scoped
// to what the caller may see. Clients reverse the page for chronological
// display.
type GetMessageController struct {
	UC *usecase.GetMessageUseCase
}

func NewGetMessageController(repo repository.ChatRepository) *GetMessageController {
	return &GetMessageController{UC: usecase.NewGetMessageUseCase(repo)}
}

func (h *GetMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, err := strconv.ParseInt(c.Param("roomId"), 10, 64)
		if err != nil || roomID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomId must be a positive integer"})
			return
		}

		limit := 50
		offset := 0
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		if v := c.Query("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		viewer := currentUser(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.UC.Execute(ctx, usecase.GetMessageInput{
			RoomID:   roomID,
			ViewerID: &viewer,
			Limit:    limit,
			Offset:   offset,
		})
		if err != nil {
			writeError(c, err)
			return
		}

		out := make([]messagePayload, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, toMessagePayload(m))
		}
		c.JSON(http.StatusOK, gin.H{
			"messages": out,
			"limit":    limit,
			"offset":   offset,
			"count":    len(out),
		})
	}
}
