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

// ListMembersController returns the membership records of a room.
type ListMembersController struct {
	UC *usecase.ListMembersUseCase
}

func NewListMembersController(repo repository.ChatRepository) *ListMembersController {
	return &ListMembersController{UC: usecase.NewListMembersUseCase(repo)}
}

func (h *ListMembersController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, err := strconv.ParseInt(c.Param("roomId"), 10, 64)
		if err != nil || roomID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomId must be a positive integer"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		members, err := h.UC.Execute(ctx, usecase.ListMembersInput{RoomID: roomID})
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"members": toMemberViews(members)})
	}
}
