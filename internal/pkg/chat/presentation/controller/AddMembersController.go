package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"kachat/internal/infrastructure/realtime"
	"kachat/internal/pkg/chat/application/usecase"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

// AddMembersController handles adding users to an existing room.
type AddMembersController struct {
	UC        *usecase.AddMembersUseCase
	Hub       *realtime.Hub
	ListChats *usecase.ListChatsUseCase
}

func NewAddMembersController(repo repository.ChatRepository, hub *realtime.Hub, listChats *usecase.ListChatsUseCase) *AddMembersController {
	return &AddMembersController{
		UC:        usecase.NewAddMembersUseCase(repo),
		Hub:       hub,
		ListChats: listChats,
	}
}

type addMembersRequest struct {
	MemberIDs []int64 `json:"member_ids" binding:"required"`
}

func (h *AddMembersController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, err := strconv.ParseInt(c.Param("roomId"), 10, 64)
		if err != nil || roomID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomId must be a positive integer"})
			return
		}

		var req addMembersRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		caller := currentUser(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		members, err := h.UC.Execute(ctx, usecase.AddMembersInput{
			RoomID:    roomID,
			ActorID:   caller,
			MemberIDs: req.MemberIDs,
		})
		if err != nil {
			writeError(c, err)
			return
		}

		h.ListChats.Invalidate(ctx, append(req.MemberIDs, caller)...)
		h.Hub.BroadcastAll(encodeRoomUpdated(roomUpdatedEvent{
			RoomID: roomID,
			Action: "join",
			UserID: caller,
		}))

		c.JSON(http.StatusOK, gin.H{"room_id": roomID, "members": toMemberViews(members)})
	}
}
