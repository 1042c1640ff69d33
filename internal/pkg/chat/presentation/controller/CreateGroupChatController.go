package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kachat/internal/infrastructure/realtime"
	"kachat/internal/pkg/chat/application/usecase"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

// CreateGroupChatController handles group room creation.
type CreateGroupChatController struct {
	UC        *usecase.CreateGroupChatUseCase
	Hub       *realtime.Hub
	ListChats *usecase.ListChatsUseCase
}

func NewCreateGroupChatController(repo repository.ChatRepository, hub *realtime.Hub, listChats *usecase.ListChatsUseCase) *CreateGroupChatController {
	return &CreateGroupChatController{
		UC:        usecase.NewCreateGroupChatUseCase(repo),
		Hub:       hub,
		ListChats: listChats,
	}
}

type createGroupChatRequest struct {
	RoomName  *string `json:"room_name"`
	MemberIDs []int64 `json:"member_ids"`
}

func (h *CreateGroupChatController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createGroupChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		caller := currentUser(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		room, err := h.UC.Execute(ctx, usecase.CreateGroupChatInput{
			CreatorID: caller,
			Name:      req.RoomName,
			MemberIDs: req.MemberIDs,
		})
		if err != nil {
			writeError(c, err)
			return
		}

		h.ListChats.Invalidate(ctx, append(req.MemberIDs, caller)...)
		h.Hub.BroadcastAll(encodeRoomUpdated(roomUpdatedEvent{
			RoomID: room.ID,
			Action: "created",
			UserID: caller,
		}))

		c.JSON(http.StatusCreated, gin.H{
			"room_id":    room.ID,
			"room_name":  room.Name,
			"created_at": room.CreatedAt,
		})
	}
}
