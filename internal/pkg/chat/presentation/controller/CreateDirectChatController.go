package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kachat/internal/infrastructure/realtime"
	"kachat/internal/pkg/chat/application/usecase"
	chat "kachat/internal/pkg/chat/domain"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

// CreateDirectChatController handles the create-or-find direct room endpoint.
type CreateDirectChatController struct {
	UC        *usecase.CreateDirectChatUseCase
	Hub       *realtime.Hub
	ListChats *usecase.ListChatsUseCase
}

func NewCreateDirectChatController(repo repository.ChatRepository, hub *realtime.Hub, listChats *usecase.ListChatsUseCase) *CreateDirectChatController {
	return &CreateDirectChatController{
		UC:        usecase.NewCreateDirectChatUseCase(repo),
		Hub:       hub,
		ListChats: listChats,
	}
}

type createDirectChatRequest struct {
	ParticipantIDs []int64 `json:"participant_ids" binding:"required"`
}

// Handle returns 201 with the room when it was created, 200 when an existing
// direct room was found. Creation is announced to all sessions so both room
// lists refresh.
func (h *CreateDirectChatController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createDirectChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(req.ParticipantIDs) != 2 {
			writeError(c, chat.ErrInvalidParticipants)
			return
		}

		caller := currentUser(c)
		if req.ParticipantIDs[0] != caller && req.ParticipantIDs[1] != caller {
			c.JSON(http.StatusForbidden, gin.H{"error": "caller must be one of the participants"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		result, err := h.UC.Execute(ctx, usecase.CreateDirectChatInput{
			UserA: req.ParticipantIDs[0],
			UserB: req.ParticipantIDs[1],
		})
		if err != nil {
			writeError(c, err)
			return
		}

		if result.Created {
			h.ListChats.Invalidate(ctx, req.ParticipantIDs...)
			h.Hub.BroadcastAll(encodeRoomUpdated(roomUpdatedEvent{
				RoomID: result.Room.ID,
				Action: "created",
				UserID: caller,
			}))
		}

		status := http.StatusOK
		if result.Created {
			status = http.StatusCreated
		}
		c.JSON(status, gin.H{
			"room_id":    result.Room.ID,
			"room_name":  result.Room.Name,
			"created_at": result.Room.CreatedAt,
			"created":    result.Created,
		})
	}
}
