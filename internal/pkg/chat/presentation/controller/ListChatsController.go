package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kachat/internal/pkg/chat/application/usecase"
	chat "kachat/internal/pkg/chat/domain"
)

// ListChatsController returns the caller's visible rooms with their latest
// message and participants.
type ListChatsController struct {
	UC *usecase.ListChatsUseCase
}

func NewListChatsController(uc *usecase.ListChatsUseCase) *ListChatsController {
	return &ListChatsController{UC: uc}
}

func (h *ListChatsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		summaries, err := h.UC.Execute(ctx, usecase.ListChatsInput{UserID: currentUser(c)})
		if err != nil {
			writeError(c, err)
			return
		}

		out := make([]gin.H, 0, len(summaries))
		for _, s := range summaries {
			entry := gin.H{
				"room_id":         s.Room.ID,
				"room_name":       s.Room.Name,
				"created_at":      s.Room.CreatedAt,
				"participant_ids": s.MemberIDs,
			}
			if s.LastMessage != nil {
				entry["last_message"] = toMessagePayload(*s.LastMessage)
			}
			out = append(out, entry)
		}

		c.JSON(http.StatusOK, gin.H{"chat_rooms": out, "count": len(out)})
	}
}

// memberView is the wire shape of a membership record.
type memberView struct {
	UserID   int64      `json:"user_id"`
	Hidden   bool       `json:"hidden"`
	LeftAt   *time.Time `json:"left_at,omitempty"`
	JoinedAt time.Time  `json:"joined_at"`
}

func toMemberViews(members []chat.Member) []memberView {
	out := make([]memberView, 0, len(members))
	for _, m := range members {
		out = append(out, memberView{
			UserID:   m.UserID,
			Hidden:   m.Hidden,
			LeftAt:   m.LeftAt,
			JoinedAt: m.JoinedAt,
		})
	}
	return out
}
