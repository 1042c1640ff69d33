package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kachat/internal/pkg/chat/application/usecase"
	chat "kachat/internal/pkg/chat/domain"
)

// writeError maps use case failures onto the HTTP taxonomy. Client-facing
// domain errors are specific and never retried; store failures collapse to
// an opaque 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrNotMember):
		c.JSON(http.StatusForbidden, gin.H{"error": "user is not a member of this room"})
	case errors.Is(err, chat.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "chat room not found"})
	case errors.Is(err, chat.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
	case errors.Is(err, chat.ErrInvalidParticipants):
		c.JSON(http.StatusBadRequest, gin.H{"error": "a direct room requires exactly two distinct participants"})
	case errors.Is(err, usecase.ErrStore):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected persistence error"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
