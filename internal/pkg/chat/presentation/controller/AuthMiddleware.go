package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authport "kachat/internal/infrastructure/auth/port"
)

// Context keys set by the auth middleware for downstream handlers.
const (
	ctxUserID = "auth.user_id"
	ctxHandle = "auth.handle"
)

// AuthMiddleware verifies the Bearer token on every request and refuses
// unauthenticated ones before any handler runs.
func AuthMiddleware(verifier authport.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ctxUserID, identity.UserID)
		c.Set(ctxHandle, identity.Handle)
		c.Next()
	}
}

// currentUser returns the authenticated user id stored by AuthMiddleware.
func currentUser(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}
