package v1

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	authport "kachat/internal/infrastructure/auth/port"
	cacheport "kachat/internal/infrastructure/cache/port"
	qport "kachat/internal/infrastructure/queue/port"
	"kachat/internal/infrastructure/realtime"
	httpHandler "kachat/internal/pkg/chat/presentation/http"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1.
func RegisterRoutes(
	r *gin.Engine,
	pool *pgxpool.Pool,
	hub *realtime.Hub,
	cache cacheport.Cache,
	queue qport.Client,
	verifier authport.Verifier,
	log *slog.Logger,
) {
	v1 := r.Group("/api/v1")
	httpHandler.RegisterRoutes(v1, pool, hub, cache, queue, verifier, log)
}
