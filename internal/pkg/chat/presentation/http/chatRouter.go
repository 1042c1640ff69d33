package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	authport "kachat/internal/infrastructure/auth/port"
	cacheport "kachat/internal/infrastructure/cache/port"
	qport "kachat/internal/infrastructure/queue/port"
	"kachat/internal/infrastructure/realtime"
	"kachat/internal/pkg/chat/application/task"
	"kachat/internal/pkg/chat/application/usecase"
	"kachat/internal/pkg/chat/persistence/repository/adapter"
	"kachat/internal/pkg/chat/presentation/controller"
)

// RegisterRoutes registers chat-related HTTP endpoints under the given router
// group. It constructs per-endpoint controllers and binds them directly to
// routes. cache and queue may be nil; the affected features degrade gracefully.
func RegisterRoutes(
	g *gin.RouterGroup,
	pool *pgxpool.Pool,
	hub *realtime.Hub,
	cache cacheport.Cache,
	queue qport.Client,
	verifier authport.Verifier,
	log *slog.Logger,
) {
	repo := adapter.NewPgChatRepository(pool)

	var retry usecase.RetryScheduler
	if queue != nil {
		retry = task.NewScheduler(queue, log)
	}

	listChats := usecase.NewListChatsUseCase(repo, cache, log)
	reclaim := usecase.NewReclaimRoomUseCase(repo, log)
	leave := usecase.NewLeaveChatUseCase(repo, reclaim, log, retry)
	send := usecase.NewSendMessageUseCase(repo, log, retry)
	join := usecase.NewJoinChatUseCase(repo)

	createDirectCtl := controller.NewCreateDirectChatController(repo, hub, listChats)
	createGroupCtl := controller.NewCreateGroupChatController(repo, hub, listChats)
	listChatsCtl := controller.NewListChatsController(listChats)
	getChatCtl := controller.NewGetChatController(repo)
	listMembersCtl := controller.NewListMembersController(repo)
	addMembersCtl := controller.NewAddMembersController(repo, hub, listChats)
	latestMsgCtl := controller.NewLatestMessageController(repo)
	leaveCtl := controller.NewLeaveChatController(leave, hub, listChats)
	getMsgCtl := controller.NewGetMessageController(repo)
	findMsgCtl := controller.NewFindMessageController(repo)
	sendMsgCtl := controller.NewSendMessageController(send, hub, listChats)
	socketCtl := controller.NewChatSocketController(verifier, hub, join, send, listChats, log)

	// The websocket endpoint authenticates its own handshake; everything else
	// goes through the bearer middleware.
	g.GET("/chat/ws", socketCtl.Handle())

	authed := g.Group("", controller.AuthMiddleware(verifier))

	// POST /api/v1/chat-rooms/direct -> find or create a two-person room
	authed.POST("/chat-rooms/direct", createDirectCtl.Handle())

	// POST /api/v1/chat-rooms -> create a group room
	authed.POST("/chat-rooms", createGroupCtl.Handle())

	// GET /api/v1/chat-rooms -> the caller's visible rooms
	authed.GET("/chat-rooms", listChatsCtl.Handle())

	// GET /api/v1/chat-rooms/:roomId -> room detail with members + last message
	authed.GET("/chat-rooms/:roomId", getChatCtl.Handle())

	// GET /api/v1/chat-rooms/:roomId/members -> membership records of a room
	authed.GET("/chat-rooms/:roomId/members", listMembersCtl.Handle())

	// POST /api/v1/chat-rooms/:roomId/members -> add users to a room
	authed.POST("/chat-rooms/:roomId/members", addMembersCtl.Handle())

	// POST /api/v1/chat-rooms/:roomId/leave -> soft-leave a room
	authed.POST("/chat-rooms/:roomId/leave", leaveCtl.Handle())

	// GET /api/v1/messages/room/:roomId -> history page, newest first
	authed.GET("/messages/room/:roomId", getMsgCtl.Handle())

	// GET /api/v1/messages/room/:roomId/latest -> newest visible message
	authed.GET("/messages/room/:roomId/latest", latestMsgCtl.Handle())

	// GET /api/v1/messages/:messageId -> a single message
	authed.GET("/messages/:messageId", findMsgCtl.Handle())

	// POST /api/v1/messages/send -> send without a live socket
	authed.POST("/messages/send", sendMsgCtl.Handle())
}
