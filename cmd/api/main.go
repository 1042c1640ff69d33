package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	authadapter "kachat/internal/infrastructure/auth/adapter"
	cacheadapter "kachat/internal/infrastructure/cache/adapter"
	cacheport "kachat/internal/infrastructure/cache/port"
	"kachat/internal/infrastructure/config"
	"kachat/internal/infrastructure/database"
	queueadapter "kachat/internal/infrastructure/queue/adapter"
	qport "kachat/internal/infrastructure/queue/port"
	"kachat/internal/infrastructure/realtime"
	"kachat/internal/pkg/chat/application/task"
	"kachat/internal/pkg/chat/application/usecase"
	"kachat/internal/pkg/chat/persistence/repository/adapter"
	v1 "kachat/cmd/api/router/v1"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		log.Warn(".env file not loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	pool, err := database.Connect(connectCtx, cfg.DBURL)
	cancel()
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Redis is optional. Without it the room-list cache and the retry queue
	// are disabled and every endpoint still works.
	var cache cacheport.Cache
	var queue qport.Client
	if cfg.RedisURL != "" {
		redisCache, err := cacheadapter.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Error("connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisCache.Close()
		cache = redisCache

		client, err := queueadapter.NewAsynqClient(cfg.RedisURL)
		if err != nil {
			log.Error("create queue client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		queue = client

		worker, err := queueadapter.NewAsynqServer(cfg.RedisURL, log)
		if err != nil {
			log.Error("create queue worker", "error", err)
			os.Exit(1)
		}
		repo := adapter.NewPgChatRepository(pool)
		task.RegisterRevealMembersTask(worker, repo, log)
		task.RegisterReclaimRoomTask(worker, usecase.NewReclaimRoomUseCase(repo, log), log)
		go func() {
			if err := worker.Run(ctx); err != nil {
				log.Error("queue worker stopped", "error", err)
			}
		}()
	} else {
		log.Warn("REDIS_URL not set, cache and retry queue disabled")
	}

	verifier, err := authadapter.NewJWTVerifier(cfg.JWTSecret)
	if err != nil {
		log.Error("create token verifier", "error", err)
		os.Exit(1)
	}

	hub := realtime.NewHub()

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	v1.RegisterRoutes(r, pool, hub, cache, queue, verifier, log)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info("listening", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}
}
