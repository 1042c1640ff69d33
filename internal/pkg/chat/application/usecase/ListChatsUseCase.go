package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	cacheport "kachat/internal/infrastructure/cache/port"
	chat "kachat/internal/pkg/chat/domain"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

const roomListTTL = 15 * time.Second

// ListChatsInput identifies the viewer whose room list is requested.
type ListChatsInput struct {
	UserID int64
}

// ListChatsUseCase returns the viewer's visible rooms with their latest
// message and member ids, newest room first. Snapshots are cached per user
// with a short TTL; a room hidden by soft-leave never appears.
//
// Staleness bound: other members of a mutated room may see a snapshot up to
// one TTL old. The chat_room_updated broadcast tells their clients to refetch,
// which matches the eventual-consistency contract of the live push path.
type ListChatsUseCase struct {
	Repo  repository.ChatRepository
	Cache cacheport.Cache // optional; nil disables caching
	Log   *slog.Logger
}

func NewListChatsUseCase(repo repository.ChatRepository, cache cacheport.Cache, log *slog.Logger) *ListChatsUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &ListChatsUseCase{Repo: repo, Cache: cache, Log: log}
}

func roomListKey(userID int64) string {
	return fmt.Sprintf("chat:rooms:%d", userID)
}

func (uc *ListChatsUseCase) Execute(ctx context.Context, in ListChatsInput) ([]chat.RoomSummary, error) {
	if in.UserID == 0 {
		return nil, fmt.Errorf("user_id is required")
	}

	key := roomListKey(in.UserID)
	if uc.Cache != nil {
		if raw, err := uc.Cache.Get(ctx, key); err == nil {
			var cached []chat.RoomSummary
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		} else if !errors.Is(err, cacheport.ErrMiss) {
			uc.Log.Warn("room list cache read failed", "user_id", in.UserID, "error", err)
		}
	}

	summaries, err := uc.Repo.ListUserRooms(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	if uc.Cache != nil {
		if raw, err := json.Marshal(summaries); err == nil {
			if err := uc.Cache.Set(ctx, key, string(raw), roomListTTL); err != nil {
				uc.Log.Warn("room list cache write failed", "user_id", in.UserID, "error", err)
			}
		}
	}
	return summaries, nil
}

// Invalidate drops cached snapshots for the given users. Called by controllers
// after room-affecting mutations; a cache failure only shortens freshness, so
// it is logged and ignored.
func (uc *ListChatsUseCase) Invalidate(ctx context.Context, userIDs ...int64) {
	if uc.Cache == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, roomListKey(id))
	}
	if _, err := uc.Cache.Del(ctx, keys...); err != nil {
		uc.Log.Warn("room list cache invalidation failed", "error", err)
	}
}
