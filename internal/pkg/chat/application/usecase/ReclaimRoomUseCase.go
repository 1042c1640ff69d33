package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	chat "kachat/internal/pkg/chat/domain"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

// ReclaimRoomUseCase deletes rooms that no visible member belongs to anymore.
// Deleting cascades to memberships and messages; a room someone is still
// active in, or a room with no memberships at all, is left untouched.
type ReclaimRoomUseCase struct {
	Repo repository.ChatRepository
	Log  *slog.Logger
}

func NewReclaimRoomUseCase(repo repository.ChatRepository, log *slog.Logger) *ReclaimRoomUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &ReclaimRoomUseCase{Repo: repo, Log: log}
}

// Execute serializes on the room and reclaims it if eligible. Returns whether
// the room was deleted.
func (uc *ReclaimRoomUseCase) Execute(ctx context.Context, roomID int64) (bool, error) {
	unlock := roomLocks.lock(roomKey(roomID))
	defer unlock()
	return uc.executeLocked(ctx, roomID)
}

// executeLocked runs the check under a room lock already held by the caller
// (LeaveChatUseCase invokes it inside its own critical section).
func (uc *ReclaimRoomUseCase) executeLocked(ctx context.Context, roomID int64) (bool, error) {
	members, err := uc.Repo.GetMembers(ctx, roomID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStore, err)
	}
	if !chat.Reclaimable(members) {
		return false, nil
	}

	if err := uc.Repo.DeleteRoom(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Someone else reclaimed it first.
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrStore, err)
	}

	uc.Log.Info("reclaimed room with no visible members", "room_id", roomID, "members", len(members))
	return true, nil
}
