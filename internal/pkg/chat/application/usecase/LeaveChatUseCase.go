package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	chat "kachat/internal/pkg/chat/domain"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

// LeaveChatInput identifies the membership to soft-leave.
type LeaveChatInput struct {
	RoomID int64
	UserID int64
}

// LeaveChatUseCase hides a membership (soft leave) and then invokes the
// lifecycle reconciler on the room. The membership record survives so history
// is kept and the room can reappear on new activity.
type LeaveChatUseCase struct {
	Repo    repository.ChatRepository
	Reclaim *ReclaimRoomUseCase
	Log     *slog.Logger
	Retry   RetryScheduler
}

func NewLeaveChatUseCase(repo repository.ChatRepository, reclaim *ReclaimRoomUseCase, log *slog.Logger, retry RetryScheduler) *LeaveChatUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &LeaveChatUseCase{Repo: repo, Reclaim: reclaim, Log: log, Retry: retry}
}

// Execute transitions the membership to hidden and runs the reclaim check
// inside the same room-level critical section, so a concurrent append cannot
// slip its reveal between the two steps.
//
// Reconciler failures never fail the leave: they are logged and a retry task
// is scheduled so cleanup converges later.
func (uc *LeaveChatUseCase) Execute(ctx context.Context, in LeaveChatInput) error {
	if in.RoomID == 0 || in.UserID == 0 {
		return fmt.Errorf("room_id and user_id are required")
	}

	unlock := roomLocks.lock(roomKey(in.RoomID))
	defer unlock()

	if err := uc.Repo.SetHidden(ctx, in.RoomID, in.UserID, true); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return chat.ErrNotMember
		}
		return fmt.Errorf("%w: %v", ErrStore, err)
	}

	if _, err := uc.Reclaim.executeLocked(ctx, in.RoomID); err != nil {
		uc.Log.Warn("room reclaim after leave failed, scheduling retry",
			"room_id", in.RoomID, "user_id", in.UserID, "error", err)
		if uc.Retry != nil {
			uc.Retry.ScheduleReclaimRetry(ctx, in.RoomID)
		}
	}

	return nil
}
