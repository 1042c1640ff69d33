package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "kachat/internal/pkg/chat/domain"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

// JoinChatInput validates a request to subscribe a live session to a room.
type JoinChatInput struct {
	RoomID int64
	UserID int64
}

// JoinChatUseCase ensures the user belongs to the room before the hub adds a
// subscription. It never mutates memberships: subscribing a live feed and
// belonging to a room are independent lifecycles.
type JoinChatUseCase struct {
	Repo repository.ChatRepository
}

func NewJoinChatUseCase(repo repository.ChatRepository) *JoinChatUseCase {
	return &JoinChatUseCase{Repo: repo}
}

func (uc *JoinChatUseCase) Execute(ctx context.Context, in JoinChatInput) error {
	if in.RoomID == 0 || in.UserID == 0 {
		return fmt.Errorf("room_id and user_id are required")
	}

	if _, err := uc.Repo.GetRoom(ctx, in.RoomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return chat.ErrRoomNotFound
		}
		return fmt.Errorf("%w: %v", ErrStore, err)
	}

	if _, err := uc.Repo.GetMember(ctx, in.RoomID, in.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return chat.ErrNotMember
		}
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}
