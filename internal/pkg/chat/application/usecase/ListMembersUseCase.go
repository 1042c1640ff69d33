package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "kachat/internal/pkg/chat/domain"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

// ListMembersInput wraps the room identifier to fetch its membership records.
type ListMembersInput struct {
	RoomID int64
}

// ListMembersUseCase returns every membership of the room, hidden ones
// included, in join order.
type ListMembersUseCase struct {
	Repo repository.ChatRepository
}

func NewListMembersUseCase(repo repository.ChatRepository) *ListMembersUseCase {
	return &ListMembersUseCase{Repo: repo}
}

func (uc *ListMembersUseCase) Execute(ctx context.Context, in ListMembersInput) ([]chat.Member, error) {
	if in.RoomID == 0 {
		return nil, fmt.Errorf("room_id is required")
	}

	if _, err := uc.Repo.GetRoom(ctx, in.RoomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, chat.ErrRoomNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	members, err := uc.Repo.GetMembers(ctx, in.RoomID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return members, nil
}
