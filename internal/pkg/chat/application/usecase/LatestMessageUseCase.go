package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "kachat/internal/pkg/chat/domain"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

// LatestMessageInput identifies a room and the member asking for its newest
// message.
type LatestMessageInput struct {
	RoomID   int64
	ViewerID int64
}

// LatestMessageUseCase returns the newest message of a room the viewer may
// see, or nil for a room with no visible history. A hidden viewer gets the
// newest message at or before their leave time.
type LatestMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewLatestMessageUseCase(repo repository.ChatRepository) *LatestMessageUseCase {
	return &LatestMessageUseCase{Repo: repo}
}

func (uc *LatestMessageUseCase) Execute(ctx context.Context, in LatestMessageInput) (*chat.Message, error) {
	if in.RoomID == 0 || in.ViewerID == 0 {
		return nil, fmt.Errorf("room_id and viewer_id are required")
	}

	if _, err := uc.Repo.GetRoom(ctx, in.RoomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, chat.ErrRoomNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	member, err := uc.Repo.GetMember(ctx, in.RoomID, in.ViewerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, chat.ErrNotMember
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	page, err := uc.Repo.ListMessages(ctx, in.RoomID, member.HistoryCutoff(), 1, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	if len(page) == 0 {
		return nil, nil
	}
	return &page[0], nil
}
