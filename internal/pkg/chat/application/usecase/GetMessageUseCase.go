package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	chat "kachat/internal/pkg/chat/domain"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

// GetMessageInput carries parameters to fetch a history page of a room.
// ViewerID scopes the page to what that member may see; nil skips the
// membership check and the hidden cutoff and is for administrative use only.
type GetMessageInput struct {
	RoomID   int64
	ViewerID *int64
	Limit    int
	Offset   int
}

// GetMessageUseCase returns a newest-first history page. Callers reverse it
// for chronological display. A hidden viewer gets the room frozen as of their
// leave time.
type GetMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewGetMessageUseCase(repo repository.ChatRepository) *GetMessageUseCase {
	return &GetMessageUseCase{Repo: repo}
}

func (uc *GetMessageUseCase) Execute(ctx context.Context, in GetMessageInput) ([]chat.Message, error) {
	if in.RoomID == 0 {
		return nil, fmt.Errorf("room_id is required")
	}

	if _, err := uc.Repo.GetRoom(ctx, in.RoomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, chat.ErrRoomNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	var cutoff *time.Time
	if in.ViewerID != nil {
		member, err := uc.Repo.GetMember(ctx, in.RoomID, *in.ViewerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, chat.ErrNotMember
			}
			return nil, fmt.Errorf("%w: %v", ErrStore, err)
		}
		cutoff = member.HistoryCutoff()
	}

	msgs, err := uc.Repo.ListMessages(ctx, in.RoomID, cutoff, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return msgs, nil
}
