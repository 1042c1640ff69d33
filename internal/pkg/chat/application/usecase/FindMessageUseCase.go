package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "kachat/internal/pkg/chat/domain"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

// FindMessageInput identifies a single message and the member asking for it.
type FindMessageInput struct {
	MessageID int64
	ViewerID  int64
}

// FindMessageUseCase fetches one message by id, restricted to members of the
// room it belongs to.
type FindMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewFindMessageUseCase(repo repository.ChatRepository) *FindMessageUseCase {
	return &FindMessageUseCase{Repo: repo}
}

func (uc *FindMessageUseCase) Execute(ctx context.Context, in FindMessageInput) (*chat.Message, error) {
	if in.MessageID == 0 {
		return nil, fmt.Errorf("message_id is required")
	}

	msg, err := uc.Repo.GetMessage(ctx, in.MessageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, chat.ErrMessageNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	member, err := uc.Repo.GetMember(ctx, msg.RoomID, in.ViewerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, chat.ErrNotMember
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	if !member.CanSee(*msg) {
		return nil, chat.ErrMessageNotFound
	}
	return msg, nil
}
