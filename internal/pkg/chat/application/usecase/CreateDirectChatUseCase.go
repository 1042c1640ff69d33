package usecase

import (
	"context"
	"fmt"

	chat "kachat/internal/pkg/chat/domain"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

// CreateDirectChatInput carries the two participants of a 1:1 room.
type CreateDirectChatInput struct {
	UserA int64
	UserB int64
}

// CreateDirectChatResult distinguishes found-vs-created so callers can decide
// whether to announce a new room.
type CreateDirectChatResult struct {
	Room    *chat.Room
	Created bool
}

// CreateDirectChatUseCase finds the existing direct room for a user pair or
// atomically creates one with both memberships active. Visibility is ignored
// when matching: a pair that soft-left their room still shares it.
type CreateDirectChatUseCase struct {
	Repo repository.ChatRepository
}

func NewCreateDirectChatUseCase(repo repository.ChatRepository) *CreateDirectChatUseCase {
	return &CreateDirectChatUseCase{Repo: repo}
}

// Execute serializes the whole find-then-maybe-create sequence on the sorted
// pair, so two users racing to start the same conversation converge on one
// room.
func (uc *CreateDirectChatUseCase) Execute(ctx context.Context, in CreateDirectChatInput) (*CreateDirectChatResult, error) {
	if in.UserA == 0 || in.UserB == 0 || in.UserA == in.UserB {
		return nil, chat.ErrInvalidParticipants
	}

	unlock := pairLocks.lock(pairKey(in.UserA, in.UserB))
	defer unlock()

	room, err := uc.Repo.FindDirectRoom(ctx, in.UserA, in.UserB)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	if room != nil {
		return &CreateDirectChatResult{Room: room, Created: false}, nil
	}

	roomID, err := uc.Repo.CreateRoomWithMembers(ctx, nil, []int64{in.UserA, in.UserB})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	room, err = uc.Repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return &CreateDirectChatResult{Room: room, Created: true}, nil
}
