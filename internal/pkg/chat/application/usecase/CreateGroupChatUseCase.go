package usecase

import (
	"context"
	"fmt"

	chat "kachat/internal/pkg/chat/domain"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

// CreateGroupChatInput carries the creator, optional display name and the
// additional members of a group room.
type CreateGroupChatInput struct {
	CreatorID int64
	Name      *string
	MemberIDs []int64
}

// CreateGroupChatUseCase creates a group room with the creator and all listed
// members in a single atomic set-insertion, so a partially populated room is
// never observable.
type CreateGroupChatUseCase struct {
	Repo repository.ChatRepository
}

func NewCreateGroupChatUseCase(repo repository.ChatRepository) *CreateGroupChatUseCase {
	return &CreateGroupChatUseCase{Repo: repo}
}

func (uc *CreateGroupChatUseCase) Execute(ctx context.Context, in CreateGroupChatInput) (*chat.Room, error) {
	if in.CreatorID == 0 {
		return nil, fmt.Errorf("creator_id is required")
	}

	ids := make([]int64, 0, len(in.MemberIDs)+1)
	seen := map[int64]struct{}{in.CreatorID: {}}
	ids = append(ids, in.CreatorID)
	for _, uid := range in.MemberIDs {
		if uid == 0 {
			continue
		}
		if _, dup := seen[uid]; dup {
			continue
		}
		seen[uid] = struct{}{}
		ids = append(ids, uid)
	}

	roomID, err := uc.Repo.CreateRoomWithMembers(ctx, in.Name, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	room, err := uc.Repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return room, nil
}
