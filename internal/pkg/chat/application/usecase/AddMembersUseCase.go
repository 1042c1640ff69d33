package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "kachat/internal/pkg/chat/domain"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

// AddMembersInput carries the acting member and the users to insert into a
// room.
type AddMembersInput struct {
	RoomID    int64
	ActorID   int64
	MemberIDs []int64
}

// AddMembersUseCase inserts new ACTIVE memberships into an existing room as
// one atomic set-insertion. The actor must already belong to the room; users
// who are members already are left untouched.
type AddMembersUseCase struct {
	Repo repository.ChatRepository
}

func NewAddMembersUseCase(repo repository.ChatRepository) *AddMembersUseCase {
	return &AddMembersUseCase{Repo: repo}
}

// Execute runs under the room lock so an insertion cannot interleave with a
// concurrent leave-and-reclaim deleting the room mid-add. Returns the room's
// full membership after the insertion.
func (uc *AddMembersUseCase) Execute(ctx context.Context, in AddMembersInput) ([]chat.Member, error) {
	if in.RoomID == 0 || in.ActorID == 0 {
		return nil, fmt.Errorf("room_id and actor_id are required")
	}

	ids := make([]int64, 0, len(in.MemberIDs))
	seen := map[int64]struct{}{in.ActorID: {}}
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
	if len(ids) == 0 {
		return nil, fmt.Errorf("member_ids must name at least one other user")
	}

	unlock := roomLocks.lock(roomKey(in.RoomID))
	defer unlock()

	if _, err := uc.Repo.GetRoom(ctx, in.RoomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, chat.ErrRoomNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	if _, err := uc.Repo.GetMember(ctx, in.RoomID, in.ActorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, chat.ErrNotMember
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	if err := uc.Repo.AddMembers(ctx, in.RoomID, ids); err != nil {
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
