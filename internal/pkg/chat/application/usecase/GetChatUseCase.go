package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "kachat/internal/pkg/chat/domain"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

// GetChatInput identifies a room and the member asking for its detail view.
type GetChatInput struct {
	RoomID   int64
	ViewerID int64
}

// GetChatOutput is the room detail projection: the room, every membership and
// the latest message the viewer may see.
type GetChatOutput struct {
	Room        chat.Room
	Members     []chat.Member
	LastMessage *chat.Message
}

// GetChatUseCase returns a single room with its members and latest visible
// message, restricted to members. A hidden viewer's latest message respects
// their frozen cutoff.
type GetChatUseCase struct {
	Repo repository.ChatRepository
}

func NewGetChatUseCase(repo repository.ChatRepository) *GetChatUseCase {
	return &GetChatUseCase{Repo: repo}
}

func (uc *GetChatUseCase) Execute(ctx context.Context, in GetChatInput) (*GetChatOutput, error) {
	if in.RoomID == 0 || in.ViewerID == 0 {
		return nil, fmt.Errorf("room_id and viewer_id are required")
	}

	room, err := uc.Repo.GetRoom(ctx, in.RoomID)
	if err != nil {
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

	members, err := uc.Repo.GetMembers(ctx, in.RoomID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	latest, err := uc.Repo.ListMessages(ctx, in.RoomID, member.HistoryCutoff(), 1, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	out := &GetChatOutput{Room: *room, Members: members}
	if len(latest) > 0 {
		out.LastMessage = &latest[0]
	}
	return out, nil
}
