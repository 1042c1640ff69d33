package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	chat "kachat/internal/pkg/chat/domain"
	"kachat/internal/pkg/chat/persistence/repository/adapter"
)

func TestAddMembers_InsertsActiveMemberships(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	roomID, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)

	uc := NewAddMembersUseCase(repo)
	members, err := uc.Execute(ctx, AddMembersInput{RoomID: roomID, ActorID: 1, MemberIDs: []int64{3, 4}})
	req.NoError(err)
	req.Len(members, 4)

	added, err := repo.GetMember(ctx, roomID, 3)
	req.NoError(err)
	req.False(added.Hidden)
	req.Nil(added.LeftAt)

	// The room reappears in the new member's list immediately.
	rooms, err := repo.ListUserRooms(ctx, 3)
	req.NoError(err)
	req.Len(rooms, 1)
}

func TestAddMembers_ExistingMembershipsUntouched(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	roomID, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)
	req.NoError(repo.SetHidden(ctx, roomID, 2, true))

	uc := NewAddMembersUseCase(repo)
	members, err := uc.Execute(ctx, AddMembersInput{RoomID: roomID, ActorID: 1, MemberIDs: []int64{2, 3}})
	req.NoError(err)
	req.Len(members, 3)

	// Re-adding a hidden member does not reveal them; only a message does.
	hidden, err := repo.GetMember(ctx, roomID, 2)
	req.NoError(err)
	req.True(hidden.Hidden)
}

func TestAddMembers_ActorMustBeMember(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	roomID, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)

	uc := NewAddMembersUseCase(repo)
	_, err = uc.Execute(ctx, AddMembersInput{RoomID: roomID, ActorID: 9, MemberIDs: []int64{3}})
	req.ErrorIs(err, chat.ErrNotMember)
}

func TestAddMembers_UnknownRoom(t *testing.T) {
	req := require.New(t)
	uc := NewAddMembersUseCase(adapter.NewMemChatRepository())

	_, err := uc.Execute(context.Background(), AddMembersInput{RoomID: 99, ActorID: 1, MemberIDs: []int64{2}})
	req.ErrorIs(err, chat.ErrRoomNotFound)
}

func TestAddMembers_RequiresSomeoneToAdd(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	roomID, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)

	uc := NewAddMembersUseCase(repo)

	// Only zeros and the actor themself do not count.
	_, err = uc.Execute(ctx, AddMembersInput{RoomID: roomID, ActorID: 1, MemberIDs: []int64{0, 1}})
	req.Error(err)
}
