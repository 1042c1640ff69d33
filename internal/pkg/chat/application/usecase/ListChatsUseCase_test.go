package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"kachat/internal/pkg/chat/persistence/repository/adapter"
)

func TestListChats_ExcludesHiddenRooms(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	visible, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)
	hidden, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 3})
	req.NoError(err)
	req.NoError(repo.SetHidden(ctx, hidden, 1, true))

	uc := NewListChatsUseCase(repo, nil, testLogger())
	rooms, err := uc.Execute(ctx, ListChatsInput{UserID: 1})
	req.NoError(err)
	req.Len(rooms, 1)
	req.Equal(visible, rooms[0].Room.ID)
	req.ElementsMatch([]int64{1, 2}, rooms[0].MemberIDs)
}

func TestListChats_IncludesLatestMessage(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	roomID, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)
	seedMessage(t, repo, roomID, 2, "older")
	latest := seedMessage(t, repo, roomID, 1, "newest")

	uc := NewListChatsUseCase(repo, nil, testLogger())
	rooms, err := uc.Execute(ctx, ListChatsInput{UserID: 2})
	req.NoError(err)
	req.Len(rooms, 1)
	req.NotNil(rooms[0].LastMessage)
	req.Equal(latest.ID, rooms[0].LastMessage.ID)
}

func TestListChats_CachedSnapshotUntilInvalidated(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()
	cache := newFakeCache()

	_, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)

	uc := NewListChatsUseCase(repo, cache, testLogger())

	rooms, err := uc.Execute(ctx, ListChatsInput{UserID: 1})
	req.NoError(err)
	req.Len(rooms, 1)

	// A mutation behind the cache's back is not visible yet.
	_, err = repo.CreateRoomWithMembers(ctx, nil, []int64{1, 3})
	req.NoError(err)

	rooms, err = uc.Execute(ctx, ListChatsInput{UserID: 1})
	req.NoError(err)
	req.Len(rooms, 1)

	// Invalidation forces a fresh snapshot.
	uc.Invalidate(ctx, 1)
	rooms, err = uc.Execute(ctx, ListChatsInput{UserID: 1})
	req.NoError(err)
	req.Len(rooms, 2)
}
