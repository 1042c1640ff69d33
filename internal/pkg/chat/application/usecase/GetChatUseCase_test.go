package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	chat "kachat/internal/pkg/chat/domain"
	"kachat/internal/pkg/chat/persistence/repository/adapter"
)

func TestGetChat_DetailWithMembersAndLastMessage(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	roomID, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2, 3})
	req.NoError(err)
	seedMessage(t, repo, roomID, 1, "older")
	latest := seedMessage(t, repo, roomID, 2, "newest")

	uc := NewGetChatUseCase(repo)
	out, err := uc.Execute(ctx, GetChatInput{RoomID: roomID, ViewerID: 1})
	req.NoError(err)
	req.Equal(roomID, out.Room.ID)
	req.Len(out.Members, 3)
	req.NotNil(out.LastMessage)
	req.Equal(latest.ID, out.LastMessage.ID)
}

func TestGetChat_EmptyRoomHasNoLastMessage(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	roomID, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)

	uc := NewGetChatUseCase(repo)
	out, err := uc.Execute(ctx, GetChatInput{RoomID: roomID, ViewerID: 1})
	req.NoError(err)
	req.Nil(out.LastMessage)
}

func TestGetChat_NonMemberRejected(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	roomID, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)

	uc := NewGetChatUseCase(repo)
	_, err = uc.Execute(ctx, GetChatInput{RoomID: roomID, ViewerID: 9})
	req.ErrorIs(err, chat.ErrNotMember)

	_, err = uc.Execute(ctx, GetChatInput{RoomID: 99, ViewerID: 1})
	req.ErrorIs(err, chat.ErrRoomNotFound)
}

func TestGetChat_HiddenViewerLastMessageFrozen(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	roomID, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)
	before := seedMessage(t, repo, roomID, 1, "before leave")

	req.NoError(repo.SetHidden(ctx, roomID, 2, true))
	time.Sleep(time.Millisecond)
	after := seedMessage(t, repo, roomID, 1, "after leave")

	uc := NewGetChatUseCase(repo)

	out, err := uc.Execute(ctx, GetChatInput{RoomID: roomID, ViewerID: 2})
	req.NoError(err)
	req.NotNil(out.LastMessage)
	req.Equal(before.ID, out.LastMessage.ID)

	out, err = uc.Execute(ctx, GetChatInput{RoomID: roomID, ViewerID: 1})
	req.NoError(err)
	req.Equal(after.ID, out.LastMessage.ID)
}

func TestLatestMessage_ViewerScoped(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	roomID, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)

	uc := NewLatestMessageUseCase(repo)

	msg, err := uc.Execute(ctx, LatestMessageInput{RoomID: roomID, ViewerID: 1})
	req.NoError(err)
	req.Nil(msg)

	frozen := seedMessage(t, repo, roomID, 1, "first")
	req.NoError(repo.SetHidden(ctx, roomID, 2, true))
	time.Sleep(time.Millisecond)
	newest := seedMessage(t, repo, roomID, 1, "second")

	msg, err = uc.Execute(ctx, LatestMessageInput{RoomID: roomID, ViewerID: 2})
	req.NoError(err)
	req.Equal(frozen.ID, msg.ID)

	msg, err = uc.Execute(ctx, LatestMessageInput{RoomID: roomID, ViewerID: 1})
	req.NoError(err)
	req.Equal(newest.ID, msg.ID)

	_, err = uc.Execute(ctx, LatestMessageInput{RoomID: roomID, ViewerID: 9})
	req.ErrorIs(err, chat.ErrNotMember)
}
