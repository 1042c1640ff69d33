package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	chat "kachat/internal/pkg/chat/domain"
	"kachat/internal/pkg/chat/persistence/repository/adapter"
)

func seedMessage(t *testing.T, repo *adapter.MemChatRepository, roomID, senderID int64, content string) chat.Message {
	t.Helper()
	draft, err := chat.NewMessage(roomID, senderID, chat.MessageTypeText, content)
	require.NoError(t, err)
	msg, err := repo.InsertMessage(context.Background(), *draft)
	require.NoError(t, err)
	// Keep store timestamps strictly increasing across seeds.
	time.Sleep(time.Millisecond)
	return *msg
}

func TestGetMessage_NewestFirstPagination(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	roomID, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)
	m1 := seedMessage(t, repo, roomID, 1, "first")
	m2 := seedMessage(t, repo, roomID, 2, "second")
	m3 := seedMessage(t, repo, roomID, 1, "third")

	viewer := int64(1)
	uc := NewGetMessageUseCase(repo)

	page, err := uc.Execute(ctx, GetMessageInput{RoomID: roomID, ViewerID: &viewer, Limit: 2})
	req.NoError(err)
	req.Len(page, 2)
	req.Equal(m3.ID, page[0].ID)
	req.Equal(m2.ID, page[1].ID)

	page, err = uc.Execute(ctx, GetMessageInput{RoomID: roomID, ViewerID: &viewer, Limit: 2, Offset: 2})
	req.NoError(err)
	req.Len(page, 1)
	req.Equal(m1.ID, page[0].ID)
}

func TestGetMessage_HiddenViewerSeesFrozenHistory(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	roomID, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)
	m1 := seedMessage(t, repo, roomID, 1, "before leave")

	req.NoError(repo.SetHidden(ctx, roomID, 2, true))
	time.Sleep(time.Millisecond)
	seedMessage(t, repo, roomID, 1, "after leave")

	uc := NewGetMessageUseCase(repo)

	hidden := int64(2)
	page, err := uc.Execute(ctx, GetMessageInput{RoomID: roomID, ViewerID: &hidden, Limit: 10})
	req.NoError(err)
	req.Len(page, 1)
	req.Equal(m1.ID, page[0].ID)

	// The active member sees everything.
	active := int64(1)
	page, err = uc.Execute(ctx, GetMessageInput{RoomID: roomID, ViewerID: &active, Limit: 10})
	req.NoError(err)
	req.Len(page, 2)
}

func TestGetMessage_NonMemberRejected(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	roomID, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)

	outsider := int64(9)
	uc := NewGetMessageUseCase(repo)
	_, err = uc.Execute(ctx, GetMessageInput{RoomID: roomID, ViewerID: &outsider, Limit: 10})
	req.ErrorIs(err, chat.ErrNotMember)
}

func TestGetMessage_NilViewerIsUnscoped(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	roomID, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)
	seedMessage(t, repo, roomID, 1, "one")
	seedMessage(t, repo, roomID, 2, "two")

	uc := NewGetMessageUseCase(repo)
	page, err := uc.Execute(ctx, GetMessageInput{RoomID: roomID, Limit: 10})
	req.NoError(err)
	req.Len(page, 2)
}

func TestFindMessage_MemberScoping(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	roomID, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)
	m1 := seedMessage(t, repo, roomID, 1, "hello")

	uc := NewFindMessageUseCase(repo)

	msg, err := uc.Execute(ctx, FindMessageInput{MessageID: m1.ID, ViewerID: 2})
	req.NoError(err)
	req.Equal("hello", msg.Content)

	_, err = uc.Execute(ctx, FindMessageInput{MessageID: m1.ID, ViewerID: 9})
	req.ErrorIs(err, chat.ErrNotMember)

	_, err = uc.Execute(ctx, FindMessageInput{MessageID: 12345, ViewerID: 2})
	req.ErrorIs(err, chat.ErrMessageNotFound)
}

func TestFindMessage_HiddenViewerCannotSeeNewerMessage(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	roomID, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)
	req.NoError(repo.SetHidden(ctx, roomID, 2, true))
	time.Sleep(time.Millisecond)
	newer := seedMessage(t, repo, roomID, 1, "you cannot see this yet")

	uc := NewFindMessageUseCase(repo)
	_, err = uc.Execute(ctx, FindMessageInput{MessageID: newer.ID, ViewerID: 2})
	req.ErrorIs(err, chat.ErrMessageNotFound)
}
