package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kachat/internal/pkg/chat/persistence/repository/adapter"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

// TestRoomLifecycle walks a direct conversation through its whole life: the
// pair converges on one room, one side soft-leaves and keeps a frozen view,
// a new message brings the room back, both leave and the room is reclaimed,
// and a fresh conversation starts a brand-new room.
func TestRoomLifecycle(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	direct := NewCreateDirectChatUseCase(repo)
	send := NewSendMessageUseCase(repo, testLogger(), nil)
	leave := newLeaveUseCase(repo, nil)
	get := NewGetMessageUseCase(repo)

	// Alice starts a conversation with Bob.
	created, err := direct.Execute(ctx, CreateDirectChatInput{UserA: 1, UserB: 2})
	req.NoError(err)
	req.True(created.Created)
	roomID := created.Room.ID

	_, err = send.Execute(ctx, SendMessageInput{RoomID: roomID, SenderID: 1, Content: "hey"})
	req.NoError(err)
	time.Sleep(time.Millisecond)
	_, err = send.Execute(ctx, SendMessageInput{RoomID: roomID, SenderID: 2, Content: "hey back"})
	req.NoError(err)

	// Bob leaves. His list is empty, his history is frozen at two messages.
	time.Sleep(time.Millisecond)
	req.NoError(leave.Execute(ctx, LeaveChatInput{RoomID: roomID, UserID: 2}))

	bobRooms, err := repo.ListUserRooms(ctx, 2)
	req.NoError(err)
	req.Empty(bobRooms)

	bob := int64(2)
	frozen, err := get.Execute(ctx, GetMessageInput{RoomID: roomID, ViewerID: &bob, Limit: 10})
	req.NoError(err)
	req.Len(frozen, 2)

	// Alice writes again: Bob is revealed and sees the full history.
	time.Sleep(time.Millisecond)
	_, err = send.Execute(ctx, SendMessageInput{RoomID: roomID, SenderID: 1, Content: "still there?"})
	req.NoError(err)

	bobRooms, err = repo.ListUserRooms(ctx, 2)
	req.NoError(err)
	req.Len(bobRooms, 1)

	full, err := get.Execute(ctx, GetMessageInput{RoomID: roomID, ViewerID: &bob, Limit: 10})
	req.NoError(err)
	req.Len(full, 3)

	// Both leave: the room and its history are reclaimed.
	req.NoError(leave.Execute(ctx, LeaveChatInput{RoomID: roomID, UserID: 1}))
	req.NoError(leave.Execute(ctx, LeaveChatInput{RoomID: roomID, UserID: 2}))

	_, err = repo.GetRoom(ctx, roomID)
	req.ErrorIs(err, repository.ErrNotFound)

	// Starting over produces a fresh, empty room.
	recreated, err := direct.Execute(ctx, CreateDirectChatInput{UserA: 2, UserB: 1})
	req.NoError(err)
	req.True(recreated.Created)
	req.NotEqual(roomID, recreated.Room.ID)

	alice := int64(1)
	empty, err := get.Execute(ctx, GetMessageInput{RoomID: recreated.Room.ID, ViewerID: &alice, Limit: 10})
	req.NoError(err)
	req.Empty(empty)
}
