package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	chat "kachat/internal/pkg/chat/domain"
	"kachat/internal/pkg/chat/persistence/repository/adapter"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

func newLeaveUseCase(repo repository.ChatRepository, retry RetryScheduler) *LeaveChatUseCase {
	return NewLeaveChatUseCase(repo, NewReclaimRoomUseCase(repo, testLogger()), testLogger(), retry)
}

func TestLeaveChat_HidesMembershipAndKeepsRoom(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	roomID, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)

	uc := newLeaveUseCase(repo, nil)
	req.NoError(uc.Execute(ctx, LeaveChatInput{RoomID: roomID, UserID: 1}))

	member, err := repo.GetMember(ctx, roomID, 1)
	req.NoError(err)
	req.True(member.Hidden)
	req.NotNil(member.LeftAt)

	// The other member is still active, so the room survives.
	_, err = repo.GetRoom(ctx, roomID)
	req.NoError(err)
}

func TestLeaveChat_LastLeaverTriggersReclaim(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	roomID, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)

	send := NewSendMessageUseCase(repo, testLogger(), nil)
	_, err = send.Execute(ctx, SendMessageInput{RoomID: roomID, SenderID: 1, Content: "bye"})
	req.NoError(err)

	uc := newLeaveUseCase(repo, nil)
	req.NoError(uc.Execute(ctx, LeaveChatInput{RoomID: roomID, UserID: 1}))
	req.NoError(uc.Execute(ctx, LeaveChatInput{RoomID: roomID, UserID: 2}))

	// Room and history are gone.
	_, err = repo.GetRoom(ctx, roomID)
	req.ErrorIs(err, repository.ErrNotFound)
	msgs, err := repo.ListMessages(ctx, roomID, nil, 10, 0)
	req.NoError(err)
	req.Empty(msgs)
}

func TestLeaveChat_NotAMember(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	roomID, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)

	uc := newLeaveUseCase(repo, nil)
	err = uc.Execute(ctx, LeaveChatInput{RoomID: roomID, UserID: 7})
	req.ErrorIs(err, chat.ErrNotMember)
}

func TestLeaveChat_NewMessageBringsRoomBack(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()

	roomID, err := repo.CreateRoomWithMembers(ctx, nil, []int64{1, 2})
	req.NoError(err)

	leave := newLeaveUseCase(repo, nil)
	req.NoError(leave.Execute(ctx, LeaveChatInput{RoomID: roomID, UserID: 1}))

	rooms, err := repo.ListUserRooms(ctx, 1)
	req.NoError(err)
	req.Empty(rooms)

	send := NewSendMessageUseCase(repo, testLogger(), nil)
	_, err = send.Execute(ctx, SendMessageInput{RoomID: roomID, SenderID: 2, Content: "you there?"})
	req.NoError(err)

	rooms, err = repo.ListUserRooms(ctx, 1)
	req.NoError(err)
	req.Len(rooms, 1)
	req.Equal(roomID, rooms[0].Room.ID)
}

func TestLeaveChat_ReclaimFailureSchedulesRetry(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	mem := adapter.NewMemChatRepository()
	repo := &deleteFailRepo{MemChatRepository: mem}

	roomID, err := mem.CreateRoomWithMembers(ctx, nil, []int64{1})
	req.NoError(err)

	sched := &stubScheduler{}
	uc := newLeaveUseCase(repo, sched)

	// The leave itself succeeds even though the reclaim cannot delete.
	req.NoError(uc.Execute(ctx, LeaveChatInput{RoomID: roomID, UserID: 1}))

	member, err := mem.GetMember(ctx, roomID, 1)
	req.NoError(err)
	req.True(member.Hidden)
	req.Equal([]int64{roomID}, sched.reclaims)
}
