package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	chat "kachat/internal/pkg/chat/domain"
	"kachat/internal/pkg/chat/persistence/repository/adapter"
)

func TestCreateDirectChat_CreatesThenFinds(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()
	uc := NewCreateDirectChatUseCase(repo)

	first, err := uc.Execute(ctx, CreateDirectChatInput{UserA: 1, UserB: 2})
	req.NoError(err)
	req.True(first.Created)

	// Same pair in either order resolves to the same room.
	second, err := uc.Execute(ctx, CreateDirectChatInput{UserA: 2, UserB: 1})
	req.NoError(err)
	req.False(second.Created)
	req.Equal(first.Room.ID, second.Room.ID)
}

func TestCreateDirectChat_InvalidParticipants(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	uc := NewCreateDirectChatUseCase(adapter.NewMemChatRepository())

	_, err := uc.Execute(ctx, CreateDirectChatInput{UserA: 0, UserB: 2})
	req.ErrorIs(err, chat.ErrInvalidParticipants)

	_, err = uc.Execute(ctx, CreateDirectChatInput{UserA: 5, UserB: 5})
	req.ErrorIs(err, chat.ErrInvalidParticipants)
}

func TestCreateDirectChat_ConcurrentCallsConverge(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()
	uc := NewCreateDirectChatUseCase(repo)

	const callers = 8
	var created atomic.Int64
	roomIDs := make([]int64, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := CreateDirectChatInput{UserA: 1, UserB: 2}
			if i%2 == 1 {
				in = CreateDirectChatInput{UserA: 2, UserB: 1}
			}
			result, err := uc.Execute(ctx, in)
			if err != nil {
				t.Error(err)
				return
			}
			if result.Created {
				created.Add(1)
			}
			roomIDs[i] = result.Room.ID
		}(i)
	}
	wg.Wait()

	req.Equal(int64(1), created.Load())
	for i := 1; i < callers; i++ {
		req.Equal(roomIDs[0], roomIDs[i])
	}
}

func TestCreateDirectChat_HiddenPairStillSharesRoom(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := adapter.NewMemChatRepository()
	uc := NewCreateDirectChatUseCase(repo)

	first, err := uc.Execute(ctx, CreateDirectChatInput{UserA: 1, UserB: 2})
	req.NoError(err)

	leave := newLeaveUseCase(repo, nil)
	req.NoError(leave.Execute(ctx, LeaveChatInput{RoomID: first.Room.ID, UserID: 1}))

	// One participant soft-left; the pair still maps to the same room.
	again, err := uc.Execute(ctx, CreateDirectChatInput{UserA: 1, UserB: 2})
	req.NoError(err)
	req.False(again.Created)
	req.Equal(first.Room.ID, again.Room.ID)
}
