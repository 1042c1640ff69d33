package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	chat "kachat/internal/pkg/chat/domain"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

// RetryScheduler enqueues deferred retries for the mutation steps that are
// allowed to fail without failing their parent operation but must eventually
// converge. Implemented on top of the task queue; a nil scheduler disables
// retries (tests, degraded mode without Redis).
type RetryScheduler interface {
	ScheduleRevealRetry(ctx context.Context, roomID int64)
	ScheduleReclaimRetry(ctx context.Context, roomID int64)
}

// SendMessageInput carries the data needed to append a message to a room.
type SendMessageInput struct {
	RoomID   int64
	SenderID int64
	Type     chat.MessageType
	Content  string

	// FanOut, when set, is invoked with the final result while the room's
	// critical section is still held. Live deliveries for one room then follow
	// append order; a caller that dispatched only after Execute returned could
	// publish two concurrent appends inverted.
	FanOut func(SendMessageResult)
}

// SendMessageResult is the persisted message plus a flag telling the caller
// that the reveal pass did not complete and has been scheduled for retry.
type SendMessageResult struct {
	Message       *chat.Message
	RevealPending bool
}

// SendMessageUseCase appends a message to a room's history and reveals every
// hidden membership of that room, so the room reappears in the lists of users
// who had soft-left it.
type SendMessageUseCase struct {
	Repo  repository.ChatRepository
	Log   *slog.Logger
	Retry RetryScheduler
}

func NewSendMessageUseCase(repo repository.ChatRepository, log *slog.Logger, retry RetryScheduler) *SendMessageUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &SendMessageUseCase{Repo: repo, Log: log, Retry: retry}
}

// Execute persists the message and runs the reveal pass. The whole sequence is
// serialized per room so concurrent appends and membership transitions on the
// same room cannot interleave; FanOut runs inside the same critical section.
//
// The message's durability takes priority over visibility bookkeeping: if the
// reveal pass fails after a successful insert, the append is not rolled back.
// The failure is logged, a retry task is scheduled and the result carries
// RevealPending so the transport can surface a partial-success warning.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*SendMessageResult, error) {
	if in.RoomID == 0 || in.SenderID == 0 {
		return nil, fmt.Errorf("room_id and sender_id are required")
	}

	draft, err := chat.NewMessage(in.RoomID, in.SenderID, in.Type, in.Content)
	if err != nil {
		return nil, err
	}

	unlock := roomLocks.lock(roomKey(in.RoomID))
	defer unlock()

	if _, err := uc.Repo.GetRoom(ctx, in.RoomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, chat.ErrRoomNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	if _, err := uc.Repo.GetMember(ctx, in.RoomID, in.SenderID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, chat.ErrNotMember
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	msg, err := uc.Repo.InsertMessage(ctx, *draft)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, chat.ErrRoomNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	result := &SendMessageResult{Message: msg}

	if _, err := uc.Repo.RevealHiddenMembers(ctx, in.RoomID); err != nil {
		uc.Log.Warn("reveal after append failed, scheduling retry",
			"room_id", in.RoomID, "message_id", msg.ID, "error", err)
		if uc.Retry != nil {
			uc.Retry.ScheduleRevealRetry(ctx, in.RoomID)
		}
		result.RevealPending = true
	}

	if in.FanOut != nil {
		in.FanOut(*result)
	}

	return result, nil
}
