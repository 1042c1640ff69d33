package repository

import (
	"context"
	"errors"
	"time"

	chat "kachat/internal/pkg/chat/domain"
)

// ErrNotFound is returned by adapters when the referenced room, member or
// message does not exist. Use cases map it to the matching domain error.
var ErrNotFound = errors.New("repository: not found")

// ChatRepository defines persistence operations for the chat domain.
// The relational store is the single source of truth; implementations rely on
// its row-level transactional guarantees and must be safe for concurrent use.
type ChatRepository interface {
	// CreateRoomWithMembers inserts a room and its initial member set in one
	// transaction. A partial room (some members missing) must never be observable.
	CreateRoomWithMembers(ctx context.Context, name *string, memberIDs []int64) (int64, error)

	// AddMembers inserts the given users into an existing room as one atomic
	// set-insertion. Existing memberships are left untouched.
	AddMembers(ctx context.Context, roomID int64, userIDs []int64) error

	GetRoom(ctx context.Context, roomID int64) (*chat.Room, error)
	GetMembers(ctx context.Context, roomID int64) ([]chat.Member, error)
	GetMember(ctx context.Context, roomID, userID int64) (*chat.Member, error)

	// SetHidden flips a membership's visibility. Hiding stamps left_at with the
	// store clock; unhiding clears it. ErrNotFound if no such membership.
	SetHidden(ctx context.Context, roomID, userID int64, hidden bool) error

	// RevealHiddenMembers makes every hidden membership of the room visible
	// again in a single statement, returning how many were revealed.
	RevealHiddenMembers(ctx context.Context, roomID int64) (int64, error)

	// FindDirectRoom returns the most recently created room whose member set is
	// exactly {userA, userB}, counted regardless of visibility, or nil.
	FindDirectRoom(ctx context.Context, userA, userB int64) (*chat.Room, error)

	// DeleteRoom removes the room, cascading to its memberships and messages.
	DeleteRoom(ctx context.Context, roomID int64) error

	// InsertMessage persists m with a store-assigned id and timestamp and
	// returns the stored row. The room must exist (enforced by FK).
	InsertMessage(ctx context.Context, m chat.Message) (*chat.Message, error)

	GetMessage(ctx context.Context, messageID int64) (*chat.Message, error)
	LatestMessage(ctx context.Context, roomID int64) (*chat.Message, error)

	// ListMessages returns a newest-first page. A non-nil before restricts the
	// page to messages created at or before that instant (the hidden-viewer
	// cutoff); ties on created_at are broken by id descending.
	ListMessages(ctx context.Context, roomID int64, before *time.Time, limit, offset int) ([]chat.Message, error)

	// ListUserRooms returns the rooms where userID has a visible membership,
	// each with its latest message and current member ids.
	ListUserRooms(ctx context.Context, userID int64) ([]chat.RoomSummary, error)
}
