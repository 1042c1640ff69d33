package chat

import "time"

// Room is a container of members sharing one message history.
// Rooms are created on demand and deleted only by the lifecycle reconciler.
type Room struct {
	ID        int64     `db:"id"`
	Name      *string   `db:"room_name"`
	CreatedAt time.Time `db:"created_at"`
}

// RoomSummary is the per-viewer room listing projection: the room, its most
// recent message (nil for an empty room) and the current member ids.
type RoomSummary struct {
	Room        Room
	LastMessage *Message
	MemberIDs   []int64
}

// Reclaimable reports whether a room with the given members should be deleted:
// it has members and every one of them has left. An empty member slice means
// the room is already gone (or was never populated) and must be left alone.
func Reclaimable(members []Member) bool {
	if len(members) == 0 {
		return false
	}
	for _, m := range members {
		if !m.Hidden {
			return false
		}
	}
	return true
}
