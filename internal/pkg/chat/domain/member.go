package chat

import "time"

// Member captures a user's belonging to a room, independent of any live
// connection. The (RoomID, UserID) pair is unique.
//
// Visibility lifecycle: an active member has Hidden=false and LeftAt=nil.
// Leaving flips to Hidden=true with LeftAt set; the record is never deleted
// by a leave, only by the room cascade. Any new message in the room reveals
// every hidden member again (Hidden=false, LeftAt=nil).
type Member struct {
	RoomID   int64      `db:"room_id"`
	UserID   int64      `db:"user_id"`
	Hidden   bool       `db:"hidden"`
	LeftAt   *time.Time `db:"left_at"`
	JoinedAt time.Time  `db:"joined_at"`
}

// HistoryCutoff returns the timestamp limiting what this member may read.
// A hidden member sees the room frozen as of their leave time; an active
// member has no cutoff (nil).
func (m Member) HistoryCutoff() *time.Time {
	if m.Hidden && m.LeftAt != nil {
		return m.LeftAt
	}
	return nil
}

// CanSee reports whether msg is visible to this member under the hidden
// cutoff rule: a message at time T is invisible to a viewer that left before T.
func (m Member) CanSee(msg Message) bool {
	cutoff := m.HistoryCutoff()
	if cutoff == nil {
		return true
	}
	return !msg.CreatedAt.After(*cutoff)
}
