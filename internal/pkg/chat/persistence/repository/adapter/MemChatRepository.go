package adapter

import (
	"context"
	"sort"
	"sync"
	"time"

	chat "kachat/internal/pkg/chat/domain"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

// MemChatRepository is an in-memory ChatRepository used by tests and local
// development. It mirrors the Postgres adapter's semantics: store-assigned ids
// and timestamps, cascade deletes, single-pass reveal.
type MemChatRepository struct {
	mu sync.Mutex

	nextRoomID int64
	nextMsgID  int64

	rooms    map[int64]chat.Room
	members  map[int64][]chat.Member // roomID -> members in join order
	messages map[int64][]chat.Message
}

func NewMemChatRepository() *MemChatRepository {
	return &MemChatRepository{
		rooms:    make(map[int64]chat.Room),
		members:  make(map[int64][]chat.Member),
		messages: make(map[int64][]chat.Message),
	}
}

var _ repository.ChatRepository = (*MemChatRepository)(nil)

func (r *MemChatRepository) CreateRoomWithMembers(_ context.Context, name *string, memberIDs []int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextRoomID++
	id := r.nextRoomID
	now := time.Now()
	r.rooms[id] = chat.Room{ID: id, Name: name, CreatedAt: now}
	r.addMembersLocked(id, memberIDs, now)
	return id, nil
}

func (r *MemChatRepository) AddMembers(_ context.Context, roomID int64, userIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[roomID]; !ok {
		return repository.ErrNotFound
	}
	r.addMembersLocked(roomID, userIDs, time.Now())
	return nil
}

func (r *MemChatRepository) addMembersLocked(roomID int64, userIDs []int64, now time.Time) {
	for _, uid := range userIDs {
		exists := false
		for _, m := range r.members[roomID] {
			if m.UserID == uid {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		r.members[roomID] = append(r.members[roomID], chat.Member{
			RoomID:   roomID,
			UserID:   uid,
			JoinedAt: now,
		})
	}
}

func (r *MemChatRepository) GetRoom(_ context.Context, roomID int64) (*chat.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &room, nil
}

func (r *MemChatRepository) GetMembers(_ context.Context, roomID int64) ([]chat.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := make([]chat.Member, len(r.members[roomID]))
	copy(members, r.members[roomID])
	return members, nil
}

func (r *MemChatRepository) GetMember(_ context.Context, roomID, userID int64) (*chat.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.members[roomID] {
		if m.UserID == userID {
			member := m
			return &member, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *MemChatRepository) SetHidden(_ context.Context, roomID, userID int64, hidden bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.members[roomID]
	for i := range members {
		if members[i].UserID != userID {
			continue
		}
		members[i].Hidden = hidden
		if hidden {
			now := time.Now()
			members[i].LeftAt = &now
		} else {
			members[i].LeftAt = nil
		}
		return nil
	}
	return repository.ErrNotFound
}

func (r *MemChatRepository) RevealHiddenMembers(_ context.Context, roomID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var revealed int64
	members := r.members[roomID]
	for i := range members {
		if members[i].Hidden {
			members[i].Hidden = false
			members[i].LeftAt = nil
			revealed++
		}
	}
	return revealed, nil
}

func (r *MemChatRepository) FindDirectRoom(_ context.Context, userA, userB int64) (*chat.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best *chat.Room
	for roomID, members := range r.members {
		if len(members) != 2 {
			continue
		}
		a := members[0].UserID
		b := members[1].UserID
		if (a == userA && b == userB) || (a == userB && b == userA) {
			room := r.rooms[roomID]
			if best == nil || room.CreatedAt.After(best.CreatedAt) ||
				(room.CreatedAt.Equal(best.CreatedAt) && room.ID > best.ID) {
				match := room
				best = &match
			}
		}
	}
	return best, nil
}

func (r *MemChatRepository) DeleteRoom(_ context.Context, roomID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[roomID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rooms, roomID)
	delete(r.members, roomID)
	delete(r.messages, roomID)
	return nil
}

func (r *MemChatRepository) InsertMessage(_ context.Context, m chat.Message) (*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[m.RoomID]; !ok {
		return nil, repository.ErrNotFound
	}
	r.nextMsgID++
	m.ID = r.nextMsgID
	m.CreatedAt = time.Now()
	r.messages[m.RoomID] = append(r.messages[m.RoomID], m)
	return &m, nil
}

func (r *MemChatRepository) GetMessage(_ context.Context, messageID int64) (*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, msgs := range r.messages {
		for _, m := range msgs {
			if m.ID == messageID {
				msg := m
				return &msg, nil
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (r *MemChatRepository) LatestMessage(_ context.Context, roomID int64) (*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgs := r.messages[roomID]
	if len(msgs) == 0 {
		return nil, nil
	}
	last := msgs[len(msgs)-1]
	return &last, nil
}

func (r *MemChatRepository) ListMessages(_ context.Context, roomID int64, before *time.Time, limit, offset int) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var filtered []chat.Message
	for _, m := range r.messages[roomID] {
		if before != nil && m.CreatedAt.After(*before) {
			continue
		}
		filtered = append(filtered, m)
	}
	// Newest first, id as the tie-breaker.
	sort.Slice(filtered, func(i, j int) bool {
		if !filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		}
		return filtered[i].ID > filtered[j].ID
	})

	if offset >= len(filtered) {
		return nil, nil
	}
	filtered = filtered[offset:]
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (r *MemChatRepository) ListUserRooms(_ context.Context, userID int64) ([]chat.RoomSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var summaries []chat.RoomSummary
	for roomID, members := range r.members {
		visible := false
		ids := make([]int64, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.UserID)
			if m.UserID == userID && !m.Hidden {
				visible = true
			}
		}
		if !visible {
			continue
		}

		summary := chat.RoomSummary{Room: r.rooms[roomID], MemberIDs: ids}
		if msgs := r.messages[roomID]; len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			summary.LastMessage = &last
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].Room.CreatedAt.Equal(summaries[j].Room.CreatedAt) {
			return summaries[i].Room.CreatedAt.After(summaries[j].Room.CreatedAt)
		}
		return summaries[i].Room.ID > summaries[j].Room.ID
	})
	return summaries, nil
}
