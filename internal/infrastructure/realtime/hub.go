package realtime

import (
	"sync"
)

// Session is the hub's view of a live connection. *Connection implements it;
// tests substitute lightweight stubs.
type Session interface {
	// SessionID uniquely identifies this connection.
	SessionID() string
	// User returns the authenticated user id bound at handshake.
	User() int64
	// Send delivers payload best-effort; errors mean the session is gone or
	// overloaded and are the caller's cue to drop, never to retry.
	Send(payload []byte) error
	// Close terminates the underlying transport.
	Close(code int, reason string)
}

func (c *Connection) SessionID() string { return c.ID }
func (c *Connection) User() int64       { return c.UserID }

// Hub is the in-memory session registry and fan-out dispatcher. It tracks
// which sessions exist, which user each belongs to, and which rooms each is
// subscribed to; it never touches persistent membership.
//
// All operations are non-blocking map manipulations under one RWMutex.
// Dispatching to a session that was concurrently removed is a no-op.
type Hub struct {
	mu sync.RWMutex

	// sessions is keyed by session id, userSessions maps a user to their one
	// live session, rooms holds each room's delivery set and sessionRooms the
	// reverse index used to clean up on detach.
	sessions     map[string]Session
	userSessions map[int64]string
	rooms        map[int64]map[string]Session
	sessionRooms map[string]map[int64]struct{}
}

// NewHub constructs an initialized Hub.
func NewHub() *Hub {
	return &Hub{
		sessions:     make(map[string]Session),
		userSessions: make(map[int64]string),
		rooms:        make(map[int64]map[string]Session),
		sessionRooms: make(map[string]map[int64]struct{}),
	}
}

// Attach registers a session. If the user already has a live session it is
// removed and closed after the swap, enforcing one active socket per user.
func (h *Hub) Attach(s Session) {
	var previous Session

	h.mu.Lock()
	if existingID, ok := h.userSessions[s.User()]; ok {
		if existing := h.sessions[existingID]; existing != nil {
			previous = existing
			h.detachLocked(existingID)
		}
	}

	h.sessions[s.SessionID()] = s
	h.userSessions[s.User()] = s.SessionID()
	h.sessionRooms[s.SessionID()] = make(map[int64]struct{})
	h.mu.Unlock()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
}

// Detach removes a session and all its subscriptions atomically. Safe to call
// for a session that is already gone.
func (h *Hub) Detach(s Session) {
	h.mu.Lock()
	h.detachLocked(s.SessionID())
	h.mu.Unlock()
}

// Subscribe adds the session to a room's delivery set. Unknown sessions are
// ignored: the caller lost a race with a disconnect.
func (h *Hub) Subscribe(roomID int64, s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[s.SessionID()]; !ok {
		return
	}

	room := h.rooms[roomID]
	if room == nil {
		room = make(map[string]Session)
		h.rooms[roomID] = room
	}
	room[s.SessionID()] = s

	subs := h.sessionRooms[s.SessionID()]
	if subs == nil {
		subs = make(map[int64]struct{})
		h.sessionRooms[s.SessionID()] = subs
	}
	subs[roomID] = struct{}{}
}

// IsSubscribed reports whether the session is currently in the room's
// delivery set.
func (h *Hub) IsSubscribed(roomID int64, s Session) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[roomID][s.SessionID()]
	return ok
}

// Unsubscribe removes the session from a room's delivery set only; the
// persistent membership is untouched.
func (h *Hub) Unsubscribe(roomID int64, s Session) {
	h.mu.Lock()
	h.unsubscribeLocked(roomID, s.SessionID())
	h.mu.Unlock()
}

// Dispatch writes payload to every session subscribed to the room,
// best-effort. excludeUserID, when non-zero, skips that user's session.
// Returns the number of successful deliveries.
func (h *Hub) Dispatch(roomID int64, payload []byte, excludeUserID int64) int {
	h.mu.RLock()
	room := h.rooms[roomID]
	targets := make([]Session, 0, len(room))
	for _, s := range room {
		if excludeUserID != 0 && s.User() == excludeUserID {
			continue
		}
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, s := range targets {
		if err := s.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// BroadcastAll writes payload to every connected session. Reserved for
// room-list refresh signals; per-message traffic goes through Dispatch.
func (h *Hub) BroadcastAll(payload []byte) int {
	h.mu.RLock()
	targets := make([]Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, s := range targets {
		if err := s.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// NotifyUser delivers payload to the given user's current session, if any.
func (h *Hub) NotifyUser(userID int64, payload []byte) bool {
	h.mu.RLock()
	sessionID, ok := h.userSessions[userID]
	if !ok {
		h.mu.RUnlock()
		return false
	}
	s := h.sessions[sessionID]
	h.mu.RUnlock()
	if s == nil {
		return false
	}
	return s.Send(payload) == nil
}

// Close terminates all tracked sessions and clears hub state.
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := make([]Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.sessions = make(map[string]Session)
	h.userSessions = make(map[int64]string)
	h.rooms = make(map[int64]map[string]Session)
	h.sessionRooms = make(map[string]map[int64]struct{})
	h.mu.Unlock()

	for _, s := range sessions {
		s.Close(1001, "hub shutdown")
	}
}

func (h *Hub) detachLocked(sessionID string) {
	s, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	delete(h.sessions, sessionID)

	if current, ok := h.userSessions[s.User()]; ok && current == sessionID {
		delete(h.userSessions, s.User())
	}

	for roomID := range h.sessionRooms[sessionID] {
		h.unsubscribeLocked(roomID, sessionID)
	}
	delete(h.sessionRooms, sessionID)
}

func (h *Hub) unsubscribeLocked(roomID int64, sessionID string) {
	room := h.rooms[roomID]
	if room == nil {
		return
	}
	delete(room, sessionID)
	if len(room) == 0 {
		delete(h.rooms, roomID)
	}
	if subs, ok := h.sessionRooms[sessionID]; ok {
		delete(subs, roomID)
		if len(subs) == 0 {
			delete(h.sessionRooms, sessionID)
		}
	}
}
