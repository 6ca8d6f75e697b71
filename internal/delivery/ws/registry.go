package ws

import (
	"errors"
	"sync"
)

// ErrNotRegistered is returned by Deregister when the session was never
// registered (or was already removed). That only happens when the session
// lifecycle contract is broken, so callers should log it loudly.
var ErrNotRegistered = errors.New("ws: session not registered")

// Registry tracks which sessions are live in which room. It is process-wide
// shared state: every session's goroutine registers, deregisters and reads
// snapshots through it, so all access goes through the lock. It keeps no
// message history and does no I/O; it exists only to compute fan-out lists.
type Registry struct {
	mu    sync.RWMutex
	rooms map[int][]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[int][]*Session)}
}

// Register appends s to the room's session list, creating the list for a
// previously unseen room. Not idempotent: callers register exactly once per
// accepted connection.
func (r *Registry) Register(roomID int, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[roomID] = append(r.rooms[roomID], s)
}

// Deregister removes exactly one entry matching s from the room's list,
// preserving the order of the survivors. Returns ErrNotRegistered when s is
// not present.
func (r *Registry) Deregister(roomID int, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sessions := r.rooms[roomID]
	for i, registered := range sessions {
		if registered == s {
			sessions = append(sessions[:i], sessions[i+1:]...)
			if len(sessions) == 0 {
				delete(r.rooms, roomID)
			} else {
				r.rooms[roomID] = sessions
			}
			return nil
		}
	}
	return ErrNotRegistered
}

// Connections returns a snapshot of the room's sessions in registration
// order. The copy keeps broadcast iteration safe against concurrent
// register/deregister.
func (r *Registry) Connections(roomID int) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessions := r.rooms[roomID]
	snapshot := make([]*Session, len(sessions))
	copy(snapshot, sessions)
	return snapshot
}

// UserIDs returns the room roster: one user id per live session. A user
// connected from several tabs appears once per connection.
func (r *Registry) UserIDs(roomID int) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessions := r.rooms[roomID]
	ids := make([]int, len(sessions))
	for i, s := range sessions {
		ids[i] = s.user.ID
	}
	return ids
}

// Count returns the number of live sessions in the room.
func (r *Registry) Count(roomID int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}
