package relay

import (
	"sync"
)

// Registry is the presence map: for each user identity, the set of live
// connections currently bound to it ("rooms"). It is the only shared mutable
// state in the relay and must tolerate concurrent Join/Leave/ConnectionsFor
// from arbitrarily many connection handlers.
//
// A Registry is explicitly constructed and injected into the Relay; tests
// create as many isolated instances as they need.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[Conn]struct{}
	conns map[Conn]string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]map[Conn]struct{}),
		conns: make(map[Conn]string),
	}
}

// Join adds conn to userID's room. Idempotent: joining the same connection
// twice leaves a single entry. A connection belongs to at most one room; a
// re-join with a different userID moves it.
func (r *Registry) Join(userID string, conn Conn) {
	if userID == "" || conn == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.conns[conn]; ok && prev != userID {
		r.removeLocked(prev, conn)
	}

	room := r.rooms[userID]
	if room == nil {
		room = make(map[Conn]struct{})
		r.rooms[userID] = room
	}
	room[conn] = struct{}{}
	r.conns[conn] = userID
}

// Leave removes conn from whichever room it belongs to. Calling Leave on a
// connection that never joined is a no-op, not an error.
func (r *Registry) Leave(conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.conns[conn]
	if !ok {
		return
	}
	r.removeLocked(userID, conn)
}

// removeLocked detaches conn from userID's room and garbage-collects the
// room when its set becomes empty. Caller holds r.mu.
func (r *Registry) removeLocked(userID string, conn Conn) {
	if room, ok := r.rooms[userID]; ok {
		delete(room, conn)
		if len(room) == 0 {
			delete(r.rooms, userID)
		}
	}
	delete(r.conns, conn)
}

// ConnectionsFor returns a snapshot of the live connections in userID's room.
// The returned slice is owned by the caller; concurrent Join/Leave never
// mutate it.
func (r *Registry) ConnectionsFor(userID string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.rooms[userID]
	if len(room) == 0 {
		return nil
	}
	out := make([]Conn, 0, len(room))
	for c := range room {
		out = append(out, c)
	}
	return out
}

// RoomCount returns the number of non-empty rooms. Used by health reporting.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
