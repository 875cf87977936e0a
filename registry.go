package main

import (
	"errors"
	"sync"
)

// ErrBanned rejects a join from a connection on the room's ban list.
var ErrBanned = errors.New("banned from this room")

// SessionInfo tracks which room a connection is in and how it joined.
type SessionInfo struct {
	RoomID string
	Name   string
	Team   Team
}

// LeaveInfo describes what a departure did to the room.
type LeaveInfo struct {
	RoomID    string
	Game      *Game
	NewHostID string // non-empty when host authority moved
	Destroyed bool   // true when the room emptied out
}

// Registry maps room ids to live Game instances and connection ids to
// their current room. Ban sets live here, keyed by room id, so they
// survive the Game rebuild a map change performs. There is no ambient
// room state anywhere else.
type Registry struct {
	mu       sync.RWMutex
	rooms    map[string]*Game
	sessions map[string]*SessionInfo
	bans     map[string]map[string]bool
	order    map[string][]string // join order per room, for host promotion
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:    make(map[string]*Game),
		sessions: make(map[string]*SessionInfo),
		bans:     make(map[string]map[string]bool),
		order:    make(map[string][]string),
	}
}

// Join adds a connection to a room, creating the room lazily with the
// joiner as host. The requested map only applies to a newly created room;
// a pre-existing room keeps its map. Returns the room and whether the
// joiner holds host authority.
func (r *Registry) Join(connID, name string, team Team, roomID, mapType string) (*Game, bool, error) {
	if !team.Valid() {
		team = TeamRed
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	game, ok := r.rooms[roomID]
	if !ok {
		game = NewGame(roomID, mapType, connID)
		r.rooms[roomID] = game
	}

	if r.bans[roomID][connID] {
		return nil, false, ErrBanned
	}

	// Defensive: a room should never be hostless while occupied, but if it
	// is, the joiner takes over.
	if game.Host() == "" {
		game.SetHost(connID)
	}

	game.AddPlayer(connID, name, team)
	if r.sessions[connID] == nil {
		r.order[roomID] = append(r.order[roomID], connID)
	}
	r.sessions[connID] = &SessionInfo{RoomID: roomID, Name: name, Team: team}

	return game, game.IsHost(connID), nil
}

// Leave removes a connection from its room, promoting a new host or
// destroying the room as needed. Promotion is deterministic: the earliest
// remaining joiner takes over. Returns nil when the connection was not in
// any room.
func (r *Registry) Leave(connID string) *LeaveInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaveLocked(connID)
}

func (r *Registry) leaveLocked(connID string) *LeaveInfo {
	sess := r.sessions[connID]
	if sess == nil {
		return nil
	}
	delete(r.sessions, connID)

	roomID := sess.RoomID
	game, ok := r.rooms[roomID]
	if !ok {
		return nil
	}

	info := &LeaveInfo{RoomID: roomID, Game: game}

	if game.IsHost(connID) {
		if next := r.firstRemaining(roomID, connID); next != "" {
			game.SetHost(next)
			info.NewHostID = next
		} else {
			game.SetHost("")
		}
	}

	game.RemovePlayer(connID)
	r.dropFromOrder(roomID, connID)

	if game.PlayerCount() == 0 {
		delete(r.rooms, roomID)
		delete(r.bans, roomID)
		delete(r.order, roomID)
		info.Destroyed = true
	}
	return info
}

// firstRemaining returns the earliest-joined current member other than
// exclude, or "".
func (r *Registry) firstRemaining(roomID, exclude string) string {
	for _, id := range r.order[roomID] {
		if id == exclude {
			continue
		}
		if s := r.sessions[id]; s != nil && s.RoomID == roomID {
			return id
		}
	}
	return ""
}

func (r *Registry) dropFromOrder(roomID, connID string) {
	ids := r.order[roomID]
	for i, id := range ids {
		if id == connID {
			r.order[roomID] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

// Kick removes the target from its room without touching the ban list.
func (r *Registry) Kick(targetID string) *LeaveInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaveLocked(targetID)
}

// Ban records the target on the room's ban list and removes it. The ban
// outlives map changes; it disappears only with the room itself.
func (r *Registry) Ban(targetID string) *LeaveInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess := r.sessions[targetID]
	if sess == nil {
		return nil
	}
	if r.bans[sess.RoomID] == nil {
		r.bans[sess.RoomID] = make(map[string]bool)
	}
	r.bans[sess.RoomID][targetID] = true
	return r.leaveLocked(targetID)
}

// IsBanned reports whether the connection is on the room's ban list.
func (r *Registry) IsBanned(roomID, connID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bans[roomID][connID]
}

// ChangeMap rebuilds the room's Game on a new map, preserving the host id
// and re-adding every tracked member with their prior name and team. Score,
// clock, settings and formation reset as a side effect; the ban list is
// untouched. Returns nil for an unknown room or map type.
func (r *Registry) ChangeMap(roomID, mapType string) *Game {
	if !ValidMapType(mapType) {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.rooms[roomID]
	if !ok {
		return nil
	}

	game := NewGame(roomID, mapType, old.Host())
	for _, connID := range r.order[roomID] {
		if s := r.sessions[connID]; s != nil && s.RoomID == roomID {
			game.AddPlayer(connID, s.Name, s.Team)
		}
	}
	for connID, client := range old.Clients() {
		game.SetClient(connID, client)
	}
	r.rooms[roomID] = game
	return game
}

// Room returns the live Game for a room id, or nil.
func (r *Registry) Room(roomID string) *Game {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms[roomID]
}

// RoomFor resolves a connection to its room. Returns nil when the
// connection is not in a room.
func (r *Registry) RoomFor(connID string) *Game {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess := r.sessions[connID]
	if sess == nil {
		return nil
	}
	return r.rooms[sess.RoomID]
}

// Session returns a copy of the connection's session entry.
func (r *Registry) Session(connID string) (SessionInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess := r.sessions[connID]
	if sess == nil {
		return SessionInfo{}, false
	}
	return *sess, true
}

// Rooms returns a snapshot of all live rooms for the tick loops.
func (r *Registry) Rooms() []*Game {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*Game, 0, len(r.rooms))
	for _, g := range r.rooms {
		list = append(list, g)
	}
	return list
}

// RoomCount returns the number of live rooms.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
