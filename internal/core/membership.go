package core

import (
	"slices"

	"github.com/samber/lo"
)

// RoomMembers is the member list of one room after a change.
type RoomMembers struct {
	Room  string
	Users []string
}

// Membership maps each room to the display names present in it. A name is
// present while at least one session using it has joined, so sessions
// sharing a name do not evict each other.
type Membership struct {
	// room -> name -> session ids
	rooms map[string]map[string]map[string]struct{}
}

// NewMembership returns an empty membership table.
func NewMembership() *Membership {
	return &Membership{rooms: make(map[string]map[string]map[string]struct{})}
}

// Join adds session (under name) to room and returns the room's members.
func (m *Membership) Join(room, name, session string) []string {
	names, ok := m.rooms[room]
	if !ok {
		names = make(map[string]map[string]struct{})
		m.rooms[room] = names
	}
	sessions, ok := names[name]
	if !ok {
		sessions = make(map[string]struct{})
		names[name] = sessions
	}
	sessions[session] = struct{}{}
	return sortedNames(names)
}

// Leave removes session from room. ok is false when the room never had a
// member set, in which case nobody needs to be told.
func (m *Membership) Leave(room, name, session string) (users []string, ok bool) {
	names, ok := m.rooms[room]
	if !ok {
		return nil, false
	}
	dropSession(names, name, session)
	return sortedNames(names), true
}

// RemoveEverywhere drops session from each of the given rooms and returns
// only the rooms whose member list actually changed, in the order given.
func (m *Membership) RemoveEverywhere(name, session string, rooms []string) []RoomMembers {
	var changed []RoomMembers
	for _, room := range rooms {
		names, ok := m.rooms[room]
		if !ok {
			continue
		}
		if dropSession(names, name, session) {
			changed = append(changed, RoomMembers{Room: room, Users: sortedNames(names)})
		}
	}
	return changed
}

// dropSession removes session from name's holders and reports whether the name
// left the room as a result.
func dropSession(names map[string]map[string]struct{}, name, session string) bool {
	sessions, ok := names[name]
	if !ok {
		return false
	}
	delete(sessions, session)
	if len(sessions) > 0 {
		return false
	}
	delete(names, name)
	return true
}

// Users returns the members of room, empty for an unknown room.
func (m *Membership) Users(room string) []string {
	return sortedNames(m.rooms[room])
}

// Contains reports whether name is present in room.
func (m *Membership) Contains(room, name string) bool {
	_, ok := m.rooms[room][name]
	return ok
}

func sortedNames(names map[string]map[string]struct{}) []string {
	out := lo.Keys(names)
	slices.Sort(out)
	return out
}
