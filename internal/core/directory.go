package core

import (
	"slices"
	"strings"
)

// RoomDirectory is the set of room ids created so far. Rooms are never
// removed, even when nobody is in them.
type RoomDirectory struct {
	order []string
	known map[string]struct{}
}

// NewRoomDirectory returns an empty directory.
func NewRoomDirectory() *RoomDirectory {
	return &RoomDirectory{known: make(map[string]struct{})}
}

// NormalizeRoom trims surrounding whitespace from a room id and rejects
// ids that end up empty.
func NormalizeRoom(raw string) (string, error) {
	room := strings.TrimSpace(raw)
	if room == "" {
		return "", ErrInvalidRoom
	}
	return room, nil
}

// Ensure normalizes raw and adds it to the directory.
// created is true only the first time a room id is seen.
func (d *RoomDirectory) Ensure(raw string) (room string, created bool, err error) {
	room, err = NormalizeRoom(raw)
	if err != nil {
		return "", false, err
	}
	if _, ok := d.known[room]; ok {
		return room, false, nil
	}
	d.known[room] = struct{}{}
	d.order = append(d.order, room)
	return room, true, nil
}

// Has reports whether the room was created.
func (d *RoomDirectory) Has(room string) bool {
	_, ok := d.known[room]
	return ok
}

// List returns the rooms in creation order. The slice is a copy.
func (d *RoomDirectory) List() []string {
	if len(d.order) == 0 {
		return []string{}
	}
	return slices.Clone(d.order)
}

// Len returns the number of rooms.
func (d *RoomDirectory) Len() int {
	return len(d.order)
}
