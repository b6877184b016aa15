package core

// Room groups the connections subscribed to one room id. It is the delivery
// target for room-scoped broadcasts; who is "present" by name lives in
// Membership.
type Room struct {
	Name    string
	clients map[*Client]struct{}
}

// NewRoom constructs a room with no clients.
func NewRoom(name string) *Room {
	return &Room{
		Name:    name,
		clients: make(map[*Client]struct{}),
	}
}

// AddClient inserts a client into the room. Returns true if newly added.
func (r *Room) AddClient(c *Client) bool {
	if _, exists := r.clients[c]; exists {
		return false
	}
	r.clients[c] = struct{}{}
	return true
}

// RemoveClient deletes a client from the room. Returns true if removed.
func (r *Room) RemoveClient(c *Client) bool {
	if _, exists := r.clients[c]; !exists {
		return false
	}
	delete(r.clients, c)
	return true
}

// Broadcast sends an event to all clients in the room except the given one,
// which may be nil. Returns how many recipients dropped it.
func (r *Room) Broadcast(event *Event, except *Client) (dropped int) {
	for client := range r.clients {
		if client == except {
			continue
		}
		if !deliver(client, event) {
			dropped++
		}
	}
	return dropped
}

// Len returns the number of connections in the room.
func (r *Room) Len() int {
	return len(r.clients)
}

// Empty returns true if no clients are in the room.
func (r *Room) Empty() bool {
	return len(r.clients) == 0
}
