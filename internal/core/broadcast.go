package core

// deliver queues event for c without blocking. A full buffer drops the event.
func deliver(c *Client, event *Event) bool {
	select {
	case c.Events <- event:
		return true
	default:
		return false
	}
}

// unicast sends to the originating client only.
func (h *Hub) unicast(c *Client, event *Event) {
	if !deliver(c, event) {
		h.log.Debug().Str("client_id", c.ID).Int("event", int(event.Kind)).Msg("dropped event for slow client")
	}
}

// broadcastRoom sends to every connection joined to room, except the given
// client when it is not nil.
func (h *Hub) broadcastRoom(room string, event *Event, except *Client) {
	group, ok := h.groups[room]
	if !ok {
		return
	}
	if dropped := group.Broadcast(event, except); dropped > 0 {
		h.log.Debug().Str("room", room).Int("dropped", dropped).Msg("room broadcast dropped events")
	}
}

// broadcastAll sends to every connected client regardless of room.
func (h *Hub) broadcastAll(event *Event) {
	for c := range h.clients {
		h.unicast(c, event)
	}
}

// group returns the connection group of room, creating it on first use.
func (h *Hub) group(room string) *Room {
	g, ok := h.groups[room]
	if !ok {
		g = NewRoom(room)
		h.groups[room] = g
	}
	return g
}

// dropIfEmpty forgets a connection group nobody is subscribed to. The room
// itself stays in the directory.
func (h *Hub) dropIfEmpty(g *Room) {
	if g.Empty() {
		delete(h.groups, g.Name)
	}
}
