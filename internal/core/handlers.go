package core

import "fmt"

// dispatch applies one command. A panic is contained to the command that
// caused it: the client gets an internal error and the hub keeps running.
func (h *Hub) dispatch(c *Client, cmd *Command) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().
				Str("client_id", c.ID).
				Stringer("command", cmd.Kind).
				Str("panic", fmt.Sprint(r)).
				Msg("recovered from panic in command handler")
			// A session torn down mid-command already has its events closed.
			if _, ok := h.clients[c]; ok {
				h.unicast(c, &Event{Kind: EventError, Error: coreError(ErrCodeInternal, "internal error")})
			}
		}
	}()

	if _, ok := h.clients[c]; !ok {
		h.log.Debug().Str("client_id", c.ID).Stringer("command", cmd.Kind).Msg("command from unknown client ignored")
		return
	}
	h.log.Debug().Str("client_id", c.ID).Stringer("command", cmd.Kind).Str("room", cmd.Room).Msg("handling command")

	switch cmd.Kind {
	case CommandRequestRoomList:
		h.unicast(c, &Event{Kind: EventRoomList, Rooms: h.rooms.List()})
	case CommandJoinRoom:
		h.handleJoin(c, cmd.Room)
	case CommandSendRoomMessage:
		h.handleMessage(c, cmd.Room, cmd.Text)
	case CommandLeaveRoom:
		h.handleLeave(c, cmd.Room)
	case CommandRequestHistory:
		h.handleHistory(c, cmd.Room)
	case CommandTyping:
		h.handleTyping(c, cmd.Room, EventTyping)
	case CommandStopTyping:
		h.handleTyping(c, cmd.Room, EventStopTyping)
	case CommandDisconnect:
		h.handleDisconnect(c)
	default:
		h.unicast(c, &Event{Kind: EventError, Error: coreError(ErrCodeUnknownType, ErrUnknownCommand.Error())})
	}
}

func (h *Hub) handleJoin(c *Client, raw string) {
	room, created, err := h.rooms.Ensure(raw)
	if err != nil {
		h.unicast(c, &Event{Kind: EventJoinError, Error: invalidArgument(err)})
		return
	}
	if created {
		h.log.Info().Str("room", room).Int("rooms", h.rooms.Len()).Msg("room created")
		h.broadcastAll(&Event{Kind: EventRoomList, Rooms: h.rooms.List()})
	}

	h.group(room).AddClient(c)
	c.Rooms[room] = struct{}{}

	users := h.members.Join(room, c.Name, c.ID)
	h.broadcastRoom(room, &Event{Kind: EventUserList, Room: room, Users: users}, nil)
	h.unicast(c, &Event{Kind: EventHistory, Room: room, Messages: h.history.Snapshot(room)})
}

func (h *Hub) handleMessage(c *Client, raw, text string) {
	room, err := NormalizeRoom(raw)
	if err != nil {
		h.unicast(c, &Event{Kind: EventError, Error: invalidArgument(err)})
		return
	}
	if h.filter != nil {
		text = h.filter.Censor(text)
	}

	msg := h.history.Append(room, Message{
		From:      c.Name,
		Text:      text,
		CreatedAt: h.now(),
	})
	h.broadcastRoom(room, &Event{Kind: EventRoomMessage, Room: room, User: c.Name, Message: msg}, nil)
}

func (h *Hub) handleLeave(c *Client, raw string) {
	room, err := NormalizeRoom(raw)
	if err != nil {
		h.unicast(c, &Event{Kind: EventError, Error: invalidArgument(err)})
		return
	}

	if g, ok := h.groups[room]; ok {
		g.RemoveClient(c)
		h.dropIfEmpty(g)
	}
	delete(c.Rooms, room)

	if users, ok := h.members.Leave(room, c.Name, c.ID); ok {
		h.broadcastRoom(room, &Event{Kind: EventUserList, Room: room, Users: users}, nil)
	}
}

func (h *Hub) handleHistory(c *Client, raw string) {
	room, err := NormalizeRoom(raw)
	if err != nil {
		h.unicast(c, &Event{Kind: EventError, Error: invalidArgument(err)})
		return
	}
	h.unicast(c, &Event{Kind: EventHistory, Room: room, Messages: h.history.Snapshot(room)})
}

func (h *Hub) handleTyping(c *Client, raw string, kind EventKind) {
	room, err := NormalizeRoom(raw)
	if err != nil {
		h.unicast(c, &Event{Kind: EventError, Error: invalidArgument(err)})
		return
	}
	h.broadcastRoom(room, &Event{Kind: kind, Room: room, User: c.Name}, c)
}

// handleDisconnect runs unconditionally against every room, so it also
// repairs state that went out of sync with c.Rooms.
func (h *Hub) handleDisconnect(c *Client) {
	delete(h.clients, c)
	h.names.Release(c.Name)

	for _, g := range h.groups {
		g.RemoveClient(c)
		h.dropIfEmpty(g)
	}
	clear(c.Rooms)

	for _, changed := range h.members.RemoveEverywhere(c.Name, c.ID, h.rooms.List()) {
		h.broadcastRoom(changed.Room, &Event{Kind: EventUserList, Room: changed.Room, Users: changed.Users}, nil)
	}

	close(c.Events)
	h.log.Info().Str("client_id", c.ID).Str("name", c.Name).Int("clients", len(h.clients)).Msg("client disconnected")
}
