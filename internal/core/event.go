package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRoomList carries every known room. Sent to all clients on room
	// creation and to a single client on request.
	EventRoomList EventKind = iota
	// EventUserList carries the members of one room after a change.
	EventUserList
	// EventHistory delivers a room's message history to one client.
	EventHistory
	// EventRoomMessage notifies room members about a chat message.
	EventRoomMessage
	// EventTyping tells room members that a user is typing.
	EventTyping
	// EventStopTyping tells room members that a user stopped typing.
	EventStopTyping
	// EventJoinError rejects a join request.
	EventJoinError
	// EventError notifies a client about a rejected command.
	EventError
)

// Event is sent to clients to describe what happened in the system.
// Events may be shared between recipients and must be treated as read-only.
type Event struct {
	Kind     EventKind
	Room     string
	User     string
	Rooms    []string  // EventRoomList
	Users    []string  // EventUserList
	Message  Message   // EventRoomMessage
	Messages []Message // EventHistory
	Error    *CoreError
}
