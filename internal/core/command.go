package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandRequestRoomList asks for the current room list.
	CommandRequestRoomList CommandKind = iota
	// CommandJoinRoom subscribes the client to a room, creating it if needed.
	CommandJoinRoom
	// CommandSendRoomMessage delivers a chat message to room participants.
	CommandSendRoomMessage
	// CommandLeaveRoom unsubscribes the client from a room.
	CommandLeaveRoom
	// CommandRequestHistory asks for a room's message history.
	CommandRequestHistory
	// CommandTyping tells the room the client started typing.
	CommandTyping
	// CommandStopTyping tells the room the client stopped typing.
	CommandStopTyping
	// CommandDisconnect tears the session down. Queued by Hub.UnregisterClient.
	CommandDisconnect
)

var commandNames = map[CommandKind]string{
	CommandRequestRoomList: "request_room_list",
	CommandJoinRoom:        "join_room",
	CommandSendRoomMessage: "chat_message",
	CommandLeaveRoom:       "leave_room",
	CommandRequestHistory:  "request_room_history",
	CommandTyping:          "typing",
	CommandStopTyping:      "stop_typing",
	CommandDisconnect:      "disconnect",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "unknown"
}

// Command represents an action requested by a client. The acting user is
// always the session's own name; commands carry no identity of their own.
type Command struct {
	Kind CommandKind
	Room string
	Text string
}
