package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Inbound types carry the event names clients already speak.
const (
	InboundTypeRoomList   = "request room list"
	InboundTypeJoin       = "join room"
	InboundTypeMsg        = "chat message"
	InboundTypeLeave      = "leave room"
	InboundTypeHistory    = "request room history"
	InboundTypeTyping     = "typing"
	InboundTypeStopTyping = "stop typing"
)

const (
	OutboundTypeEvent = "event"
	OutboundTypeError = "error"
)

// Outbound event names.
const (
	EventRoomList   = "room list"
	EventUserList   = "user list"
	EventHistory    = "room history"
	EventMessage    = "chat message"
	EventTyping     = "typing"
	EventStopTyping = "stop typing"
	EventJoinError  = "join error"
)

// JoinData requests to join a specific room. User is accepted for
// compatibility and ignored; the session name is authoritative.
type JoinData struct {
	Room string `json:"room"`
	User string `json:"user,omitempty"`
}

// MsgData is a chat message from the client.
type MsgData struct {
	Room string `json:"room"`
	User string `json:"user,omitempty"`
	Text string `json:"text"`
}

// TypingData announces typing activity in a room.
type TypingData = JoinData

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Room  string `json:"room,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// ChatMessage is one stored or live chat message. Time is epoch milliseconds.
type ChatMessage struct {
	User string `json:"user"`
	Text string `json:"text"`
	Time int64  `json:"time"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Msg
}
