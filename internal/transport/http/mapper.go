package http

import (
	"encoding/json"

	"github.com/samber/lo"

	"github.com/Kwonsunuk/chat-app-socket/internal/core"
	"github.com/Kwonsunuk/chat-app-socket/internal/proto"
)

func badRequest(msg string) *proto.Error {
	return &proto.Error{Code: core.ErrCodeBadRequest, Msg: msg}
}

// inboundToCommand maps a client frame to a hub command. Room validation is
// left to the hub so every transport gets the same answers.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeRoomList:
		return &core.Command{Kind: core.CommandRequestRoomList}, nil
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, badRequest("invalid join payload")
		}
		return &core.Command{Kind: core.CommandJoinRoom, Room: join.Room}, nil
	case proto.InboundTypeMsg:
		var msg proto.MsgData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, badRequest("invalid message payload")
		}
		return &core.Command{Kind: core.CommandSendRoomMessage, Room: msg.Room, Text: msg.Text}, nil
	case proto.InboundTypeLeave:
		room, err := decodeRoom(inbound.Data)
		if err != nil {
			return nil, badRequest("invalid leave payload")
		}
		return &core.Command{Kind: core.CommandLeaveRoom, Room: room}, nil
	case proto.InboundTypeHistory:
		room, err := decodeRoom(inbound.Data)
		if err != nil {
			return nil, badRequest("invalid history payload")
		}
		return &core.Command{Kind: core.CommandRequestHistory, Room: room}, nil
	case proto.InboundTypeTyping, proto.InboundTypeStopTyping:
		var typing proto.TypingData
		if err := json.Unmarshal(inbound.Data, &typing); err != nil {
			return nil, badRequest("invalid typing payload")
		}
		kind := core.CommandTyping
		if inbound.Type == proto.InboundTypeStopTyping {
			kind = core.CommandStopTyping
		}
		return &core.Command{Kind: kind, Room: typing.Room}, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeUnknownType, Msg: "unknown message type"}
	}
}

// decodeRoom accepts a bare JSON string and, for lenient clients, an object
// with a room field.
func decodeRoom(data json.RawMessage) (string, error) {
	var room string
	if err := json.Unmarshal(data, &room); err == nil {
		return room, nil
	}
	var obj proto.JoinData
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", err
	}
	return obj.Room, nil
}

func toChatMessage(msg core.Message) proto.ChatMessage {
	return proto.ChatMessage{User: msg.From, Text: msg.Text, Time: msg.UnixMilli()}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRoomList:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRoomList,
			Data:  nonNil(event.Rooms),
		}
	case core.EventUserList:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUserList,
			Room:  event.Room,
			Data:  nonNil(event.Users),
		}
	case core.EventHistory:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventHistory,
			Room:  event.Room,
			Data: lo.Map(event.Messages, func(m core.Message, _ int) proto.ChatMessage {
				return toChatMessage(m)
			}),
		}
	case core.EventRoomMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventMessage,
			Room:  event.Message.Room,
			Data:  toChatMessage(event.Message),
		}
	case core.EventTyping, core.EventStopTyping:
		name := proto.EventTyping
		if event.Kind == core.EventStopTyping {
			name = proto.EventStopTyping
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: name,
			Room:  event.Room,
			Data:  event.User,
		}
	case core.EventJoinError:
		reason := "could not join room"
		if event.Error != nil {
			reason = event.Error.Message
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventJoinError,
			Data:  reason,
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
