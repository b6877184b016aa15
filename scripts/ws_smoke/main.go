package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/Kwonsunuk/chat-app-socket/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:3000/ws", "WebSocket address")
	user := flag.String("user", "tester", "display name sent in the handshake")
	room := flag.String("room", "general", "room name")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	target, err := url.Parse(*addr)
	if err != nil {
		return fmt.Errorf("parse addr: %w", err)
	}
	query := target.Query()
	query.Set("name", *user)
	target.RawQuery = query.Encode()

	conn, _, err := websocket.Dial(ctx, target.String(), nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	mustSend := func(typ string, data any) error {
		payload, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", typ, err)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
			return fmt.Errorf("send: %w", err)
		}
		return nil
	}

	if err := mustSend(proto.InboundTypeJoin, proto.JoinData{Room: *room}); err != nil {
		return err
	}
	if err := mustSend(proto.InboundTypeMsg, proto.MsgData{Room: *room, Text: *text}); err != nil {
		return err
	}

	for {
		var outbound struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Room  string          `json:"room"`
			Data  json.RawMessage `json:"data"`
			Error *proto.Error    `json:"error"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		fmt.Printf("Received outbound: type=%s", outbound.Type)
		if outbound.Event != "" {
			fmt.Printf(" event=%q", outbound.Event)
		}
		fmt.Println()

		if outbound.Error != nil {
			return fmt.Errorf("server error %s: %s", outbound.Error.Code, outbound.Error.Msg)
		}

		switch outbound.Event {
		case proto.EventMessage:
			var msg proto.ChatMessage
			if err := json.Unmarshal(outbound.Data, &msg); err != nil {
				fmt.Printf("Raw data: %s\n", string(outbound.Data))
				return fmt.Errorf("unmarshal message: %w", err)
			}
			fmt.Printf("ChatMessage: room=%s user=%s text=%q time=%d\n", outbound.Room, msg.User, msg.Text, msg.Time)
			return nil
		case proto.EventJoinError:
			return fmt.Errorf("join error: %s", string(outbound.Data))
		case proto.EventUserList, proto.EventRoomList, proto.EventHistory:
			fmt.Printf("%s: %s\n", outbound.Event, string(outbound.Data))
		default:
			// keep looping for message
		}
	}
}
