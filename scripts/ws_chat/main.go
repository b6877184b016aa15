package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gookit/color"

	"github.com/Kwonsunuk/chat-app-socket/internal/proto"
)

// inFrame is an outbound frame with its payload left raw for decoding.
type inFrame struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Room  string          `json:"room"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

var (
	roomStyle   = color.New(color.FgCyan, color.OpBold)
	userStyle   = color.New(color.FgGreen)
	systemStyle = color.New(color.FgGray)
	errorStyle  = color.New(color.FgRed, color.OpBold)
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:3000/ws", "WebSocket address")
	user := flag.String("user", "cli-user", "display name")
	room := flag.String("room", "general", "room to join")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	if *noColor {
		color.Disable()
	}

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
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

	if err := send(ctx, conn, proto.InboundTypeJoin, proto.JoinData{Room: *room, User: *user}); err != nil {
		return err
	}

	fmt.Printf("Connected to %s as %s in room %s\n", *addr, userStyle.Render(*user), roomStyle.Render(*room))
	fmt.Println(systemStyle.Render("Type messages and press Enter to send. /leave, /history and /rooms are commands. Ctrl+C to exit."))

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, conn, *room)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func send(ctx context.Context, conn *websocket.Conn, typ string, data any) error {
	in := proto.Inbound{Type: typ}
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", typ, err)
		}
		in.Data = payload
	}
	if err := wsjson.Write(ctx, conn, in); err != nil {
		return fmt.Errorf("send %s: %w", typ, err)
	}
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var f inFrame
		if err := wsjson.Read(ctx, conn, &f); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}
		printFrame(f)
	}
}

func printFrame(f inFrame) {
	if f.Type == proto.OutboundTypeError && f.Error != nil {
		fmt.Println(errorStyle.Sprintf("error %s: %s", f.Error.Code, f.Error.Msg))
		return
	}

	prefix := ""
	if f.Room != "" {
		prefix = roomStyle.Sprintf("[%s] ", f.Room)
	}

	switch f.Event {
	case proto.EventMessage:
		var msg proto.ChatMessage
		if err := json.Unmarshal(f.Data, &msg); err != nil {
			log.Printf("unmarshal message: %v", err)
			return
		}
		fmt.Printf("%s%s %s: %s\n", prefix, systemStyle.Render(formatTime(msg.Time)), userStyle.Render(msg.User), msg.Text)
	case proto.EventHistory:
		var history []proto.ChatMessage
		if err := json.Unmarshal(f.Data, &history); err != nil {
			log.Printf("unmarshal history: %v", err)
			return
		}
		fmt.Println(prefix + systemStyle.Sprintf("%d message(s) in history", len(history)))
		for _, msg := range history {
			fmt.Printf("%s%s %s: %s\n", prefix, systemStyle.Render(formatTime(msg.Time)), userStyle.Render(msg.User), msg.Text)
		}
	case proto.EventUserList, proto.EventRoomList:
		var names []string
		if err := json.Unmarshal(f.Data, &names); err != nil {
			log.Printf("unmarshal %s: %v", f.Event, err)
			return
		}
		fmt.Println(prefix + systemStyle.Sprintf("%s: %s", f.Event, strings.Join(names, ", ")))
	case proto.EventTyping, proto.EventStopTyping:
		var name string
		if err := json.Unmarshal(f.Data, &name); err != nil {
			return
		}
		if f.Event == proto.EventTyping {
			fmt.Println(prefix + systemStyle.Sprintf("%s is typing...", name))
		}
	case proto.EventJoinError:
		var reason string
		_ = json.Unmarshal(f.Data, &reason)
		fmt.Println(errorStyle.Sprintf("join error: %s", reason))
	default:
		fmt.Printf("event=%s data=%s\n", f.Event, string(f.Data))
	}
}

func formatTime(ms int64) string {
	return time.UnixMilli(ms).Format(time.TimeOnly)
}

func writeLoop(ctx context.Context, conn *websocket.Conn, room string) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}

			var err error
			switch text {
			case "/leave":
				err = send(ctx, conn, proto.InboundTypeLeave, room)
			case "/history":
				err = send(ctx, conn, proto.InboundTypeHistory, room)
			case "/rooms":
				err = send(ctx, conn, proto.InboundTypeRoomList, nil)
			default:
				err = send(ctx, conn, proto.InboundTypeMsg, proto.MsgData{Room: room, Text: text})
			}
			if err != nil {
				log.Printf("send error: %v", err)
				return
			}
		}
	}
}
