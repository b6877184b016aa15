package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Kwonsunuk/chat-app-socket/internal/config"
	"github.com/Kwonsunuk/chat-app-socket/internal/core"
	"github.com/Kwonsunuk/chat-app-socket/internal/proto"
)

// frame is an outbound envelope with its payload left undecoded.
type frame struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Room  string          `json:"room"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func startTestServer(t *testing.T, mutate func(*config.Config)) (*httptest.Server, *core.Hub) {
	t.Helper()

	cfg := config.Default()
	cfg.ReadHeaderTimeout = time.Second
	cfg.ShutdownTimeout = time.Second
	if mutate != nil {
		mutate(&cfg)
	}

	hub := core.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := NewServer(hub, cfg, nopLogger())
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})

	return ts, hub
}

func nopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// newTestRouter serves GET /ping behind the given middleware.
func newTestRouter(middleware ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware...)
	router.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })
	return router
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func dial(t *testing.T, ctx context.Context, ts *httptest.Server, name string) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws?name=" + url.QueryEscape(name)
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err, "dial %s", name)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string, data any) {
	t.Helper()

	in := proto.Inbound{Type: typ}
	if data != nil {
		payload, err := json.Marshal(data)
		require.NoError(t, err)
		in.Data = payload
	}
	require.NoError(t, wsjson.Write(ctx, conn, in))
}

func readFrame(t *testing.T, ctx context.Context, conn *websocket.Conn) frame {
	t.Helper()

	var f frame
	require.NoError(t, wsjson.Read(ctx, conn, &f))
	return f
}

// readEvent skips frames until an event with the given name arrives.
func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) frame {
	t.Helper()

	for {
		f := readFrame(t, ctx, conn)
		if f.Type == proto.OutboundTypeEvent && f.Event == event {
			return f
		}
	}
}

// readError skips frames until an error frame arrives.
func readError(t *testing.T, ctx context.Context, conn *websocket.Conn) *proto.Error {
	t.Helper()

	for {
		f := readFrame(t, ctx, conn)
		if f.Type == proto.OutboundTypeError {
			require.NotNil(t, f.Error)
			return f.Error
		}
	}
}

func joinRoom(t *testing.T, ctx context.Context, conn *websocket.Conn, room string) []proto.ChatMessage {
	t.Helper()

	send(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{Room: room})
	f := readEvent(t, ctx, conn, proto.EventHistory)
	var history []proto.ChatMessage
	require.NoError(t, json.Unmarshal(f.Data, &history))
	return history
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}
