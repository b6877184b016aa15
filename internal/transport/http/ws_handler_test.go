package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/require"

	"github.com/Kwonsunuk/chat-app-socket/internal/config"
	"github.com/Kwonsunuk/chat-app-socket/internal/core"
	"github.com/Kwonsunuk/chat-app-socket/internal/proto"
)

func TestHealthEndpoint(t *testing.T) {
	ts, _ := startTestServer(t, nil)

	resp, err := ts.Client().Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServerServesWebSocketBesideREST(t *testing.T) {
	ts, _ := startTestServer(t, nil)
	ctx := testContext(t)

	// The upgrade must complete on the server handler and frames must flow.
	conn := dial(t, ctx, ts, "alice")
	send(t, ctx, conn, proto.InboundTypeRoomList, nil)
	f := readFrame(t, ctx, conn)
	require.Equal(t, proto.OutboundTypeEvent, f.Type)
	require.Equal(t, proto.EventRoomList, f.Event)
	require.JSONEq(t, `[]`, string(f.Data))

	resp, err := ts.Client().Get(ts.URL + "/rooms")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The gin router only carries REST routes.
	rec := httptest.NewRecorder()
	NewRouter(core.NewHub(nil), config.Default(), nopLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebSocketJoinMessageAndDisconnect(t *testing.T) {
	ts, _ := startTestServer(t, nil)
	ctx := testContext(t)

	alice := dial(t, ctx, ts, "alice")

	send(t, ctx, alice, proto.InboundTypeJoin, proto.JoinData{Room: "general", User: "mallory"})
	rooms := readEvent(t, ctx, alice, proto.EventRoomList)
	require.Equal(t, []string{"general"}, decode[[]string](t, rooms.Data))

	users := readEvent(t, ctx, alice, proto.EventUserList)
	require.Equal(t, "general", users.Room)
	require.Equal(t, []string{"alice"}, decode[[]string](t, users.Data))

	history := readEvent(t, ctx, alice, proto.EventHistory)
	require.JSONEq(t, `[]`, string(history.Data))

	send(t, ctx, alice, proto.InboundTypeMsg, proto.MsgData{Room: "general", User: "mallory", Text: "hi"})
	msg := readEvent(t, ctx, alice, proto.EventMessage)
	require.Equal(t, "general", msg.Room)
	chat := decode[proto.ChatMessage](t, msg.Data)
	require.Equal(t, "alice", chat.User)
	require.Equal(t, "hi", chat.Text)
	require.Positive(t, chat.Time)

	bob := dial(t, ctx, ts, "bob")
	bobHistory := joinRoom(t, ctx, bob, "general")
	require.Len(t, bobHistory, 1)
	require.Equal(t, chat, bobHistory[0])

	users = readEvent(t, ctx, alice, proto.EventUserList)
	require.Equal(t, []string{"alice", "bob"}, decode[[]string](t, users.Data))

	alice.Close(websocket.StatusNormalClosure, "bye")

	users = readEvent(t, ctx, bob, proto.EventUserList)
	require.Equal(t, []string{"bob"}, decode[[]string](t, users.Data))

	resp, err := ts.Client().Get(ts.URL + "/check-name?name=alice")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var check CheckNameResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&check))
	require.True(t, check.Available)
}

func TestWebSocketTypingReachesOthersOnly(t *testing.T) {
	ts, _ := startTestServer(t, nil)
	ctx := testContext(t)

	alice := dial(t, ctx, ts, "alice")
	bob := dial(t, ctx, ts, "bob")
	joinRoom(t, ctx, alice, "general")
	joinRoom(t, ctx, bob, "general")

	send(t, ctx, alice, proto.InboundTypeTyping, proto.TypingData{Room: "general"})
	typing := readEvent(t, ctx, bob, proto.EventTyping)
	require.Equal(t, "alice", decode[string](t, typing.Data))

	send(t, ctx, alice, proto.InboundTypeStopTyping, proto.TypingData{Room: "general"})
	stop := readEvent(t, ctx, bob, proto.EventStopTyping)
	require.Equal(t, "alice", decode[string](t, stop.Data))

	// Alice sees her own room list reply next, not her typing echo.
	send(t, ctx, alice, proto.InboundTypeRoomList, nil)
	for {
		f := readFrame(t, ctx, alice)
		require.NotEqual(t, proto.EventTyping, f.Event)
		require.NotEqual(t, proto.EventStopTyping, f.Event)
		if f.Event == proto.EventRoomList {
			break
		}
	}
}

func TestWebSocketLeaveAndHistoryRequest(t *testing.T) {
	ts, _ := startTestServer(t, nil)
	ctx := testContext(t)

	alice := dial(t, ctx, ts, "alice")
	bob := dial(t, ctx, ts, "bob")
	joinRoom(t, ctx, alice, "general")
	joinRoom(t, ctx, bob, "general")

	users := readEvent(t, ctx, alice, proto.EventUserList)
	require.Equal(t, []string{"alice", "bob"}, decode[[]string](t, users.Data))

	send(t, ctx, bob, proto.InboundTypeLeave, "general")
	users = readEvent(t, ctx, alice, proto.EventUserList)
	require.Equal(t, []string{"alice"}, decode[[]string](t, users.Data))

	send(t, ctx, alice, proto.InboundTypeMsg, proto.MsgData{Room: "general", Text: "still here"})
	readEvent(t, ctx, alice, proto.EventMessage)

	send(t, ctx, bob, proto.InboundTypeHistory, "general")
	history := readEvent(t, ctx, bob, proto.EventHistory)
	require.Equal(t, "general", history.Room)
	messages := decode[[]proto.ChatMessage](t, history.Data)
	require.Len(t, messages, 1)
	require.Equal(t, "still here", messages[0].Text)
}

func TestWebSocketJoinError(t *testing.T) {
	ts, _ := startTestServer(t, nil)
	ctx := testContext(t)

	conn := dial(t, ctx, ts, "alice")
	send(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{Room: "   "})

	f := readFrame(t, ctx, conn)
	require.Equal(t, proto.OutboundTypeEvent, f.Type)
	require.Equal(t, proto.EventJoinError, f.Event)
	require.NotEmpty(t, decode[string](t, f.Data))
}

func TestWebSocketProtocolErrorsKeepConnection(t *testing.T) {
	ts, _ := startTestServer(t, nil)
	ctx := testContext(t)

	conn := dial(t, ctx, ts, "alice")

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("not json")))
	protoErr := readError(t, ctx, conn)
	require.Equal(t, core.ErrCodeBadRequest, protoErr.Code)

	send(t, ctx, conn, "shout", map[string]string{"room": "general"})
	protoErr = readError(t, ctx, conn)
	require.Equal(t, core.ErrCodeUnknownType, protoErr.Code)

	send(t, ctx, conn, proto.InboundTypeMsg, proto.MsgData{Room: " ", Text: "lost"})
	protoErr = readError(t, ctx, conn)
	require.Equal(t, core.ErrCodeInvalidArgument, protoErr.Code)

	send(t, ctx, conn, proto.InboundTypeRoomList, nil)
	rooms := readEvent(t, ctx, conn, proto.EventRoomList)
	require.JSONEq(t, `[]`, string(rooms.Data))
}

func TestWebSocketRateLimit(t *testing.T) {
	ts, _ := startTestServer(t, func(cfg *config.Config) {
		cfg.RateLimitPerMinute = 1
	})
	ctx := testContext(t)

	conn := dial(t, ctx, ts, "alice")

	send(t, ctx, conn, proto.InboundTypeRoomList, nil)
	readEvent(t, ctx, conn, proto.EventRoomList)

	send(t, ctx, conn, proto.InboundTypeRoomList, nil)
	protoErr := readError(t, ctx, conn)
	require.Equal(t, core.ErrCodeRateLimited, protoErr.Code)
}

func TestWebSocketNameFallsBackToConnectionID(t *testing.T) {
	ts, _ := startTestServer(t, nil)
	ctx := testContext(t)

	conn := dial(t, ctx, ts, "")
	send(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{Room: "general"})
	users := readEvent(t, ctx, conn, proto.EventUserList)

	names := decode[[]string](t, users.Data)
	require.Len(t, names, 1)
	require.NotEmpty(t, names[0])
}
