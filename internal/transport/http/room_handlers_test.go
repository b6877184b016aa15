package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kwonsunuk/chat-app-socket/internal/proto"
)

func getJSON(t *testing.T, ts *httptest.Server, path string, wantStatus int, out any) {
	t.Helper()

	resp, err := ts.Client().Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, wantStatus, resp.StatusCode, "GET %s", path)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestRoomEndpoints(t *testing.T) {
	ts, _ := startTestServer(t, nil)
	ctx := testContext(t)

	var list RoomListResponse
	getJSON(t, ts, "/rooms", http.StatusOK, &list)
	require.NotNil(t, list.Rooms)
	require.Empty(t, list.Rooms)

	alice := dial(t, ctx, ts, "alice")
	joinRoom(t, ctx, alice, "general")
	joinRoom(t, ctx, alice, "random")
	send(t, ctx, alice, proto.InboundTypeMsg, proto.MsgData{Room: "general", Text: "hello"})
	readEvent(t, ctx, alice, proto.EventMessage)

	getJSON(t, ts, "/rooms", http.StatusOK, &list)
	require.Equal(t, []string{"general", "random"}, list.Rooms)

	var history RoomHistoryResponse
	getJSON(t, ts, "/rooms/general/history", http.StatusOK, &history)
	require.Equal(t, "general", history.Room)
	require.Len(t, history.Messages, 1)
	require.Equal(t, "alice", history.Messages[0].User)
	require.Equal(t, "hello", history.Messages[0].Text)

	var users RoomUsersResponse
	getJSON(t, ts, "/rooms/random/users", http.StatusOK, &users)
	require.Equal(t, RoomUsersResponse{Room: "random", Users: []string{"alice"}}, users)

	var empty RoomHistoryResponse
	getJSON(t, ts, "/rooms/nowhere/history", http.StatusOK, &empty)
	require.NotNil(t, empty.Messages)
	require.Empty(t, empty.Messages)

	var errResp ErrorResponse
	getJSON(t, ts, "/rooms/%20/users", http.StatusBadRequest, &errResp)
	require.NotEmpty(t, errResp.Error)
}

func TestCheckName(t *testing.T) {
	ts, _ := startTestServer(t, nil)
	ctx := testContext(t)

	var check CheckNameResponse
	getJSON(t, ts, "/check-name?name=alice", http.StatusOK, &check)
	require.True(t, check.Available)

	alice := dial(t, ctx, ts, "alice")
	// Any reply proves the connection has been registered.
	send(t, ctx, alice, proto.InboundTypeRoomList, nil)
	readEvent(t, ctx, alice, proto.EventRoomList)

	getJSON(t, ts, "/check-name?name=alice", http.StatusOK, &check)
	require.False(t, check.Available)

	for _, path := range []string{"/check-name", "/check-name?name=", "/check-name?name=%20%20"} {
		var bad CheckNameResponse
		getJSON(t, ts, path, http.StatusBadRequest, &bad)
		require.False(t, bad.Available)
		require.Equal(t, "name is required", bad.Message)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts, _ := startTestServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/rooms", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCORSRestrictedOrigins(t *testing.T) {
	handler := CORSMiddleware([]string{"https://chat.example"})
	router := newTestRouter(handler)

	allowed := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://chat.example")
	router.ServeHTTP(allowed, req)
	require.Equal(t, "https://chat.example", allowed.Header().Get("Access-Control-Allow-Origin"))

	denied := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	router.ServeHTTP(denied, req)
	require.Empty(t, denied.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, http.StatusOK, denied.Code)
}
