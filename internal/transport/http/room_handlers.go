package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Kwonsunuk/chat-app-socket/internal/core"
)

// RoomHandlers exposes read-only views of rooms over HTTP.
type RoomHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(hub *core.Hub, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		hub: hub,
		log: logger,
	}
}

// RoomListResponse lists every room created so far.
type RoomListResponse struct {
	Rooms []string `json:"rooms"`
}

// RoomHistoryResponse carries a room's stored messages, oldest first.
type RoomHistoryResponse struct {
	Room     string            `json:"room"`
	Messages []MessageResponse `json:"messages"`
}

// MessageResponse is a chat message. Time is epoch milliseconds.
type MessageResponse struct {
	User string `json:"user"`
	Text string `json:"text"`
	Time int64  `json:"time"`
}

// RoomUsersResponse lists the names present in a room.
type RoomUsersResponse struct {
	Room  string   `json:"room"`
	Users []string `json:"users"`
}

// ListRooms handles listing rooms.
// GET /rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	rooms, err := h.hub.Rooms(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to list rooms")
		return
	}

	h.log.Debug().Int("room_count", len(rooms)).Msg("rooms listed")
	c.JSON(http.StatusOK, RoomListResponse{Rooms: rooms})
}

// GetHistory returns the message history of a room.
// GET /rooms/:room/history
func (h *RoomHandlers) GetHistory(c *gin.Context) {
	room, err := core.NormalizeRoom(c.Param("room"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	messages, err := h.hub.RoomHistory(c.Request.Context(), room)
	if err != nil {
		h.fail(c, err, "failed to read room history")
		return
	}

	response := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		response = append(response, MessageResponse{
			User: msg.From,
			Text: msg.Text,
			Time: msg.UnixMilli(),
		})
	}
	c.JSON(http.StatusOK, RoomHistoryResponse{Room: room, Messages: response})
}

// GetUsers returns the members of a room.
// GET /rooms/:room/users
func (h *RoomHandlers) GetUsers(c *gin.Context) {
	room, err := core.NormalizeRoom(c.Param("room"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	users, err := h.hub.RoomUsers(c.Request.Context(), room)
	if err != nil {
		h.fail(c, err, "failed to read room users")
		return
	}
	c.JSON(http.StatusOK, RoomUsersResponse{Room: room, Users: users})
}

func (h *RoomHandlers) fail(c *gin.Context, err error, msg string) {
	if errors.Is(err, core.ErrHubStopped) {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "server is shutting down"})
		return
	}
	h.log.Error().Err(err).Msg(msg)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
