package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Kwonsunuk/chat-app-socket/internal/core"
)

// UserHandlers provides HTTP handlers for display names.
type UserHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewUserHandlers creates a new user handlers instance.
func NewUserHandlers(hub *core.Hub, logger *zerolog.Logger) *UserHandlers {
	return &UserHandlers{
		hub: hub,
		log: logger,
	}
}

// CheckNameRequest is the query of a name availability check.
type CheckNameRequest struct {
	Name string `form:"name" binding:"required"`
}

// CheckNameResponse reports whether a display name is free.
type CheckNameResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CheckName reports whether a name is currently claimed by a connection.
// GET /check-name?name=<name>
func (h *UserHandlers) CheckName(c *gin.Context) {
	var req CheckNameRequest
	if err := c.ShouldBindQuery(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, CheckNameResponse{Available: false, Message: core.ErrInvalidName.Error()})
		return
	}

	available, err := h.hub.NameAvailable(c.Request.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		if errors.Is(err, core.ErrHubStopped) {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "server is shutting down"})
			return
		}
		h.log.Error().Err(err).Str("name", req.Name).Msg("failed to check name")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Debug().Str("name", req.Name).Bool("available", available).Msg("name checked")
	c.JSON(http.StatusOK, CheckNameResponse{Available: available})
}
