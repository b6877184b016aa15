package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Kwonsunuk/chat-app-socket/internal/config"
	"github.com/Kwonsunuk/chat-app-socket/internal/core"
)

// NewServer builds an HTTP server with the REST routes and the WebSocket
// endpoint. /ws stays on the plain mux: gin's response writer refuses the
// hijack after the upgrade response has been written.
func NewServer(hub *core.Hub, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(hub, cfg, logger))
	mux.Handle("/", NewRouter(hub, cfg, logger))

	return &stdhttp.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewRouter builds the gin engine serving the REST routes.
func NewRouter(hub *core.Hub, cfg config.Config, logger *zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.AllowedOrigins))

	userHandlers := NewUserHandlers(hub, logger)
	roomHandlers := NewRoomHandlers(hub, logger)

	router.GET("/health", healthHandler)
	router.GET("/check-name", userHandlers.CheckName)
	router.GET("/rooms", roomHandlers.ListRooms)
	router.GET("/rooms/:room/history", roomHandlers.GetHistory)
	router.GET("/rooms/:room/users", roomHandlers.GetUsers)

	return router
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
