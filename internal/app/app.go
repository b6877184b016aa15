package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Kwonsunuk/chat-app-socket/internal/config"
	"github.com/Kwonsunuk/chat-app-socket/internal/core"
	"github.com/Kwonsunuk/chat-app-socket/internal/moderation"
	transporthttp "github.com/Kwonsunuk/chat-app-socket/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	opts := []core.Option{core.WithMaxHistory(cfg.MaxHistory)}

	moderator, err := moderation.NewModerator(cfg.CensoredWords, moderation.DefaultMask)
	if err != nil {
		return nil, fmt.Errorf("init moderator: %w", err)
	}
	if moderator != nil {
		opts = append(opts, core.WithTextFilter(moderator))
		logger.Info().Int("words", len(cfg.CensoredWords)).Msg("chat moderation enabled")
	}

	hub := core.NewHub(logger, opts...)
	server := transporthttp.NewServer(hub, *cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	hubCtx, stopHub := context.WithCancel(context.WithoutCancel(ctx))
	defer stopHub()
	go a.hub.Run(hubCtx)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		// Stopping the hub closes every client's event stream, which ends
		// the open WebSocket sessions.
		stopHub()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
