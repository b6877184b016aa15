package core

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// TextFilter rewrites chat text before it is stored and broadcast.
type TextFilter interface {
	Censor(text string) string
}

// Option configures a Hub.
type Option func(*Hub)

// WithMaxHistory bounds the per-room message history.
func WithMaxHistory(n int) Option {
	return func(h *Hub) { h.history = NewHistory(n) }
}

// WithClock replaces the clock used to stamp messages.
func WithClock(now func() time.Time) Option {
	return func(h *Hub) { h.now = now }
}

// WithTextFilter runs every chat message through f.
func WithTextFilter(f TextFilter) Option {
	return func(h *Hub) { h.filter = f }
}

type inbound struct {
	client *Client
	cmd    *Command
}

type query struct {
	fn   func()
	done chan struct{}
}

// Hub owns every registry (names, rooms, membership, history) and is their
// only writer. All commands and queries are applied one at a time by Run.
type Hub struct {
	log *zerolog.Logger

	register chan *Client
	inbox    chan inbound
	queries  chan query
	done     chan struct{}

	// owned by the Run goroutine
	clients map[*Client]struct{}
	groups  map[string]*Room
	names   *NameRegistry
	rooms   *RoomDirectory
	members *Membership
	history *History
	filter  TextFilter
	now     func() time.Time
}

// NewHub creates a new chat hub instance. A nil logger disables logging.
func NewHub(logger *zerolog.Logger, opts ...Option) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	h := &Hub{
		log:      logger,
		register: make(chan *Client),
		inbox:    make(chan inbound, 256),
		queries:  make(chan query),
		done:     make(chan struct{}),
		clients:  make(map[*Client]struct{}),
		groups:   make(map[string]*Room),
		names:    NewNameRegistry(),
		rooms:    NewRoomDirectory(),
		members:  NewMembership(),
		history:  NewHistory(MaxHistory),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run processes registrations, commands and queries until ctx is cancelled.
// It must be called exactly once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	h.log.Info().Int("max_history", h.history.Capacity()).Msg("hub started")

	for {
		select {
		case <-ctx.Done():
			h.shutdownClients()
			h.log.Info().Msg("hub stopped")
			return
		case c := <-h.register:
			h.connect(ctx, c)
		case in := <-h.inbox:
			h.dispatch(in.client, in.cmd)
		case q := <-h.queries:
			q.fn()
			close(q.done)
		}
	}
}

// RegisterClient attaches a new connection to the hub and claims its name.
// Commands sent on c.Commands are processed after registration completes.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// UnregisterClient queues the disconnect of c behind any commands it already
// sent. The hub closes c.Events once the session is torn down.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case c.Commands <- &Command{Kind: CommandDisconnect}:
	case <-h.done:
	}
}

// NameAvailable reports whether name is free to claim.
func (h *Hub) NameAvailable(ctx context.Context, name string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, ErrInvalidName
	}
	var available bool
	err := h.do(ctx, func() { available = h.names.Available(name) })
	return available, err
}

// Rooms returns every room created so far.
func (h *Hub) Rooms(ctx context.Context) ([]string, error) {
	var rooms []string
	err := h.do(ctx, func() { rooms = h.rooms.List() })
	return rooms, err
}

// RoomHistory returns the stored messages of a room, oldest first.
func (h *Hub) RoomHistory(ctx context.Context, raw string) ([]Message, error) {
	room, err := NormalizeRoom(raw)
	if err != nil {
		return nil, err
	}
	var messages []Message
	err = h.do(ctx, func() { messages = h.history.Snapshot(room) })
	return messages, err
}

// RoomUsers returns the names present in a room.
func (h *Hub) RoomUsers(ctx context.Context, raw string) ([]string, error) {
	room, err := NormalizeRoom(raw)
	if err != nil {
		return nil, err
	}
	var users []string
	err = h.do(ctx, func() { users = h.members.Users(room) })
	return users, err
}

// do runs fn on the hub goroutine and waits for it. Once the hub has accepted
// fn it always runs to completion, so the wait is not cancellable.
func (h *Hub) do(ctx context.Context, fn func()) error {
	q := query{fn: fn, done: make(chan struct{})}
	select {
	case h.queries <- q:
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubStopped
	}
	<-q.done
	return nil
}

func (h *Hub) connect(ctx context.Context, c *Client) {
	if c == nil {
		h.log.Warn().Msg("received nil client registration; skipping")
		return
	}
	if _, ok := h.clients[c]; ok {
		return
	}
	h.clients[c] = struct{}{}
	h.names.Claim(c.Name)
	h.log.Info().Str("client_id", c.ID).Str("name", c.Name).Int("clients", len(h.clients)).Msg("client connected")

	go h.forward(ctx, c)
}

// forward copies c's commands into the hub inbox in order until the
// disconnect command has been handed over.
func (h *Hub) forward(ctx context.Context, c *Client) {
	for {
		select {
		case cmd := <-c.Commands:
			if cmd == nil {
				continue
			}
			select {
			case h.inbox <- inbound{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			}
			if cmd.Kind == CommandDisconnect {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// shutdownClients closes every event channel so transports can finish.
func (h *Hub) shutdownClients() {
	for c := range h.clients {
		close(c.Events)
		delete(h.clients, c)
	}
}
