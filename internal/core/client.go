package core

// DefaultClientBuffer is the channel capacity used when NewClient gets a
// non-positive buffer size.
const DefaultClientBuffer = 64

// Client is one connection's session as seen by the core layer: the name
// supplied at handshake and the rooms it has joined. Rooms is owned by the
// hub goroutine.
type Client struct {
	ID       string
	Name     string
	Commands chan *Command
	Events   chan *Event
	Rooms    map[string]struct{}
}

// NewClient constructs a client with initialized channels.
// An empty name falls back to the connection id.
func NewClient(id, name string, buffer int) *Client {
	if name == "" {
		name = id
	}
	if buffer <= 0 {
		buffer = DefaultClientBuffer
	}
	return &Client{
		ID:       id,
		Name:     name,
		Commands: make(chan *Command, buffer),
		Events:   make(chan *Event, buffer),
		Rooms:    make(map[string]struct{}),
	}
}
