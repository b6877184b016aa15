package core

import "time"

// Message is the domain model for a chat message. It is never modified after
// the hub stamps it.
type Message struct {
	Room      string
	From      string
	Text      string
	CreatedAt time.Time
}

// UnixMilli returns the message timestamp in epoch milliseconds.
func (m Message) UnixMilli() int64 {
	return m.CreatedAt.UnixMilli()
}
