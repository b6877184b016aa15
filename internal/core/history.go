package core

// MaxHistory is the default number of messages kept per room.
const MaxHistory = 100

// History keeps the most recent messages of every room, oldest first.
type History struct {
	capacity int
	logs     map[string][]Message
}

// NewHistory returns a history bounded to capacity messages per room.
// A non-positive capacity falls back to MaxHistory.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = MaxHistory
	}
	return &History{
		capacity: capacity,
		logs:     make(map[string][]Message),
	}
}

// Append adds msg to the room's log and returns the stored message. A
// timestamp older than the room's last message is raised to it so the log
// stays ordered. Times are compared by their wall-clock milliseconds, the
// value clients see. When the log grows past capacity the oldest entry is
// evicted.
func (h *History) Append(room string, msg Message) Message {
	log := h.logs[room]
	msg.CreatedAt = msg.CreatedAt.Round(0)
	if n := len(log); n > 0 && msg.UnixMilli() < log[n-1].UnixMilli() {
		msg.CreatedAt = log[n-1].CreatedAt
	}
	msg.Room = room

	if len(log) >= h.capacity {
		copy(log, log[1:])
		log[len(log)-1] = msg
	} else {
		log = append(log, msg)
	}
	h.logs[room] = log
	return msg
}

// Snapshot returns a copy of the room's log. Unknown rooms yield an empty,
// non-nil slice.
func (h *History) Snapshot(room string) []Message {
	log := h.logs[room]
	out := make([]Message, len(log))
	copy(out, log)
	return out
}

// Len returns the number of messages stored for room.
func (h *History) Len(room string) int {
	return len(h.logs[room])
}

// Capacity returns the per-room bound.
func (h *History) Capacity() int {
	return h.capacity
}
