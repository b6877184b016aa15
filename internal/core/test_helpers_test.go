package core

import (
	"context"
	"testing"
	"time"
)

func startHub(t *testing.T, opts ...Option) *Hub {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	hub := NewHub(nil, opts...)
	go hub.Run(ctx)
	return hub
}

func connect(hub *Hub, id, name string) *Client {
	c := NewClient(id, name, 0)
	hub.RegisterClient(c)
	return c
}

// joinRoom sends a join and waits for the history reply, which the hub emits
// last, so every side effect of the join is visible afterwards.
func joinRoom(t *testing.T, c *Client, room string) *Event {
	t.Helper()
	c.Commands <- &Command{Kind: CommandJoinRoom, Room: room}
	return mustEvent(t, c.Events, EventHistory)
}

// flush waits until every command c sent so far has been processed.
func flush(t *testing.T, c *Client) {
	t.Helper()
	c.Commands <- &Command{Kind: CommandRequestRoomList}
	mustEvent(t, c.Events, EventRoomList)
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()
	return mustEventMatching(t, ch, kind, func(*Event) bool { return true })
}

func mustEventMatching(t *testing.T, ch <-chan *Event, kind EventKind, match func(*Event) bool) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("event channel closed while waiting for kind %v", kind)
			}
			if ev == nil {
				continue
			}
			if ev.Kind == kind && match(ev) {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func expectNoEvent(t *testing.T, ch <-chan *Event, kind EventKind, wait time.Duration) {
	t.Helper()

	deadline := time.After(wait)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event kind %v: %+v", kind, ev)
			}
		case <-deadline:
			return
		}
	}
}

func mustClose(t *testing.T, ch <-chan *Event) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("event channel was not closed")
		}
	}
}

// stepClock returns a clock advancing one millisecond per call. It is only
// called from the hub goroutine.
func stepClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Millisecond)
	}
}
