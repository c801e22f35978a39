package ws

import (
	"sync"
	"testing"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

type fakeConn struct {
	id string

	mu     sync.Mutex
	got    []Message
	full   bool
	closed bool
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Send(msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return ErrSendBufferFull
	}
	f.got = append(f.got, msg)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.got))
	for _, m := range f.got {
		out = append(out, m.Type)
	}
	return out
}

func ev(name string) domain.Event { return domain.Event{Name: name} }

func TestHub_Targets(t *testing.T) {
	h := NewHub()
	a, b, c := &fakeConn{id: "a"}, &fakeConn{id: "b"}, &fakeConn{id: "c"}
	h.Attach(a)
	h.Attach(b)
	h.Attach(c)
	h.Subscribe("a", "lobby")
	h.Subscribe("b", "lobby")

	h.ToAll(ev("all"))
	h.ToRoom("lobby", ev("room"))
	h.ToConn("c", ev("direct"))
	h.ToConn("missing", ev("lost"))

	if got := a.types(); len(got) != 2 || got[0] != "all" || got[1] != "room" {
		t.Fatalf("a got %v", got)
	}
	if got := b.types(); len(got) != 2 {
		t.Fatalf("b got %v", got)
	}
	if got := c.types(); len(got) != 2 || got[1] != "direct" {
		t.Fatalf("c got %v", got)
	}
	if h.Len() != 3 || h.RoomSize("lobby") != 2 {
		t.Fatalf("len=%d lobby=%d", h.Len(), h.RoomSize("lobby"))
	}
}

func TestHub_UnsubscribeAndDetach(t *testing.T) {
	h := NewHub()
	a, b := &fakeConn{id: "a"}, &fakeConn{id: "b"}
	h.Attach(a)
	h.Attach(b)
	h.Subscribe("a", "x")
	h.Subscribe("a", "y")
	h.Subscribe("b", "x")

	h.Unsubscribe("b", "x")
	h.Unsubscribe("b", "never")
	h.ToRoom("x", ev("x1"))
	if len(b.types()) != 0 {
		t.Fatal("unsubscribed conn received a room event")
	}

	h.Detach("a")
	h.ToRoom("x", ev("x2"))
	h.ToRoom("y", ev("y1"))
	h.ToAll(ev("all"))

	if got := a.types(); len(got) != 1 || got[0] != "x1" {
		t.Fatalf("detached conn got %v", got)
	}
	if h.RoomSize("x") != 0 || h.RoomSize("y") != 0 {
		t.Fatal("detach should clear group membership")
	}
}

func TestHub_SubscribeWithoutAttachIsSkipped(t *testing.T) {
	h := NewHub()
	h.Subscribe("ghost", "lobby")

	// must not panic, nothing to deliver to
	h.ToRoom("lobby", ev("x"))

	if h.RoomSize("lobby") != 1 {
		t.Fatal("group membership is independent of attachment")
	}
}

func TestHub_FullBufferDoesNotBlockOthers(t *testing.T) {
	h := NewHub()
	slow, fast := &fakeConn{id: "slow", full: true}, &fakeConn{id: "fast"}
	h.Attach(slow)
	h.Attach(fast)

	h.ToAll(ev("one"))
	h.ToAll(ev("two"))

	if got := fast.types(); len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Fatalf("fast got %v", got)
	}
}

func TestHub_Close(t *testing.T) {
	h := NewHub()
	a := &fakeConn{id: "a"}
	h.Attach(a)

	h.Close()

	if !a.closed {
		t.Fatal("Close should close attached connections")
	}
}
