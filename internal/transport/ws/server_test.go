package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/memstore"
	"github.com/cwrk-planet/chat-service/internal/registry"
	"github.com/cwrk-planet/chat-service/internal/service"

	"github.com/gorilla/websocket"
)

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	AckID   string          `json:"ack_id"`
}

func newTestServer(t *testing.T, opts Options) (*httptest.Server, *Hub) {
	t.Helper()

	hub := NewHub()
	chat := service.NewChatService(memstore.New(), registry.New(), hub)
	identity := func(r *http.Request) string { return r.URL.Query().Get("name") }
	srv := httptest.NewServer(http.HandlerFunc(NewServer(hub, chat, identity, opts).HandleWS))
	t.Cleanup(srv.Close)
	return srv, hub
}

func dial(t *testing.T, srv *httptest.Server, name string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?name=" + name
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", name, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg Message) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// expect reads frames until one of type typ arrives.
func expect(t *testing.T, conn *websocket.Conn, typ string) frame {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("waiting for %s: %v", typ, err)
		}
		if f.Type == typ {
			return f
		}
	}
}

func TestServer_RoomChatEndToEnd(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	alice := dial(t, srv, "alice")
	expect(t, alice, domain.EventUserConnected)
	bob := dial(t, srv, "bob")
	expect(t, bob, domain.EventUserConnected)

	send(t, alice, Message{Type: TypeJoinRoom, Payload: RoomPayload{Room: "lobby"}})
	hist := expect(t, alice, domain.EventLoadMessages)
	var h domain.HistoryPayload
	if err := json.Unmarshal(hist.Payload, &h); err != nil || len(h.Messages) != 0 {
		t.Fatalf("load_messages = %s, %v", hist.Payload, err)
	}

	send(t, bob, Message{Type: TypeJoinRoom, Payload: RoomPayload{Room: "lobby"}})
	joined := expect(t, alice, domain.EventUserJoined)
	var mp domain.MembershipPayload
	if err := json.Unmarshal(joined.Payload, &mp); err != nil {
		t.Fatal(err)
	}
	if mp.Username != "bob" || len(mp.Users) != 2 {
		t.Fatalf("user_joined = %+v", mp)
	}
	expect(t, bob, domain.EventLoadMessages)

	send(t, alice, Message{Type: TypeSendMessage, Payload: SendMessagePayload{Room: "lobby", Message: "hi bob"}})
	got := expect(t, bob, domain.EventReceiveMessage)
	var cm domain.ChatMessagePayload
	if err := json.Unmarshal(got.Payload, &cm); err != nil {
		t.Fatal(err)
	}
	if cm.Username != "alice" || cm.Message != "hi bob" || len(cm.Timestamp) != len("15:04:05") {
		t.Fatalf("receive_message = %+v", cm)
	}

	_ = bob.Close()
	left := expect(t, alice, domain.EventUserLeft)
	if err := json.Unmarshal(left.Payload, &mp); err != nil {
		t.Fatal(err)
	}
	if mp.Username != "bob" || len(mp.Users) != 1 || mp.Users[0] != "alice" {
		t.Fatalf("user_left = %+v", mp)
	}
	expect(t, alice, domain.EventUserDisconnected)
}

func TestServer_CreateRoomAck(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	alice := dial(t, srv, "alice")
	expect(t, alice, domain.EventUserConnected)

	send(t, alice, Message{Type: TypeCreateRoom, Payload: CreateRoomPayload{RoomName: "lobby"}, AckID: "1"})
	expect(t, alice, domain.EventRoomCreated)
	ack := expect(t, alice, TypeAck)
	var p AckPayload
	if err := json.Unmarshal(ack.Payload, &p); err != nil {
		t.Fatal(err)
	}
	if p.AckID != "1" || !p.Success || p.Message != `Room "lobby" created!` {
		t.Fatalf("ack = %+v", p)
	}

	send(t, alice, Message{Type: TypeCreateRoom, Payload: CreateRoomPayload{RoomName: "lobby"}, AckID: "2"})
	ack = expect(t, alice, TypeAck)
	if err := json.Unmarshal(ack.Payload, &p); err != nil {
		t.Fatal(err)
	}
	if p.AckID != "2" || p.Success || p.Message != "Room already exists!" {
		t.Fatalf("ack = %+v", p)
	}
}

func TestServer_DetachOnClose(t *testing.T) {
	srv, hub := newTestServer(t, Options{})

	alice := dial(t, srv, "alice")
	expect(t, alice, domain.EventUserConnected)
	if hub.Len() != 1 {
		t.Fatalf("hub len = %d, want 1", hub.Len())
	}

	_ = alice.Close()

	deadline := time.Now().Add(3 * time.Second)
	for hub.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("connection still attached after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServer_RejectsUnknownOrigin(t *testing.T) {
	srv, _ := newTestServer(t, Options{AllowedOrigins: []string{"http://chat.example"}})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?name=eve"
	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("dial should fail for a foreign origin")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("resp = %v", resp)
	}
}

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"wildcard", []string{"*"}, "http://any", true},
		{"empty list allows all", nil, "http://any", true},
		{"exact match", []string{"http://a.example"}, "http://a.example", true},
		{"trailing slash and case", []string{"http://A.example/"}, "http://a.example", true},
		{"mismatch", []string{"http://a.example"}, "http://b.example", false},
		{"no origin header", []string{"http://a.example"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := originChecker(tt.allowed)(r); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
