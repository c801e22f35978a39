package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

type ChatSvc interface {
	Connect(connID, displayName string)
	Disconnect(connID string)
	CreateRoom(connID, roomName string) (domain.CreateRoomResult, bool)
	JoinRoom(connID, room string)
	LeaveRoom(connID, room string)
	SendMessage(connID, room, text string)
}

// IdentityFunc returns the display name established by the login step, or ""
// for an anonymous client.
type IdentityFunc func(r *http.Request) string

type Options struct {
	PingEvery      time.Duration
	SendBuffer     int
	MaxMessageSize int64
	AllowedOrigins []string // "*" allows any origin
}

type Server struct {
	upgrader websocket.Upgrader
	hub      *Hub
	chat     ChatSvc
	identity IdentityFunc

	pingEvery      time.Duration
	sendBuffer     int
	maxMessageSize int64
}

func NewServer(hub *Hub, chat ChatSvc, identity IdentityFunc, opts Options) *Server {
	if opts.PingEvery <= 0 {
		opts.PingEvery = 15 * time.Second
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 64
	}
	if opts.MaxMessageSize <= 0 {
		opts.MaxMessageSize = 1 << 16
	}
	if identity == nil {
		identity = func(*http.Request) string { return "" }
	}

	return &Server{
		hub:      hub,
		chat:     chat,
		identity: identity,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(opts.AllowedOrigins),
		},
		pingEvery:      opts.PingEvery,
		sendBuffer:     opts.SendBuffer,
		maxMessageSize: opts.MaxMessageSize,
	}
}

// HandleWS serves GET /ws. The display name is resolved once, before the
// upgrade, and stays bound to the connection for its lifetime.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(s.identity(r))

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	c := newWsConn(conn, uuid.NewString(), s.sendBuffer)
	s.hub.Attach(c)
	go s.writeLoop(c)

	s.chat.Connect(c.id, name)
	s.readLoop(c)

	s.hub.Detach(c.id)
	s.chat.Disconnect(c.id)

	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "conn", c.id, "err", err)
	}
}

func (s *Server) readLoop(c *wsConn) {
	c.conn.SetReadLimit(s.maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("ws read failed", "conn", c.id, "err", err)
			}
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Debug("ws bad frame", "conn", c.id, "err", err)
			continue
		}
		s.dispatch(c, msg)
	}
}

func (s *Server) dispatch(c *wsConn, msg Message) {
	switch msg.Type {
	case TypeCreateRoom:
		var p CreateRoomPayload
		if decode(msg.Payload, &p) != nil {
			return
		}
		res, ok := s.chat.CreateRoom(c.id, p.RoomName)
		if !ok || msg.AckID == "" {
			return
		}
		if err := c.Send(Message{
			Type:    TypeAck,
			Payload: AckPayload{AckID: msg.AckID, Success: res.Success, Message: res.Message},
		}); err != nil {
			slog.Warn("ws ack dropped", "conn", c.id, "err", err)
		}
	case TypeJoinRoom:
		var p RoomPayload
		if decode(msg.Payload, &p) == nil {
			s.chat.JoinRoom(c.id, p.Room)
		}
	case TypeLeaveRoom:
		var p RoomPayload
		if decode(msg.Payload, &p) == nil {
			s.chat.LeaveRoom(c.id, p.Room)
		}
	case TypeSendMessage:
		var p SendMessagePayload
		if decode(msg.Payload, &p) == nil {
			s.chat.SendMessage(c.id, p.Room, p.Message)
		}
	default:
		slog.Debug("ws unknown event", "conn", c.id, "type", msg.Type)
	}
}

func (s *Server) writeLoop(c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				slog.Debug("ws write failed", "conn", c.id, "err", err)
				_ = c.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				_ = c.Close()
				return
			}
		case <-c.closed:
			return
		}
	}
}

// --- helpers ---

func decode(payload any, dst any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, dst)
}

func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		if o != "" {
			set[strings.ToLower(o)] = struct{}{}
		}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.ToLower(strings.TrimRight(origin, "/"))]
		return ok
	}
}
