package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"
	httpmw "github.com/cwrk-planet/chat-service/internal/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type RoomReader interface {
	ListRooms() []string
	GetRoom(name string) (domain.Room, error)
	History(name, cursor string, limit int) ([]domain.Message, string, error)
}

type SessionIssuer interface {
	Sign(displayName string, now time.Time) (string, error)
	TTL() time.Duration
}

type CookieOptions struct {
	Name   string
	Secure bool
}

type Handler struct {
	rooms  RoomReader
	issuer SessionIssuer
	cookie CookieOptions
	now    func() time.Time
}

func NewHandler(rooms RoomReader, issuer SessionIssuer, cookie CookieOptions) *Handler {
	if cookie.Name == "" {
		cookie.Name = "chat_session"
	}
	return &Handler{
		rooms:  rooms,
		issuer: issuer,
		cookie: cookie,
		now:    time.Now,
	}
}

// POST /login
//
// Accepts a form or a JSON body. Form posts are redirected: to /chat on
// success, back to / when the name is blank. JSON callers get a body instead.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	asJSON := isJSON(r)

	var username string
	if asJSON {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		username = req.Username
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		username = r.PostFormValue("username")
	}

	username = strings.TrimSpace(username)
	if username == "" {
		if asJSON {
			writeError(w, http.StatusBadRequest, "username is required")
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	token, err := h.issuer.Sign(username, h.now())
	if err != nil {
		slog.Error("handler.Login.Sign", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "could not start session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.issuer.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	slog.Info("user logged in", "username", username)

	if asJSON {
		writeOK(w, LoginResponse{Username: username})
		return
	}
	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}

// GET /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GET /chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	name := httpmw.DisplayNameFromCtx(r.Context())
	if name == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeOK(w, ChatPageResponse{Username: name, Rooms: h.rooms.ListRooms()})
}

// GET /api/rooms
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	writeOK(w, RoomsListResponse{Items: h.rooms.ListRooms()})
}

// GET /api/rooms/{name}
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.rooms.GetRoom(chi.URLParam(r, "name"))
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		slog.Error("handler.GetRoom", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	members := room.Members
	if members == nil {
		members = []string{}
	}
	writeOK(w, RoomItem{
		Name:         room.Name,
		Members:      members,
		MessageCount: len(room.History),
	})
}

// GET /api/rooms/{name}/messages?cursor=&limit=
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	items, next, err := h.rooms.History(chi.URLParam(r, "name"), r.URL.Query().Get("cursor"), limit)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCursor):
			writeError(w, http.StatusBadRequest, "invalid cursor")
		case errors.Is(err, domain.ErrRoomNotFound):
			writeError(w, http.StatusNotFound, "room not found")
		default:
			slog.Error("handler.GetHistory", slog.Any("err", err))
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	resp := ChatHistoryResponse{Items: make([]ChatMessageItem, 0, len(items)), NextCursor: next}
	for _, m := range items {
		resp.Items = append(resp.Items, ChatMessageItem{
			Username:  m.Author,
			Message:   m.Text,
			Timestamp: m.SentAt,
		})
	}
	writeOK(w, resp)
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}
