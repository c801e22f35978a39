package http

import (
	"net/http"
	"time"

	httpmw "github.com/cwrk-planet/chat-service/internal/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Deps struct {
	Handler  *Handler
	WS       http.HandlerFunc
	Sessions httpmw.SessionParser

	CookieName     string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(d Deps) http.Handler {
	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)
	r.Use(httpmw.RequestLogger)
	r.Use(httpmw.Identity(d.Sessions, d.CookieName))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// long-lived, kept out of the timeout group
	r.Get("/ws", d.WS)

	r.Group(func(pr chi.Router) {
		pr.Use(middlewareChi.Timeout(timeout))

		pr.Post("/login", d.Handler.Login)
		pr.Get("/logout", d.Handler.Logout)
		pr.Get("/chat", d.Handler.Chat)

		pr.Route("/api/rooms", func(rm chi.Router) {
			rm.Get("/", d.Handler.ListRooms)
			rm.Route("/{name}", func(rr chi.Router) {
				rr.Get("/", d.Handler.GetRoom)
				rr.Get("/messages", d.Handler.GetHistory)
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
