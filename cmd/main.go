package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/cwrk-planet/chat-service/config"
	"github.com/cwrk-planet/chat-service/internal/memstore"
	"github.com/cwrk-planet/chat-service/internal/registry"
	"github.com/cwrk-planet/chat-service/internal/security"
	"github.com/cwrk-planet/chat-service/internal/service"
	grpcx "github.com/cwrk-planet/chat-service/internal/transport/grpc"
	httpx "github.com/cwrk-planet/chat-service/internal/transport/http"
	httpmw "github.com/cwrk-planet/chat-service/internal/transport/http/middleware"
	"github.com/cwrk-planet/chat-service/internal/transport/ws"
	"github.com/cwrk-planet/chat-service/pkg/logger"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"google.golang.org/grpc"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	level, err := logger.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	logger.Init(logger.Config{
		Env:       logger.ParseEnv(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		Level:     level,
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting chat-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- state ---
	store := memstore.New()
	sessions := registry.New()
	hub := ws.NewHub()

	// --- services ---
	chatSvc := service.NewChatService(store, sessions, hub)
	roomSvc := service.NewRoomService(store)

	signer, err := security.NewSessionSigner([]byte(cfg.Session.Secret), cfg.Session.Issuer, cfg.Session.TTL)
	if err != nil {
		log.Fatalf("session signer: %v", err)
	}

	// --- WS ---
	wsServer := ws.NewServer(hub, chatSvc,
		func(r *http.Request) string { return httpmw.DisplayNameFromCtx(r.Context()) },
		ws.Options{
			PingEvery:      cfg.WS.PingEvery,
			SendBuffer:     cfg.WS.SendBuffer,
			MaxMessageSize: cfg.WS.MaxMessageSize,
			AllowedOrigins: cfg.WS.AllowedOrigins,
		})

	// --- HTTP ---
	handler := httpx.NewHandler(roomSvc, signer, httpx.CookieOptions{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
	})
	router := httpx.NewRouter(httpx.Deps{
		Handler:        handler,
		WS:             wsServer.HandleWS,
		Sessions:       signer,
		CookieName:     cfg.Session.CookieName,
		AllowedOrigins: cfg.WS.AllowedOrigins,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	httpLis, err := net.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		log.Fatalf("http listen: %v", err)
	}
	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http serve", "err", err)
		}
	}()

	// --- gRPC (optional) ---
	var grpcServer *grpc.Server
	if cfg.GRPC.Addr != "" {
		grpcServer = grpc.NewServer(
			grpc.ChainUnaryInterceptor(grpcx.UnaryServerInterceptor(cfg.GRPC.CallTimeout)),
		)
		grpcx.Register(grpcServer, grpcx.NewServer(roomSvc))

		grpcLis, err := net.Listen("tcp", cfg.GRPC.Addr)
		if err != nil {
			log.Fatalf("grpc listen: %v", err)
		}
		go func() {
			slog.Info("grpc listen", "addr", cfg.GRPC.Addr)
			if err := grpcServer.Serve(grpcLis); err != nil {
				slog.Error("grpc serve", "err", err)
			}
		}()
	}

	// --- graceful shutdown ---
	ops := map[string]gfshutdown.Operation{
		"http": func(ctx context.Context) error {
			return httpSrv.Shutdown(ctx)
		},
		"websocket": func(ctx context.Context) error {
			hub.Close()
			return nil
		},
	}
	if grpcServer != nil {
		ops["grpc"] = func(ctx context.Context) error {
			grpcServer.GracefulStop()
			return nil
		}
	}

	wait := gfshutdown.GracefulShutdown(context.Background(), cfg.Shutdown.Timeout, ops)

	exitCode := <-wait
	slog.Info("stopped", "exit_code", exitCode)
	os.Exit(exitCode)
}
