package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hellchat/internal/config"
	"hellchat/internal/httpserver"
	"hellchat/internal/logging"
	"hellchat/internal/metrics"
	"hellchat/internal/security"
	"hellchat/internal/service"
	"hellchat/internal/store"
	"hellchat/internal/ws"
)

// @title           hellchat API
// @version         1.0
// @description     Messaging backend: users, direct messages and group chats.

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host            localhost:8000
// @BasePath        /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @securityDefinitions.apikey UserID
// @in header
// @name X-User-Id

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	st, err := store.Open(cfg)
	if err != nil {
		slog.Error("failed to open database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	// Security components
	tokenSvc := security.NewTokenService(cfg.JWTSecret, cfg.TokenTTL())
	passwordHasher := security.NewPasswordHasher(cfg.BcryptCost)
	encryptor, err := security.NewEncryptor(cfg.EncryptKey, cfg.LegacyEncryptKeys)
	if err != nil {
		slog.Error("failed to initialize encryptor", "error", err)
		os.Exit(1)
	}
	if !encryptor.Enabled() {
		slog.Warn("ENCRYPTION_KEY not set, message text is stored in plaintext")
	}
	if tokenSvc == nil {
		slog.Warn("JWT_SECRET not set, callers are identified by the X-User-Id header")
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	hub := ws.NewHub(m)
	msgSvc := service.NewMessageService(st.Users, st.Groups, st.Messages, service.MessageOptions{
		Location:               cfg.TimeLocation,
		RequireGroupMembership: cfg.GroupHistoryRequiresMembership,
		Encryptor:              encryptor,
		Notifier:               hub,
		Metrics:                m,
	})

	router := httpserver.NewRouter(httpserver.Deps{
		Config:   cfg,
		Store:    st,
		Auth:     service.NewAuthService(st.Users, tokenSvc, passwordHasher),
		Users:    service.NewUserService(st.Users),
		Groups:   service.NewGroupService(st.Groups),
		Messages: msgSvc,
		Hub:      hub,
		Metrics:  m,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("starting server", "app", cfg.AppName, "addr", cfg.HTTPAddr(), "env", cfg.Env, "db", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
