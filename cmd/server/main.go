package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/joho/godotenv"

	"socialboard/internal/auth"
	"socialboard/internal/config"
	"socialboard/internal/httpapi"
	"socialboard/internal/service"
	"socialboard/internal/store/postgres"
	"socialboard/internal/webui"
)

func main() {
	// .env is a dev convenience only; missing files are fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)

	var (
		authSvc         *service.AuthService
		friendsSvc      *service.FriendsService
		conversationSvc *service.ConversationService
		feedSvc         *service.FeedService
		usersSvc        *service.UsersService
		profileSvc      *service.ProfileService
		dbPing          func(context.Context) error
	)

	if cfg.DBDSN != "" {
		pgPool, err := postgres.Open(context.Background(), cfg.DBDSN)
		if err != nil {
			logger.Error("db open failed", "err", err)
			os.Exit(1)
		}
		defer pgPool.Close()

		if err := postgres.EnsureSchema(context.Background(), pgPool); err != nil {
			logger.Error("schema setup failed", "err", err)
			os.Exit(1)
		}

		users := postgres.NewUsersStore(pgPool)
		sessions := postgres.NewSessionsStore(pgPool)
		friendships := postgres.NewFriendshipsStore(pgPool)
		messages := postgres.NewMessagesStore(pgPool)
		posts := postgres.NewPostsStore(pgPool)
		userSearch := postgres.NewUserSearchStore(pgPool)

		authSvc = &service.AuthService{
			Users:      users,
			Sessions:   sessions,
			SessionTTL: cfg.SessionTTL,
		}
		friendsSvc = &service.FriendsService{
			Users:       users,
			Friendships: friendships,
		}
		conversationSvc = &service.ConversationService{
			Users:    users,
			Friends:  friendsSvc,
			Messages: messages,
		}
		feedSvc = &service.FeedService{Posts: posts}
		usersSvc = &service.UsersService{Users: users, Search: userSearch}
		profileSvc = &service.ProfileService{Store: users}
		dbPing = pgPool.Ping
	}

	codec := auth.NewCookieCodec([]byte(cfg.CookieSecret))

	var ui http.Handler
	if authSvc != nil {
		ui = webui.New(webui.Opts{
			Logger:       logger,
			Auth:         authSvc,
			Friends:      friendsSvc,
			Feed:         feedSvc,
			Users:        usersSvc,
			Profile:      profileSvc,
			CookieCodec:  codec,
			CookieSecure: cfg.CookieSecure(),
			SessionTTL:   cfg.SessionTTL,
			UploadDir:    cfg.UploadDir,
		})
	}

	router := httpapi.NewRouter(httpapi.RouterOpts{
		Logger:        logger,
		IsProd:        cfg.IsProd(),
		DBPing:        dbPing,
		Auth:          authSvc,
		Friends:       friendsSvc,
		Conversations: conversationSvc,
		Feed:          feedSvc,
		Users:         usersSvc,
		Profile:       profileSvc,
		CookieCodec:   codec,
		CookieSecure:  cfg.CookieSecure(),
		SessionTTL:    cfg.SessionTTL,
		UploadDir:     cfg.UploadDir,
		WebUI:         ui,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "env", cfg.Env, "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
