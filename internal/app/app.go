package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql

	"github.com/devverse/devverse-backend/internal/adapter/media"
	"github.com/devverse/devverse-backend/internal/adapter/postgres"
	messagerepo "github.com/devverse/devverse-backend/internal/adapter/postgres/message"
	notificationrepo "github.com/devverse/devverse-backend/internal/adapter/postgres/notification"
	postrepo "github.com/devverse/devverse-backend/internal/adapter/postgres/post"
	userrepo "github.com/devverse/devverse-backend/internal/adapter/postgres/user"
	"github.com/devverse/devverse-backend/internal/auth"
	"github.com/devverse/devverse-backend/internal/config"
	"github.com/devverse/devverse-backend/internal/relay"
	messagesvc "github.com/devverse/devverse-backend/internal/service/message"
	notificationsvc "github.com/devverse/devverse-backend/internal/service/notification"
	postsvc "github.com/devverse/devverse-backend/internal/service/post"
	usersvc "github.com/devverse/devverse-backend/internal/service/user"
	"github.com/devverse/devverse-backend/internal/transport/middleware"
	"github.com/devverse/devverse-backend/internal/transport/rest"
	"github.com/devverse/devverse-backend/internal/transport/ws"
)

// Run is the application entry point. It loads configuration, wires the
// storage, service, relay and transport layers, and serves HTTP until the
// context is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.MigrateOnStart {
		if err := migrate(ctx, cfg.Database); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	users := userrepo.New(pool)
	posts := postrepo.New(pool)
	messages := messagerepo.New(pool)
	notifications := notificationrepo.New(pool)

	uploader, err := media.NewUploader(cfg.Media)
	if err != nil {
		return fmt.Errorf("create media uploader: %w", err)
	}

	userService := usersvc.NewService(logger, users, notifications, txManager)
	postService := postsvc.NewService(logger, posts, users, notifications, uploader, txManager)
	messageService := messagesvc.NewService(logger, messages)
	notificationService := notificationsvc.NewService(logger, notifications)

	registry := relay.NewRegistry()
	relaySvc := relay.New(logger, registry, messages, notifications, cfg.Relay)

	verifier := auth.NewVerifier(cfg.Auth.TokenSecret, cfg.Auth.Issuer)

	mux := rest.NewRouter(rest.Handlers{
		Health:        rest.NewHealthHandler(pool, registry, BuildVersion()),
		Users:         rest.NewUsersHandler(userService, logger),
		Posts:         rest.NewPostsHandler(postService, logger, cfg.Media.MaxUploadSize),
		Messages:      rest.NewMessagesHandler(messageService, logger),
		Notifications: rest.NewNotificationsHandler(notificationService, logger),
		Relay:         ws.NewHandler(relaySvc, cfg.Relay, logger),
	})

	mws := []middleware.Middleware{
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.CORS(cfg.CORS),
		middleware.Auth(verifier),
		middleware.Logger(logger),
	}
	if cfg.Server.RateLimitPerMinute > 0 {
		limiter := middleware.NewRateLimiter(5 * time.Minute)
		defer limiter.Stop()
		mws = append(mws, limiter.Limit(cfg.Server.RateLimitPerMinute))
	}
	handler := middleware.Chain(mws...)(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}

// migrate applies pending goose migrations. goose requires *sql.DB, so this
// opens a short-lived database/sql connection separate from the pgx pool.
func migrate(ctx context.Context, cfg config.DatabaseConfig) error {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(cfg.MigrationsDir))
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}
