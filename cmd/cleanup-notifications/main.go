// Command cleanup-notifications deletes read notifications older than the
// retention period. It is intended to be invoked by an external cron job,
// not as an in-process goroutine.
//
// Usage:
//
//	cleanup-notifications [--retention=720h]
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/devverse/devverse-backend/internal/adapter/postgres"
	"github.com/devverse/devverse-backend/internal/adapter/postgres/notification"
	"github.com/devverse/devverse-backend/internal/app"
	"github.com/devverse/devverse-backend/internal/config"
	notificationsvc "github.com/devverse/devverse-backend/internal/service/notification"
)

func main() {
	retention := flag.Duration("retention", 30*24*time.Hour, "how long read notifications are kept")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := notificationsvc.NewService(logger, notification.New(pool))

	deleted, err := svc.PurgeRead(ctx, *retention)
	if err != nil {
		logger.Error("purge failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("purge completed",
		slog.Int64("deleted", deleted),
		slog.Duration("retention", *retention),
	)
}
