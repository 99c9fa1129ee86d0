// Command recompute walks the word catalog and rewrites stored values that
// no longer match the engine, e.g. after a table correction.
//
// Flags:
//
//	--dry-run    count changed words without writing
//	--page-size  words read per page (default 500)
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/heartmarshall/gematria/internal/adapter/postgres"
	"github.com/heartmarshall/gematria/internal/adapter/postgres/word"
	"github.com/heartmarshall/gematria/internal/app"
	"github.com/heartmarshall/gematria/internal/app/recompute"
	"github.com/heartmarshall/gematria/internal/config"
	"github.com/heartmarshall/gematria/internal/gematria"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "count changed words without writing")
	pageSize := flag.Int("page-size", 500, "words read per page")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log, "recompute")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, time.Hour)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	job := recompute.New(logger, word.New(pool, postgres.NewTxManager(pool)), gematria.New(cfg.Engine.Options()...), recompute.Config{
		PageSize: *pageSize,
		Workers:  cfg.Engine.Workers,
		DryRun:   *dryRun,
	})

	stats, err := job.Run(ctx)
	if err != nil {
		logger.Error("recompute failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("recompute completed",
		slog.Int("scanned", stats.Scanned),
		slog.Int("changed", stats.Changed),
		slog.Int("updated", stats.Updated),
		slog.Duration("duration", stats.Duration),
		slog.Bool("dry_run", *dryRun),
	)
}
