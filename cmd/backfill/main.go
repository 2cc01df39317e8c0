// Command backfill indexes content records that were bulk-loaded without a
// search vector. It runs to completion and exits; interrupting it with
// SIGINT or SIGTERM finishes the batch in flight and stops, and the next
// invocation resumes where this one left off.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/utafrali/ContentSearchGo/internal/config"
	"github.com/utafrali/ContentSearchGo/internal/repository/postgres"
	"github.com/utafrali/ContentSearchGo/internal/service"
	"github.com/utafrali/ContentSearchGo/migrations"
	"github.com/utafrali/ContentSearchGo/pkg/database"
	"github.com/utafrali/ContentSearchGo/pkg/logger"
)

func main() {
	batchSize := flag.Int("batch-size", 0, "records per batch (overrides BACKFILL_BATCH_SIZE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *batchSize > 0 {
		cfg.BackfillBatchSize = *batchSize
	}

	log := logger.New("content-search-backfill", cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPostgresPoolWithLogger(ctx, cfg.Postgres(), log)
	if err != nil {
		log.Error("failed to connect to postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		log.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repo := postgres.NewContentRepository(pool, cfg.SearchLanguage, log)
	svc := service.NewBackfillService(repo, service.BackfillConfig{
		BatchSize:        cfg.BackfillBatchSize,
		ProgressInterval: cfg.BackfillProgressInterval,
	}, log)

	report, err := svc.Run(ctx)
	if err != nil {
		log.Error("backfill failed",
			slog.Int64("processed", report.Processed),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	log.Info("backfill report",
		slog.Int64("total_missing", report.TotalMissing),
		slog.Int64("processed", report.Processed),
		slog.Int("batches", report.Batches),
		slog.Int64("remaining", report.Remaining),
		slog.Duration("duration", report.Duration.Round(time.Millisecond)),
		slog.Bool("interrupted", report.Interrupted),
	)
	if report.Interrupted {
		os.Exit(130)
	}
}
