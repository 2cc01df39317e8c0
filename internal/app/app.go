// Package app wires the content search service together: database pool,
// migrations, Kafka producer, optional Redis cache, tracing, metrics and the
// HTTP server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/ContentSearchGo/internal/config"
	"github.com/utafrali/ContentSearchGo/internal/event"
	httphandler "github.com/utafrali/ContentSearchGo/internal/handler/http"
	"github.com/utafrali/ContentSearchGo/internal/repository/postgres"
	"github.com/utafrali/ContentSearchGo/internal/service"
	"github.com/utafrali/ContentSearchGo/migrations"
	"github.com/utafrali/ContentSearchGo/pkg/database"
	"github.com/utafrali/ContentSearchGo/pkg/health"
	"github.com/utafrali/ContentSearchGo/pkg/kafka"
	"github.com/utafrali/ContentSearchGo/pkg/tracing"
)

const serviceName = "content-search-service"

// App holds the assembled service and its resources.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	pool     *pgxpool.Pool
	producer *kafka.Producer
	cache    *redis.Client
	server   *http.Server

	shutdownTracing func(context.Context) error
}

// New builds the application: it connects to PostgreSQL, runs migrations
// and wires repositories, services and the HTTP handler.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	shutdownTracing, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTELEndpoint,
		SampleRate:   cfg.OTELSampleRatio,
		Enabled:      cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.shutdownTracing = shutdownTracing

	pool, err := database.NewPostgresPoolWithLogger(ctx, cfg.Postgres(), logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	a.pool = pool

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if err := prometheus.Register(database.NewPoolStatsCollector(pool, serviceName)); err != nil {
		logger.Warn("failed to register pool stats collector", slog.String("error", err.Error()))
	}

	if cfg.KafkaEnabled {
		a.producer = kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	}

	if cfg.CacheEnabled {
		cache, err := database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			// The cache is an optimization; run without it.
			logger.Warn("redis unavailable, search caching disabled", slog.String("error", err.Error()))
		} else {
			a.cache = cache
		}
	}

	repo := postgres.NewContentRepository(pool, cfg.SearchLanguage, logger)
	events := event.NewPublisher(a.producer, logger)

	contentSvc := service.NewContentService(repo, events, logger)
	searchSvc := service.NewSearchService(repo, a.cache, cfg.CacheTTL, logger)
	backfillSvc := service.NewBackfillService(repo, service.BackfillConfig{
		BatchSize:        cfg.BackfillBatchSize,
		ProgressInterval: cfg.BackfillProgressInterval,
	}, logger)

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if a.producer != nil {
		healthHandler.Register("kafka", a.producer.Ping)
	}
	if a.cache != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return a.cache.Ping(ctx).Err()
		})
	}

	handler := httphandler.NewHandler(searchSvc, contentSvc, backfillSvc, logger)
	router := httphandler.NewRouter(handler, healthHandler, logger)

	a.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

// Run starts the HTTP server and blocks until it stops.
func (a *App) Run() error {
	a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server gracefully, then closes resources.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down")
	err := a.server.Shutdown(ctx)
	a.Close(ctx)
	return err
}

// Close releases all resources without waiting for in-flight requests.
func (a *App) Close(ctx context.Context) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("failed to close kafka producer", slog.String("error", err.Error()))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(ctx); err != nil {
			a.logger.Warn("failed to shut down tracing", slog.String("error", err.Error()))
		}
	}
}
