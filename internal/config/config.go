// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/utafrali/ContentSearchGo/pkg/config"
	"github.com/utafrali/ContentSearchGo/pkg/database"
)

// Config is the full service configuration.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8007"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"contentsearch"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"contentsearch_secret"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"contentsearch"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	PostgresMaxConns int32  `env:"POSTGRES_MAX_CONNS" envDefault:"25"`
	PostgresMinConns int32  `env:"POSTGRES_MIN_CONNS" envDefault:"5"`

	// SearchLanguage is the PostgreSQL text search configuration used for
	// indexing and querying. Changing it invalidates existing vectors; a
	// full reindex is required afterwards.
	SearchLanguage string `env:"SEARCH_LANGUAGE" envDefault:"english"`

	BackfillBatchSize        int           `env:"BACKFILL_BATCH_SIZE" envDefault:"10000"`
	BackfillProgressInterval time.Duration `env:"BACKFILL_PROGRESS_INTERVAL" envDefault:"5s"`

	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"true"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	CacheEnabled  bool          `env:"CACHE_ENABLED" envDefault:"false"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"30s"`
	RedisHost     string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`

	OTELEnabled      bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint     string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRatio  float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"1.0"`
	OTELInsecureMode bool    `env:"OTEL_INSECURE" envDefault:"true"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	if cfg.BackfillBatchSize < 1 {
		return nil, fmt.Errorf("BACKFILL_BATCH_SIZE must be positive, got %d", cfg.BackfillBatchSize)
	}
	return cfg, nil
}

// Postgres returns the pool configuration for the main database.
func (c *Config) Postgres() *database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPassword
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSLMode
	pg.MaxConns = c.PostgresMaxConns
	pg.MinConns = c.PostgresMinConns
	return &pg
}

// Redis returns the cache connection configuration.
func (c *Config) Redis() database.RedisConfig {
	r := database.DefaultRedisConfig()
	r.Host = c.RedisHost
	r.Port = c.RedisPort
	r.Password = c.RedisPassword
	r.DB = c.RedisDB
	return r
}
