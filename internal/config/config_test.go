package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8007, cfg.HTTPPort)
	assert.Equal(t, "english", cfg.SearchLanguage)
	assert.Equal(t, 10000, cfg.BackfillBatchSize)
	assert.Equal(t, 5*time.Second, cfg.BackfillProgressInterval)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.CacheEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("SEARCH_LANGUAGE", "german")
	t.Setenv("BACKFILL_BATCH_SIZE", "500")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, "german", cfg.SearchLanguage)
	assert.Equal(t, 500, cfg.BackfillBatchSize)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_RejectsNonPositiveBatchSize(t *testing.T) {
	t.Setenv("BACKFILL_BATCH_SIZE", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfig_Postgres(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_MAX_CONNS", "50")

	cfg, err := Load()
	require.NoError(t, err)

	pg := cfg.Postgres()
	assert.Equal(t, "db.internal", pg.Host)
	assert.Equal(t, int32(50), pg.MaxConns)
}
