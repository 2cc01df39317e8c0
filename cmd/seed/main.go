// Command seed populates the database with generated content records for
// load testing the search and backfill paths. Records are bulk-loaded
// without search vectors; run the backfill command afterwards to index them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/ContentSearchGo/internal/config"
	"github.com/utafrali/ContentSearchGo/internal/domain"
	"github.com/utafrali/ContentSearchGo/internal/repository/postgres"
	"github.com/utafrali/ContentSearchGo/migrations"
	"github.com/utafrali/ContentSearchGo/pkg/database"
	"github.com/utafrali/ContentSearchGo/pkg/logger"
)

const insertChunk = 1000

var (
	adjectives = []string{"Ergonomic", "Compact", "Premium", "Rustic", "Sleek", "Durable", "Handmade", "Modern", "Classic", "Portable"}
	nouns      = []string{"Keyboard", "Desk", "Chair", "Lamp", "Monitor", "Notebook", "Backpack", "Headset", "Stand", "Organizer"}
	topics     = []string{"Go", "PostgreSQL", "Kafka", "Kubernetes", "Observability", "Caching", "Testing", "Security", "Networking", "Databases"}
	trades     = []string{"Plumbing", "Tutoring", "Consulting", "Cleaning", "Landscaping", "Photography", "Catering", "Repair", "Design", "Coaching"}
	categories = []string{"electronics", "furniture", "office", "engineering", "home-services", "education"}
	tagPool    = []string{"sale", "new", "popular", "featured", "eco", "premium", "budget", "remote", "beginner", "advanced"}
	brands     = []string{"Acme", "Keytron", "Northwood", "Vellum", "Orbit"}
	authors    = []string{"Jane Doe", "Ravi Patel", "Mei Lin", "Carlos Vega", "Anna Kowalski"}
)

func main() {
	count := flag.Int("count", 10000, "number of records to generate")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.New("content-search-seed", cfg.LogLevel)

	ctx := context.Background()
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

	start := time.Now()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	remaining := *count
	for remaining > 0 {
		n := insertChunk
		if remaining < n {
			n = remaining
		}
		recs := make([]domain.ContentRecord, n)
		for i := range recs {
			recs[i] = generateRecord(rng)
		}
		if err := repo.BulkInsert(ctx, recs); err != nil {
			log.Error("bulk insert failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		remaining -= n
	}

	log.Info("seed complete",
		slog.Int("records", *count),
		slog.Duration("duration", time.Since(start).Round(time.Millisecond)),
	)
	log.Info("records were loaded without search vectors, run cmd/backfill to index them")
}

func generateRecord(rng *rand.Rand) domain.ContentRecord {
	published := time.Now().UTC().AddDate(0, 0, -rng.Intn(365))
	rec := domain.ContentRecord{
		ID:              uuid.New().String(),
		Category:        pick(rng, categories),
		Tags:            pickTags(rng),
		PublishedDate:   &published,
		LastUpdatedDate: time.Now().UTC(),
	}

	switch rng.Intn(3) {
	case 0:
		rec.EntityType = domain.EntityTypeProduct
		rec.Name = *pick(rng, adjectives) + " " + *pick(rng, nouns)
		rec.Description = strPtr(fmt.Sprintf("A %s for everyday use.", rec.Name))
		rec.Price = priceBetween(rng, 10, 900)
		rec.Attributes = map[string]any{
			"brand":    *pick(rng, brands),
			"color":    *pick(rng, []string{"black", "white", "walnut", "silver"}),
			"material": *pick(rng, []string{"aluminium", "oak", "steel", "fabric"}),
		}
	case 1:
		rec.EntityType = domain.EntityTypeArticle
		rec.Name = "Practical " + *pick(rng, topics)
		rec.Description = strPtr(fmt.Sprintf("An in-depth look at %s.", rec.Name))
		rec.Attributes = map[string]any{
			"author":          *pick(rng, authors),
			"reading_time":    5 + rng.Intn(40),
			"technical_level": *pick(rng, []string{"beginner", "intermediate", "advanced"}),
		}
	default:
		rec.EntityType = domain.EntityTypeService
		rec.Name = *pick(rng, trades) + " Service"
		rec.Description = strPtr(fmt.Sprintf("Professional %s on demand.", rec.Name))
		rec.Price = priceBetween(rng, 25, 300)
		rec.Attributes = map[string]any{
			"service_area":  *pick(rng, []string{"Portland", "Austin", "Denver", "Remote"}),
			"pricing_model": *pick(rng, []string{"hourly", "fixed", "subscription"}),
		}
	}
	return rec
}

func pick(rng *rand.Rand, values []string) *string {
	v := values[rng.Intn(len(values))]
	return &v
}

func pickTags(rng *rand.Rand) []string {
	n := 1 + rng.Intn(3)
	seen := make(map[string]bool, n)
	tags := make([]string, 0, n)
	for len(tags) < n {
		tag := tagPool[rng.Intn(len(tagPool))]
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

func priceBetween(rng *rand.Rand, min, max float64) *float64 {
	p := min + rng.Float64()*(max-min)
	p = float64(int(p*100)) / 100
	return &p
}

func strPtr(s string) *string { return &s }
