package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utafrali/ContentSearchGo/internal/repository"
)

var (
	backfillRowsIndexed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contentsearch_backfill_rows_indexed_total",
		Help: "Total number of records whose search vectors were backfilled.",
	})
	backfillRowsMissing = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "contentsearch_backfill_rows_missing",
		Help: "Records still missing a search vector after the last backfill run.",
	})
)

// BackfillConfig tunes the backfill run.
type BackfillConfig struct {
	BatchSize        int
	ProgressInterval time.Duration
}

// BackfillReport summarizes one backfill run.
type BackfillReport struct {
	TotalMissing int64         `json:"total_missing"`
	Processed    int64         `json:"processed"`
	Batches      int           `json:"batches"`
	Remaining    int64         `json:"remaining"`
	Duration     time.Duration `json:"duration"`
	Interrupted  bool          `json:"interrupted"`
}

// BackfillService indexes records that were bulk-loaded without a search
// vector. Work proceeds in independent batches, each in its own
// transaction, so a crashed or interrupted run resumes where it left off on
// the next invocation.
type BackfillService struct {
	repo   repository.BackfillRepository
	cfg    BackfillConfig
	logger *slog.Logger
}

// NewBackfillService creates a new BackfillService.
func NewBackfillService(repo repository.BackfillRepository, cfg BackfillConfig, logger *slog.Logger) *BackfillService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10000
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = 5 * time.Second
	}
	return &BackfillService{repo: repo, cfg: cfg, logger: logger}
}

// Run backfills search vectors until none are missing or the context is
// canceled. Cancellation is graceful: the batch in flight finishes and
// commits, then the loop stops. Run never leaves a partially indexed batch
// behind.
func (s *BackfillService) Run(ctx context.Context) (*BackfillReport, error) {
	start := time.Now()
	report := &BackfillReport{}

	total, err := s.repo.CountMissingVectors(ctx)
	if err != nil {
		return report, err
	}
	report.TotalMissing = total
	if total == 0 {
		s.logger.InfoContext(ctx, "no records missing search vectors, nothing to backfill")
		report.Duration = time.Since(start)
		return report, nil
	}

	s.logger.InfoContext(ctx, "starting search vector backfill",
		slog.Int64("total_missing", total),
		slog.Int("batch_size", s.cfg.BatchSize),
	)

	lastLog := start
	var lastPct float64
	for {
		if ctx.Err() != nil {
			report.Interrupted = true
			s.logger.WarnContext(ctx, "backfill interrupted",
				slog.Int64("processed", report.Processed),
			)
			break
		}

		// The batch runs on a detached context so an interruption lands
		// between batches, never inside one.
		n, err := s.repo.BackfillBatch(context.WithoutCancel(ctx), s.cfg.BatchSize)
		if err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
		if n == 0 {
			break
		}
		report.Processed += n
		report.Batches++
		backfillRowsIndexed.Add(float64(n))

		pct := float64(report.Processed) / float64(total) * 100
		if time.Since(lastLog) >= s.cfg.ProgressInterval || pct-lastPct >= 10 {
			elapsed := time.Since(start)
			rate := float64(report.Processed) / elapsed.Seconds()
			var eta time.Duration
			if rate > 0 {
				eta = time.Duration(float64(total-report.Processed) / rate * float64(time.Second))
			}
			s.logger.InfoContext(ctx, "backfill progress",
				slog.Int64("processed", report.Processed),
				slog.Int64("total", total),
				slog.Float64("percent", pct),
				slog.Float64("rows_per_second", rate),
				slog.Duration("eta", eta),
			)
			lastLog = time.Now()
			lastPct = pct
		}
	}

	remaining, err := s.repo.CountMissingVectors(context.WithoutCancel(ctx))
	if err != nil {
		s.logger.WarnContext(ctx, "failed to count remaining unindexed records",
			slog.String("error", err.Error()),
		)
	} else {
		report.Remaining = remaining
		backfillRowsMissing.Set(float64(remaining))
		if remaining > 0 && !report.Interrupted {
			s.logger.WarnContext(ctx, "records still missing search vectors after backfill",
				slog.Int64("remaining", remaining),
			)
		}
	}

	report.Duration = time.Since(start)
	s.logger.InfoContext(ctx, "search vector backfill finished",
		slog.Int64("processed", report.Processed),
		slog.Int("batches", report.Batches),
		slog.Int64("remaining", report.Remaining),
		slog.Duration("duration", report.Duration),
		slog.Bool("interrupted", report.Interrupted),
	)
	return report, nil
}
