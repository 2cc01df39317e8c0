package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackfillRepo simulates a table with a fixed number of unindexed rows.
type stubBackfillRepo struct {
	missing  int64
	countErr error
	batchErr error
	batches  []int64

	// cancelAfter cancels the context after that many batches; 0 never cancels.
	cancelAfter int
	cancel      context.CancelFunc
}

func (s *stubBackfillRepo) CountMissingVectors(context.Context) (int64, error) {
	return s.missing, s.countErr
}

func (s *stubBackfillRepo) BackfillBatch(_ context.Context, batchSize int) (int64, error) {
	if s.batchErr != nil {
		return 0, s.batchErr
	}
	n := int64(batchSize)
	if s.missing < n {
		n = s.missing
	}
	s.missing -= n
	if n > 0 {
		s.batches = append(s.batches, n)
	}
	if s.cancelAfter > 0 && len(s.batches) >= s.cancelAfter && s.cancel != nil {
		s.cancel()
	}
	return n, nil
}

func newBackfill(repo *stubBackfillRepo, batchSize int) *BackfillService {
	return NewBackfillService(repo, BackfillConfig{
		BatchSize:        batchSize,
		ProgressInterval: time.Minute,
	}, testLogger())
}

func TestBackfillService_ProcessesAllBatches(t *testing.T) {
	repo := &stubBackfillRepo{missing: 250}
	svc := newBackfill(repo, 100)

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(250), report.TotalMissing)
	assert.Equal(t, int64(250), report.Processed)
	assert.Equal(t, 3, report.Batches)
	assert.Equal(t, []int64{100, 100, 50}, repo.batches)
	assert.Zero(t, report.Remaining)
	assert.False(t, report.Interrupted)
}

func TestBackfillService_NothingToDo(t *testing.T) {
	repo := &stubBackfillRepo{missing: 0}
	svc := newBackfill(repo, 100)

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.Processed)
	assert.Zero(t, report.Batches)
}

func TestBackfillService_SecondRunIsNoOp(t *testing.T) {
	repo := &stubBackfillRepo{missing: 120}
	svc := newBackfill(repo, 100)

	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.TotalMissing)
	assert.Zero(t, report.Processed)
}

func TestBackfillService_StopsBetweenBatchesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	repo := &stubBackfillRepo{missing: 500, cancelAfter: 2, cancel: cancel}
	svc := newBackfill(repo, 100)

	report, err := svc.Run(ctx)
	require.NoError(t, err)

	// Two batches completed in full before the stop; nothing was half done.
	assert.True(t, report.Interrupted)
	assert.Equal(t, int64(200), report.Processed)
	assert.Equal(t, []int64{100, 100}, repo.batches)
	assert.Equal(t, int64(300), report.Remaining)
}

func TestBackfillService_ReturnsBatchError(t *testing.T) {
	repo := &stubBackfillRepo{missing: 100, batchErr: errors.New("deadlock detected")}
	svc := newBackfill(repo, 100)

	_, err := svc.Run(context.Background())
	assert.Error(t, err)
}
