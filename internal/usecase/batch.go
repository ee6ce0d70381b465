package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

const (
	defaultBatchWorkers   = 4
	defaultMaxBatchEvents = 20
)

// BatchItem is the outcome for one input URL. Exactly one of Points and
// Err is meaningful.
type BatchItem struct {
	URL        string
	Points     EventPoints
	Err        error
	DurationMs int64
}

// ScoreBatch scores independent events concurrently. Items come back in
// input order; a failing URL does not affect the others. No totals are
// combined across events.
func (s *PointsService) ScoreBatch(ctx context.Context, urls []string) ([]BatchItem, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.ScoreBatch")
	defer span.End()

	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: at least one url is required", ErrInvalidInput)
	}
	if len(urls) > s.cfg.MaxBatchEvents {
		return nil, fmt.Errorf("%w: at most %d urls per batch, got %d", ErrInvalidInput, s.cfg.MaxBatchEvents, len(urls))
	}
	s.recorder.ObserveBatch(len(urls))

	workerCount := s.cfg.BatchWorkers
	if workerCount > len(urls) {
		workerCount = len(urls)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	items := make([]BatchItem, len(urls))
	var workers sync.WaitGroup
	for idx, rawURL := range urls {
		idx, rawURL := idx, rawURL
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			item := BatchItem{URL: rawURL}
			if ctxErr := ctx.Err(); ctxErr != nil {
				item.Err = ctxErr
			} else {
				item.Points, item.Err = s.ScoreURL(ctx, rawURL)
			}
			item.DurationMs = time.Since(start).Milliseconds()
			items[idx] = item
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()

	failed := 0
	for _, item := range items {
		if item.Err != nil {
			failed++
		}
	}
	s.logger.InfoContext(ctx, "scored event batch", "events", len(items), "failed", failed)
	return items, nil
}
