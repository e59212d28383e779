package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// scheduler runs calls in fixed-size concurrent batches with a pause between
// batches. The pause is the pipeline's only backpressure: the external model
// API rate-limits, and a flat inter-batch delay keeps us under it.
type scheduler struct {
	batchSize int
	pause     time.Duration
	obs       Observer
}

// run dispatches call(0..total-1) in batches of batchSize. All calls in a
// batch start together and the batch barrier waits for every one to settle
// before the next batch begins. Results come back in index order. Any
// failure fails the whole run after its batch settles, with no per-chunk
// retry and no partial results.
func (s scheduler) run(ctx context.Context, total int, call func(ctx context.Context, index int) ([]byte, error)) ([][]byte, error) {
	if s.batchSize <= 0 {
		s.batchSize = 1
	}

	results := make([][]byte, total)
	totalBatches := (total + s.batchSize - 1) / s.batchSize

	for batch := 0; batch*s.batchSize < total; batch++ {
		start := batch * s.batchSize
		end := start + s.batchSize
		if end > total {
			end = total
		}
		s.obs.BatchStarted(batch, totalBatches, end-start)

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			firstErr error
			firstIdx int
		)
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				res, err := call(ctx, i)
				s.obs.ChunkDone(i, err)
				if err != nil {
					mu.Lock()
					if firstErr == nil || i < firstIdx {
						firstErr = err
						firstIdx = i
					}
					mu.Unlock()
					return
				}
				results[i] = res
			}(i)
		}
		wg.Wait()

		if firstErr != nil {
			return nil, fmt.Errorf("chunk %d: %w", firstIdx, firstErr)
		}

		if end < total && s.pause > 0 {
			select {
			case <-time.After(s.pause):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return results, nil
}
