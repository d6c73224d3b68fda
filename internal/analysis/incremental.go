package analysis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/northseawatch/scrubber-backend-go/internal/database"
)

// DefaultBatchSize is the number of records per batch
const DefaultBatchSize = 100

// BatchFunc processes up to limit records after cursor. It returns the cursor
// for the next batch and how many records it saw and failed; seen == 0 ends the run.
type BatchFunc func(ctx context.Context, cursor string, limit int) (next string, seen, failed int, err error)

// IncrementalAnalyzer provides keyset batching with progress tracking
type IncrementalAnalyzer struct {
	*BaseAnalyzer
	BatchSize int
}

// NewIncrementalAnalyzer creates a new incremental analyzer
func NewIncrementalAnalyzer(db *database.DB, name string, batchSize int) *IncrementalAnalyzer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &IncrementalAnalyzer{
		BaseAnalyzer: NewBaseAnalyzer(db, name),
		BatchSize:    batchSize,
	}
}

// ProcessInBatches runs fn until it reports an empty batch, recording progress
// against total after each batch. The context is checked between batches.
func (a *IncrementalAnalyzer) ProcessInBatches(ctx context.Context, taskID int64, total int, fn BatchFunc) (processed, failed int, err error) {
	cursor := ""
	startTime := time.Now()

	for batch := 1; ; batch++ {
		select {
		case <-ctx.Done():
			return processed, failed, ctx.Err()
		default:
		}

		next, seen, batchFailed, err := fn(ctx, cursor, a.BatchSize)
		if err != nil {
			return processed, failed, fmt.Errorf("failed to process batch %d: %w", batch, err)
		}
		if seen == 0 {
			break
		}

		processed += seen
		failed += batchFailed
		cursor = next

		if total < processed {
			total = processed
		}
		eta := 0
		if elapsed := time.Since(startTime).Seconds(); processed > 0 {
			eta = int(elapsed / float64(processed) * float64(total-processed))
		}
		if err := a.Tasks.UpdateProgress(ctx, taskID, total, processed, failed, eta); err != nil {
			return processed, failed, fmt.Errorf("failed to update progress: %w", err)
		}

		log.Printf("[%s] Task %d batch %d: %d/%d processed, %d failed", a.Name, taskID, batch, processed, total, failed)

		if seen < a.BatchSize {
			break
		}
	}

	return processed, failed, nil
}
