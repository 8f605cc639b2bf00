package inference

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultBatchSize = 10
	DefaultWorkers   = 4
)

// ClassifyBatched splits texts into chunks of batchSize and classifies up to
// workers chunks at a time. Output order matches input order. The first
// failing chunk cancels the rest.
func ClassifyBatched(ctx context.Context, c Classifier, texts []string, batchSize, workers int) ([]Prediction, error) {
	results := make([]Prediction, len(texts))
	if len(texts) == 0 {
		return results, nil
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))
		g.Go(func() error {
			preds, err := c.Classify(gctx, texts[start:end])
			if err != nil {
				return err
			}
			if len(preds) != end-start {
				return fmt.Errorf("%w: want %d, got %d", ErrPredictionCount, end-start, len(preds))
			}
			copy(results[start:end], preds)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
