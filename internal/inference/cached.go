package inference

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
)

const cacheKeyPrefix = "sentiscope:prediction:"

// Store is a byte-oriented cache. A miss is (nil, false, nil).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Cached serves repeated texts from a Store. Store failures are logged and
// treated as misses.
type Cached struct {
	inner Classifier
	store Store
	model string
}

// NewCached namespaces entries by model.
func NewCached(inner Classifier, store Store, model string) *Cached {
	return &Cached{inner: inner, store: store, model: model}
}

// Uncached is the classifier behind the cache.
func (c *Cached) Uncached() Classifier {
	return c.inner
}

func (c *Cached) Name() string {
	return c.inner.Name()
}

func (c *Cached) Classify(ctx context.Context, texts []string) ([]Prediction, error) {
	results := make([]Prediction, len(texts))
	keys := make([]string, len(texts))

	var missTexts []string
	var missIdx []int
	for i, text := range texts {
		keys[i] = CacheKey(c.model, text)
		if pred, ok := c.lookup(ctx, keys[i]); ok {
			results[i] = pred
			continue
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return results, nil
	}

	preds, err := c.inner.Classify(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(preds) != len(missTexts) {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrPredictionCount, len(missTexts), len(preds))
	}

	for j, pred := range preds {
		i := missIdx[j]
		results[i] = pred
		c.save(ctx, keys[i], pred)
	}
	return results, nil
}

func (c *Cached) lookup(ctx context.Context, key string) (Prediction, bool) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		slog.Warn("[Inference] Cache lookup failed",
			slog.String("error", err.Error()))
		return Prediction{}, false
	}
	if !ok {
		return Prediction{}, false
	}

	var pred Prediction
	if err := json.Unmarshal(raw, &pred); err != nil {
		slog.Warn("[Inference] Dropping undecodable cache entry",
			slog.String("error", err.Error()))
		return Prediction{}, false
	}
	return pred, true
}

func (c *Cached) save(ctx context.Context, key string, pred Prediction) {
	raw, err := json.Marshal(pred)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, key, raw); err != nil {
		slog.Warn("[Inference] Cache write failed",
			slog.String("error", err.Error()))
	}
}

// CacheKey identifies a text under a given model.
func CacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + model + ":" + hex.EncodeToString(sum[:])
}
