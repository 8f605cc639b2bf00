package inference

import (
	"context"
	"sync"
)

// Serialized allows one Classify call at a time, for runtimes that are not
// reentrant.
type Serialized struct {
	inner Classifier
	mu    sync.Mutex
}

func NewSerialized(inner Classifier) *Serialized {
	return &Serialized{inner: inner}
}

func (s *Serialized) Name() string {
	return s.inner.Name()
}

func (s *Serialized) Classify(ctx context.Context, texts []string) ([]Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.inner.Classify(ctx, texts)
}
