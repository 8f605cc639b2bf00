package inference

import (
	"context"
	"time"
)

type Observer interface {
	ObserveInference(backend string, elapsed time.Duration, err error)
}

// Instrumented reports the latency and outcome of every Classify call.
type Instrumented struct {
	inner    Classifier
	observer Observer
}

func NewInstrumented(inner Classifier, observer Observer) *Instrumented {
	return &Instrumented{inner: inner, observer: observer}
}

func (i *Instrumented) Name() string {
	return i.inner.Name()
}

func (i *Instrumented) Classify(ctx context.Context, texts []string) ([]Prediction, error) {
	start := time.Now()
	preds, err := i.inner.Classify(ctx, texts)
	i.observer.ObserveInference(i.inner.Name(), time.Since(start), err)
	return preds, err
}
