// Package inference is the boundary to the sentiment model. Backends emit the
// model's external labels; mapping to readable sentiments happens in callers.
package inference

import (
	"context"
	"errors"
	"fmt"
)

const (
	BackendHugot  = "hugot"
	BackendVader  = "vader"
	BackendRemote = "remote"
)

var ErrPredictionCount = errors.New("classifier returned wrong number of predictions")

// Prediction is a single model output: an external label and a score in [0,1].
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier runs texts through a model. Implementations must return exactly
// one prediction per input, in input order, and be safe for concurrent use
// unless wrapped with NewSerialized.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, texts []string) ([]Prediction, error)
}

// ClassifyOne runs a single text through c.
func ClassifyOne(ctx context.Context, c Classifier, text string) (Prediction, error) {
	preds, err := c.Classify(ctx, []string{text})
	if err != nil {
		return Prediction{}, err
	}
	if len(preds) != 1 {
		return Prediction{}, fmt.Errorf("%w: want 1, got %d", ErrPredictionCount, len(preds))
	}
	return preds[0], nil
}
