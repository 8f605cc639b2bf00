package inference

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyBatchedPreservesOrder(t *testing.T) {
	texts := make([]string, 0, 25)
	for i := range 25 {
		switch i % 3 {
		case 0:
			texts = append(texts, fmt.Sprintf("good %d", i))
		case 1:
			texts = append(texts, fmt.Sprintf("bad %d", i))
		default:
			texts = append(texts, fmt.Sprintf("meh %d", i))
		}
	}

	c := &echoClassifier{}
	preds, err := ClassifyBatched(context.Background(), c, texts, 4, 3)
	require.NoError(t, err)
	require.Len(t, preds, len(texts))

	for i, text := range texts {
		assert.Equal(t, labelFor(text), preds[i].Label, text)
	}
	assert.Equal(t, 7, c.callCount())
	assert.LessOrEqual(t, int(c.maxActive.Load()), 3)
}

func TestClassifyBatchedEmpty(t *testing.T) {
	c := &echoClassifier{}
	preds, err := ClassifyBatched(context.Background(), c, nil, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, preds)
	assert.Zero(t, c.callCount())
}

func TestClassifyBatchedPropagatesError(t *testing.T) {
	c := &echoClassifier{failOn: "bad 3"}
	_, err := ClassifyBatched(context.Background(), c, []string{"good 1", "meh 2", "bad 3", "good 4"}, 2, 1)
	assert.EqualError(t, err, "backend exploded")
}

type shortClassifier struct{}

func (shortClassifier) Name() string { return "short" }

func (shortClassifier) Classify(context.Context, []string) ([]Prediction, error) {
	return []Prediction{{Label: "LABEL_1", Score: 1}}, nil
}

func TestClassifyBatchedCountMismatch(t *testing.T) {
	_, err := ClassifyBatched(context.Background(), shortClassifier{}, []string{"a", "b"}, 10, 1)
	assert.ErrorIs(t, err, ErrPredictionCount)
}

func TestClassifyOne(t *testing.T) {
	pred, err := ClassifyOne(context.Background(), &echoClassifier{}, "good stuff")
	require.NoError(t, err)
	assert.Equal(t, Prediction{Label: "LABEL_2", Score: 0.9}, pred)
}
