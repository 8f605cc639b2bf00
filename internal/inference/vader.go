package inference

import (
	"context"
	"math"

	"github.com/spacesedan/sentiscope/internal/sentiment"
)

// VaderClassifier is a lexicon backend that speaks the transformer model's
// label vocabulary, so it can stand in for it without model files.
type VaderClassifier struct{}

func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{}
}

func (v *VaderClassifier) Name() string {
	return BackendVader
}

func (v *VaderClassifier) Classify(ctx context.Context, texts []string) ([]Prediction, error) {
	preds := make([]Prediction, 0, len(texts))
	for _, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		compound, label := sentiment.AnalyzeWithVADER(text)
		preds = append(preds, vaderPrediction(compound, label))
	}
	return preds, nil
}

// vaderPrediction turns a compound score in [-1,1] into a confidence for the
// chosen label.
func vaderPrediction(compound float64, label sentiment.Label) Prediction {
	compound = math.Max(-1, math.Min(1, compound))
	switch label {
	case sentiment.Positive:
		return Prediction{Label: sentiment.ExternalPositive, Score: (1 + compound) / 2}
	case sentiment.Negative:
		return Prediction{Label: sentiment.ExternalNegative, Score: (1 - compound) / 2}
	default:
		return Prediction{Label: sentiment.ExternalNeutral, Score: 1 - math.Abs(compound)}
	}
}
