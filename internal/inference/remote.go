package inference

import (
	"context"
	"fmt"

	"github.com/spacesedan/sentiscope/internal/clients"
)

// TextClassificationAPI is a hosted text-classification endpoint.
type TextClassificationAPI interface {
	ClassifyTexts(ctx context.Context, texts []string) (clients.TextClassificationResponse, error)
}

// RemoteClassifier delegates inference to a Hugging Face style HTTP endpoint.
type RemoteClassifier struct {
	api TextClassificationAPI
}

func NewRemoteClassifier(api TextClassificationAPI) *RemoteClassifier {
	return &RemoteClassifier{api: api}
}

func (r *RemoteClassifier) Name() string {
	return BackendRemote
}

func (r *RemoteClassifier) Classify(ctx context.Context, texts []string) ([]Prediction, error) {
	if len(texts) == 0 {
		return []Prediction{}, nil
	}

	resp, err := r.api.ClassifyTexts(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(resp) != len(texts) {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrPredictionCount, len(texts), len(resp))
	}

	preds := make([]Prediction, 0, len(resp))
	for _, scores := range resp {
		if len(scores) == 0 {
			return nil, ErrEmptyOutput
		}
		best := scores[0]
		for _, s := range scores[1:] {
			if s.Score > best.Score {
				best = s
			}
		}
		preds = append(preds, Prediction{Label: best.Label, Score: best.Score})
	}
	return preds, nil
}
