package sentiment

import (
	"errors"
	"fmt"
	"math"
)

type Label string

const (
	Positive Label = "positive"
	Neutral  Label = "neutral"
	Negative Label = "negative"
	Unknown  Label = "unknown"
)

// Output vocabulary of cardiffnlp/twitter-roberta-base-sentiment.
const (
	ExternalNegative = "LABEL_0"
	ExternalNeutral  = "LABEL_1"
	ExternalPositive = "LABEL_2"
)

var ErrUnknownLabel = errors.New("unknown model label")

var labelMap = map[string]Label{
	ExternalNegative: Negative,
	ExternalNeutral:  Neutral,
	ExternalPositive: Positive,
}

// Ordered returns the sentiment labels in display order.
func Ordered() []Label {
	return []Label{Positive, Neutral, Negative}
}

func MapLabel(external string) (Label, bool) {
	label, ok := labelMap[external]
	return label, ok
}

// LabelOrUnknown maps an external label, falling back to Unknown.
func LabelOrUnknown(external string) Label {
	if label, ok := labelMap[external]; ok {
		return label
	}
	return Unknown
}

// StrictLabel maps an external label and fails on anything outside the
// model vocabulary.
func StrictLabel(external string) (Label, error) {
	label, ok := labelMap[external]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLabel, external)
	}
	return label, nil
}

// RoundConfidence clamps a score to [0,1] and rounds it to 3 decimals.
func RoundConfidence(score float64) float64 {
	switch {
	case math.IsNaN(score) || score <= 0:
		return 0
	case score >= 1:
		return 1
	}
	return math.Round(score*1000) / 1000
}
