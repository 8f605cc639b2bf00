package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapLabelKnownVocabulary(t *testing.T) {
	tests := map[string]Label{
		"LABEL_0": Negative,
		"LABEL_1": Neutral,
		"LABEL_2": Positive,
	}

	for external, want := range tests {
		got, ok := MapLabel(external)
		assert.True(t, ok, external)
		assert.Equal(t, want, got, external)

		assert.Equal(t, want, LabelOrUnknown(external))

		strict, err := StrictLabel(external)
		require.NoError(t, err)
		assert.Equal(t, want, strict)
	}
}

func TestUnknownLabelSentinelAndStrictError(t *testing.T) {
	for _, external := range []string{"LABEL_3", "POSITIVE", "", "label_0"} {
		_, ok := MapLabel(external)
		assert.False(t, ok)

		assert.Equal(t, Unknown, LabelOrUnknown(external))

		_, err := StrictLabel(external)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownLabel)
	}

	_, err := StrictLabel("LABEL_9")
	assert.EqualError(t, err, `unknown model label: "LABEL_9"`)
}

func TestOrdered(t *testing.T) {
	assert.Equal(t, []Label{Positive, Neutral, Negative}, Ordered())

	// callers get their own copy
	o := Ordered()
	o[0] = Unknown
	assert.Equal(t, Positive, Ordered()[0])
}

func TestRoundConfidence(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.98765, 0.988},
		{0.5, 0.5},
		{0.12345, 0.123},
		{0.0004, 0},
		{0.9996, 1},
		{1.2, 1},
		{-0.1, 0},
	}

	for _, tt := range tests {
		got := RoundConfidence(tt.in)
		assert.InDelta(t, tt.want, got, 1e-12, "RoundConfidence(%v)", tt.in)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}
