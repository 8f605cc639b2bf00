package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTallyZeroFill(t *testing.T) {
	tally, err := NewTally([]Label{Positive, Positive})
	require.NoError(t, err)

	counts := tally.Counts()
	assert.Len(t, counts, 3)
	assert.Equal(t, map[Label]int{Positive: 2, Neutral: 0, Negative: 0}, counts)
	assert.Equal(t, 2, tally.Total())
}

func TestTallyEmpty(t *testing.T) {
	tally, err := NewTally(nil)
	require.NoError(t, err)

	assert.Equal(t, map[Label]int{Positive: 0, Neutral: 0, Negative: 0}, tally.Counts())
	for _, l := range Ordered() {
		assert.Zero(t, tally.Percent(l))
	}
}

func TestTallyRejectsUnknown(t *testing.T) {
	_, err := NewTally([]Label{Positive, Unknown})
	assert.ErrorIs(t, err, ErrUnknownLabel)
}

func TestTallyPercent(t *testing.T) {
	tally := Tally{Positive: 1, Neutral: 1, Negative: 1}

	for _, l := range Ordered() {
		assert.InDelta(t, 33.333, tally.Percent(l), 0.001)
	}
	assert.Zero(t, tally.Count(Unknown))
}
