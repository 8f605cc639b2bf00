package inference

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializedAllowsOneCallAtATime(t *testing.T) {
	inner := &echoClassifier{delay: 5 * time.Millisecond}
	s := NewSerialized(inner)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Classify(context.Background(), []string{"good"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), inner.maxActive.Load())
	assert.Equal(t, 8, inner.callCount())
	assert.Equal(t, "echo", s.Name())
}

func TestSerializedHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inner := &echoClassifier{}
	_, err := NewSerialized(inner).Classify(ctx, []string{"good"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, inner.callCount())
}

func TestCachedServesRepeatsFromStore(t *testing.T) {
	inner := &echoClassifier{}
	store := newMapStore()
	c := NewCached(inner, store, "test-model")

	first, err := c.Classify(context.Background(), []string{"good one", "bad one"})
	require.NoError(t, err)
	assert.Equal(t, 1, inner.callCount())
	assert.Len(t, store.data, 2)

	second, err := c.Classify(context.Background(), []string{"bad one", "new meh", "good one"})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.callCount())
	assert.Equal(t, []string{"new meh"}, inner.calls[1])

	assert.Equal(t, first[1], second[0])
	assert.Equal(t, "LABEL_1", second[1].Label)
	assert.Equal(t, first[0], second[2])
}

func TestCachedTreatsStoreErrorsAsMisses(t *testing.T) {
	inner := &echoClassifier{}
	store := newMapStore()
	store.failGet = true
	store.failSet = true

	preds, err := NewCached(inner, store, "m").Classify(context.Background(), []string{"good"})
	require.NoError(t, err)
	assert.Equal(t, "LABEL_2", preds[0].Label)
	assert.Equal(t, 1, inner.callCount())
}

func TestCachedIgnoresCorruptEntries(t *testing.T) {
	inner := &echoClassifier{}
	store := newMapStore()
	store.data[CacheKey("m", "good")] = []byte("{not json")

	preds, err := NewCached(inner, store, "m").Classify(context.Background(), []string{"good"})
	require.NoError(t, err)
	assert.Equal(t, "LABEL_2", preds[0].Label)
	assert.Equal(t, 1, inner.callCount())
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("model-a", "hello")
	assert.Equal(t, a, CacheKey("model-a", "hello"))
	assert.NotEqual(t, a, CacheKey("model-b", "hello"))
	assert.NotEqual(t, a, CacheKey("model-a", "hello!"))
	assert.Contains(t, a, "sentiscope:prediction:model-a:")
}

type recordingObserver struct {
	backend string
	calls   int
	err     error
}

func (r *recordingObserver) ObserveInference(backend string, _ time.Duration, err error) {
	r.backend = backend
	r.calls++
	r.err = err
}

func TestInstrumentedReportsOutcome(t *testing.T) {
	obs := &recordingObserver{}
	i := NewInstrumented(&echoClassifier{failOn: "boom"}, obs)

	_, err := i.Classify(context.Background(), []string{"good"})
	require.NoError(t, err)
	assert.Equal(t, "echo", obs.backend)
	assert.Equal(t, 1, obs.calls)
	assert.NoError(t, obs.err)

	_, err = i.Classify(context.Background(), []string{"boom"})
	require.Error(t, err)
	assert.Equal(t, 2, obs.calls)
	assert.True(t, errors.Is(obs.err, err))
}
