package inference

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// echoClassifier labels texts by keyword and records every call.
type echoClassifier struct {
	mu    sync.Mutex
	calls [][]string

	active    atomic.Int32
	maxActive atomic.Int32
	delay     time.Duration
	failOn    string
}

func (e *echoClassifier) Name() string { return "echo" }

func (e *echoClassifier) Classify(ctx context.Context, texts []string) ([]Prediction, error) {
	n := e.active.Add(1)
	defer e.active.Add(-1)
	for {
		m := e.maxActive.Load()
		if n <= m || e.maxActive.CompareAndSwap(m, n) {
			break
		}
	}

	e.mu.Lock()
	e.calls = append(e.calls, append([]string(nil), texts...))
	e.mu.Unlock()

	if e.delay > 0 {
		select {
		case <-time.After(e.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	preds := make([]Prediction, 0, len(texts))
	for _, text := range texts {
		if e.failOn != "" && text == e.failOn {
			return nil, errors.New("backend exploded")
		}
		preds = append(preds, Prediction{Label: labelFor(text), Score: 0.9})
	}
	return preds, nil
}

func (e *echoClassifier) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

func labelFor(text string) string {
	switch {
	case strings.Contains(text, "good"):
		return "LABEL_2"
	case strings.Contains(text, "bad"):
		return "LABEL_0"
	default:
		return "LABEL_1"
	}
}

type mapStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	failGet bool
	failSet bool
}

func newMapStore() *mapStore {
	return &mapStore{data: map[string][]byte{}}
}

func (m *mapStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.failGet {
		return nil, false, errors.New("store down")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapStore) Set(_ context.Context, key string, value []byte) error {
	if m.failSet {
		return errors.New("store down")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
