package monitoring

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	return m
}

func TestNewMetricsDoubleRegistrationFails(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewMetrics(registry)
	require.NoError(t, err)

	_, err = NewMetrics(registry)
	assert.Error(t, err)
}

func TestRecordHTTPRequest(t *testing.T) {
	m := newTestMetrics(t)
	m.RecordHTTPRequest(http.MethodPost, "/predict-sentiment", 200, 15*time.Millisecond)
	m.RecordHTTPRequest(http.MethodPost, "/predict-sentiment", 200, 5*time.Millisecond)
	m.RecordHTTPRequest(http.MethodPost, "/predict-from-file", 400, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("POST", "/predict-sentiment", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("POST", "/predict-from-file", "400")))
}

func TestRecordPredictions(t *testing.T) {
	m := newTestMetrics(t)
	m.RecordPrediction("single", "positive")
	m.RecordPredictions("file", map[string]int{"positive": 2, "neutral": 0, "negative": 5})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictionsTotal.WithLabelValues("single", "positive")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.predictionsTotal.WithLabelValues("file", "positive")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.predictionsTotal.WithLabelValues("file", "negative")))
}

func TestObserveInferenceCountsErrors(t *testing.T) {
	m := newTestMetrics(t)
	m.ObserveInference("vader", time.Millisecond, nil)
	m.ObserveInference("vader", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.inferenceErrors.WithLabelValues("vader")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.inferenceDuration))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := newTestMetrics(t)
	m.ObserveBatchRows(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "sentiscope_batch_rows_count 1")
}
