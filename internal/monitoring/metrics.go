// Package monitoring exposes Prometheus metrics and the classifier health probe.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sentiscope"

type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	predictionsTotal  *prometheus.CounterVec
	inferenceDuration *prometheus.HistogramVec
	inferenceErrors   *prometheus.CounterVec
	batchRows         prometheus.Histogram
}

// NewMetrics creates the service metrics and registers them, together with
// the Go runtime collectors, on registry.
func NewMetrics(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Time taken for HTTP requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		predictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "predictions_total",
				Help:      "Predictions served, by endpoint and sentiment",
			},
			[]string{"endpoint", "sentiment"},
		),
		inferenceDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "inference_duration_seconds",
				Help:      "Time spent in classifier calls",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
			},
			[]string{"backend"},
		),
		inferenceErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inference_errors_total",
				Help:      "Failed classifier calls",
			},
			[]string{"backend"},
		),
		batchRows: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "batch_rows",
				Help:      "Rows classified per uploaded file",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 10), // 1 to ~260k
			},
		),
	}

	for _, c := range []prometheus.Collector{
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.predictionsTotal,
		m.inferenceDuration,
		m.inferenceErrors,
		m.batchRows,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, elapsed time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordPrediction(endpoint, sentiment string) {
	m.predictionsTotal.WithLabelValues(endpoint, sentiment).Inc()
}

func (m *Metrics) RecordPredictions(endpoint string, counts map[string]int) {
	for sentiment, n := range counts {
		m.predictionsTotal.WithLabelValues(endpoint, sentiment).Add(float64(n))
	}
}

func (m *Metrics) ObserveBatchRows(n int) {
	m.batchRows.Observe(float64(n))
}

func (m *Metrics) ObserveInference(backend string, elapsed time.Duration, err error) {
	m.inferenceDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
	if err != nil {
		m.inferenceErrors.WithLabelValues(backend).Inc()
	}
}
