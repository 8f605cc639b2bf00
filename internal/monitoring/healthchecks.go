package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	DefaultHealthcheckInterval = 15 * time.Second
	ProbeText                  = "Health check"
	probeTimeout               = 10 * time.Second
)

// Probe exercises a dependency and reports whether it works.
type Probe func(ctx context.Context) error

// MonitorClassifierHealth runs probe immediately and then on every tick,
// storing the outcome in healthy until ctx is done.
func MonitorClassifierHealth(ctx context.Context, interval time.Duration, probe Probe, healthy *atomic.Bool) {
	if interval <= 0 {
		interval = DefaultHealthcheckInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()

		err := probe(probeCtx)
		was := healthy.Swap(err == nil)
		switch {
		case err != nil && was:
			slog.Warn("[HealthCheck] Classifier is unhealthy", slog.String("error", err.Error()))
		case err == nil && !was:
			slog.Info("[HealthCheck] Classifier is healthy")
		}
	}

	check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
