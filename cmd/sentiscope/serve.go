package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/spacesedan/sentiscope/internal/httpapi"
	"github.com/spacesedan/sentiscope/internal/monitoring"
)

func serveCmd() *cobra.Command {
	var (
		port    int
		backend string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("backend") {
				cfg.InferenceBackend = backend
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServer(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 5003, "port to listen on (overrides PORT)")
	cmd.Flags().StringVar(&backend, "backend", "hugot", "inference backend: hugot, vader or remote (overrides INFERENCE_BACKEND)")

	return cmd
}

func runServer(ctx context.Context) error {
	metrics, err := monitoring.NewMetrics(prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	classifier, closeClassifier, err := buildClassifier(ctx, cfg, metrics)
	if err != nil {
		return err
	}
	defer closeClassifier()

	options := []httpapi.Option{httpapi.WithMetrics(metrics)}

	results, err := buildResultStore(ctx, cfg)
	if err != nil {
		return err
	}
	if results != nil {
		options = append(options, httpapi.WithResultRecorder(results))
	}

	var healthy atomic.Bool
	options = append(options, httpapi.WithHealth(&healthy))
	go monitoring.MonitorClassifierHealth(ctx, cfg.HealthcheckInterval, healthProbe(classifier), &healthy)

	server := httpapi.New(classifier, httpapi.Options{
		MaxBodyBytes: cfg.MaxContentLength,
		BatchSize:    cfg.BatchSize,
		BatchWorkers: cfg.BatchWorkers,
		Model:        cfg.ModelID(),
	}, options...)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("Received interrupt signal, shutting down gracefully...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
