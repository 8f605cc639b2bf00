package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spacesedan/sentiscope/config"
	"github.com/spacesedan/sentiscope/internal/cache"
	"github.com/spacesedan/sentiscope/internal/clients"
	"github.com/spacesedan/sentiscope/internal/db"
	"github.com/spacesedan/sentiscope/internal/inference"
	"github.com/spacesedan/sentiscope/internal/monitoring"
)

// buildClassifier loads the configured backend once and wraps it. The
// returned close function releases the model and any cache connection.
func buildClassifier(ctx context.Context, cfg *config.Config, metrics *monitoring.Metrics) (inference.Classifier, func(), error) {
	var classifier inference.Classifier
	closers := []func(){}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.InferenceBackend {
	case inference.BackendVader:
		classifier = inference.NewVaderClassifier()
	case inference.BackendRemote:
		classifier = inference.NewRemoteClassifier(clients.NewHuggingFaceClient(clients.HuggingFaceOptions{
			Endpoint: cfg.RemoteEndpoint(),
			Token:    cfg.HFAPIToken,
			Timeout:  cfg.RemoteTimeout,
		}))
	case inference.BackendHugot:
		h, err := inference.NewHugotClassifier(inference.HugotOptions{
			ModelName:       cfg.ModelName,
			ModelDir:        cfg.ModelDir,
			OnnxLibraryPath: cfg.OnnxLibraryPath,
		})
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, func() {
			if err := h.Close(); err != nil {
				slog.Warn("[Inference] Failed to destroy session", slog.String("error", err.Error()))
			}
		})
		classifier = h
	default:
		return nil, closeAll, fmt.Errorf("unknown inference backend %q", cfg.InferenceBackend)
	}

	if metrics != nil {
		classifier = inference.NewInstrumented(classifier, metrics)
	}
	if cfg.SerializeInference {
		classifier = inference.NewSerialized(classifier)
	}

	store, closeStore, err := cache.New(ctx, cache.Options{
		Backend: cfg.CacheBackend,
		TTL:     cfg.CacheTTL,
		Valkey: clients.ValkeyOptions{
			Address:  cfg.ValkeyInitAddress,
			Password: cfg.ValkeyPassword,
			TLS:      cfg.ValkeyTLS,
		},
	})
	if err != nil {
		closeAll()
		return nil, func() {}, err
	}
	closers = append(closers, closeStore)
	if store != nil {
		classifier = inference.NewCached(classifier, store, cfg.ModelID())
		slog.Info("[Inference] Prediction cache enabled", slog.String("backend", cfg.CacheBackend))
	}

	return classifier, closeAll, nil
}

// healthProbe classifies monitoring.ProbeText on the backend itself, skipping
// the prediction cache.
func healthProbe(classifier inference.Classifier) monitoring.Probe {
	if cached, ok := classifier.(*inference.Cached); ok {
		classifier = cached.Uncached()
	}
	return func(ctx context.Context) error {
		_, err := inference.ClassifyOne(ctx, classifier, monitoring.ProbeText)
		return err
	}
}

// buildResultStore returns nil when no results table is configured.
func buildResultStore(ctx context.Context, cfg *config.Config) (*db.BatchResultStore, error) {
	if cfg.ResultsTableName == "" {
		return nil, nil
	}

	awsCfg, err := clients.LoadAWSConfig(ctx, cfg.AWSRegion)
	if err != nil {
		return nil, err
	}
	client := clients.NewDynamoDBClient(awsCfg, cfg.AWSEndpoint)

	slog.Info("[DynamoDB] Recording batch results", slog.String("table", cfg.ResultsTableName))
	return db.NewBatchResultStore(client, cfg.ResultsTableName), nil
}
