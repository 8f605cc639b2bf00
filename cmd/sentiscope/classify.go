package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/spacesedan/sentiscope/internal/cache"
	"github.com/spacesedan/sentiscope/internal/inference"
	"github.com/spacesedan/sentiscope/internal/models"
	"github.com/spacesedan/sentiscope/internal/sentiment"
)

func classifyCmd() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "classify <text>...",
		Short: "Classify texts and print one JSON result per line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("backend") {
				cfg.InferenceBackend = backend
			}
			cfg.CacheBackend = cache.BackendNone
			if err := cfg.Validate(); err != nil {
				return err
			}

			classifier, closeClassifier, err := buildClassifier(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			defer closeClassifier()

			preds, err := inference.ClassifyBatched(cmd.Context(), classifier, args, cfg.BatchSize, cfg.BatchWorkers)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, pred := range preds {
				if err := enc.Encode(models.PredictSentimentResponse{
					Sentiment:  string(sentiment.LabelOrUnknown(pred.Label)),
					Confidence: sentiment.RoundConfidence(pred.Score),
				}); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "hugot", "inference backend: hugot, vader or remote")
	return cmd
}
