package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

const (
	DefaultModelName = "cardiffnlp/twitter-roberta-base-sentiment"
	DefaultModelDir  = "./models"

	pipelineName = "sentimentPipeline"
)

var ErrEmptyOutput = errors.New("pipeline returned no classification")

type HugotOptions struct {
	ModelName       string
	ModelDir        string
	OnnxLibraryPath string
}

// HugotClassifier runs a Hugging Face text-classification model in process.
type HugotClassifier struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	model    string
}

func NewHugotClassifier(opts HugotOptions) (*HugotClassifier, error) {
	if opts.ModelName == "" {
		opts.ModelName = DefaultModelName
	}
	if opts.ModelDir == "" {
		opts.ModelDir = DefaultModelDir
	}

	modelPath, err := EnsureModel(opts.ModelName, opts.ModelDir)
	if err != nil {
		return nil, err
	}

	session, err := newSession(opts.OnnxLibraryPath)
	if err != nil {
		slog.Error("[Inference] Failed to initialize Hugot session", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      pipelineName,
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		slog.Error("[Inference] Failed to initialize sentiment pipeline", slog.String("error", err.Error()))
		if destroyErr := session.Destroy(); destroyErr != nil {
			slog.Warn("[Inference] Failed to destroy session", slog.String("error", destroyErr.Error()))
		}
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	slog.Info("[Inference] Sentiment pipeline ready",
		slog.String("model", opts.ModelName),
		slog.String("path", modelPath))

	return &HugotClassifier{
		session:  session,
		pipeline: pipeline,
		model:    opts.ModelName,
	}, nil
}

// ModelPath is where hugot stores a downloaded model inside dir.
func ModelPath(modelName, dir string) string {
	return filepath.Join(dir, strings.ReplaceAll(modelName, "/", "_"))
}

// EnsureModel downloads modelName into dir unless it is already there and
// returns the local model path.
func EnsureModel(modelName, dir string) (string, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}

	modelPath := ModelPath(modelName, dir)
	if _, err := os.Stat(modelPath); err == nil {
		slog.Info("[Inference] Using existing model", slog.String("path", modelPath))
		return modelPath, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to stat model path: %w", err)
	}

	slog.Info("[Inference] Model not found, downloading...", slog.String("model", modelName))
	downloaded, err := hugot.DownloadModel(modelName, dir, hugot.NewDownloadOptions())
	if err != nil {
		slog.Error("[Inference] Failed to download model",
			slog.String("model", modelName),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to download model %s: %w", modelName, err)
	}
	slog.Info("[Inference] Model downloaded successfully", slog.String("path", downloaded))

	return downloaded, nil
}

func (h *HugotClassifier) Name() string {
	return BackendHugot
}

func (h *HugotClassifier) Model() string {
	return h.model
}

func (h *HugotClassifier) Classify(ctx context.Context, texts []string) ([]Prediction, error) {
	if len(texts) == 0 {
		return []Prediction{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	output, err := h.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("sentiment pipeline failed: %w", err)
	}
	if len(output.ClassificationOutputs) != len(texts) {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrPredictionCount, len(texts), len(output.ClassificationOutputs))
	}

	preds := make([]Prediction, 0, len(texts))
	for _, classes := range output.ClassificationOutputs {
		if len(classes) == 0 {
			return nil, ErrEmptyOutput
		}
		best := classes[0]
		for _, class := range classes[1:] {
			if class.Score > best.Score {
				best = class
			}
		}
		preds = append(preds, Prediction{Label: best.Label, Score: float64(best.Score)})
	}
	return preds, nil
}

func (h *HugotClassifier) Close() error {
	return h.session.Destroy()
}
