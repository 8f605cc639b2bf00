package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/spacesedan/sentiscope/internal/chart"
	"github.com/spacesedan/sentiscope/internal/csvinput"
	"github.com/spacesedan/sentiscope/internal/inference"
	"github.com/spacesedan/sentiscope/internal/models"
	"github.com/spacesedan/sentiscope/internal/sentiment"
)

const (
	MsgNoFile      = "No file provided"
	MsgInvalidJSON = "Invalid JSON body"

	endpointSingle = "predict-sentiment"
	endpointFile   = "predict-from-file"
)

// PredictSentiment classifies the "text" field of a JSON body. A missing
// field is classified as the empty string. Labels outside the model
// vocabulary are reported as "unknown".
func (s *Server) PredictSentiment(c echo.Context) error {
	var req models.PredictSentimentRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: MsgInvalidJSON})
	}

	pred, err := inference.ClassifyOne(c.Request().Context(), s.classifier, req.Text)
	if err != nil {
		slog.Error("[HTTP] Sentiment prediction failed", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
	}

	label := sentiment.LabelOrUnknown(pred.Label)
	if s.metrics != nil {
		s.metrics.RecordPrediction(endpointSingle, string(label))
	}

	return c.JSON(http.StatusOK, models.PredictSentimentResponse{
		Sentiment:  string(label),
		Confidence: sentiment.RoundConfidence(pred.Score),
	})
}

// PredictFromFile classifies the first column of an uploaded CSV and returns
// the sentiment distribution as a PNG pie chart.
func (s *Server) PredictFromFile(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: MsgNoFile})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return s.batchFailed(c, err)
	}
	defer file.Close()

	tally, rows, err := s.tallyFile(c.Request().Context(), file)
	if err != nil {
		return s.batchFailed(c, err)
	}

	png, err := chart.RenderPiePNG(tally)
	if err != nil {
		return s.batchFailed(c, err)
	}

	if s.metrics != nil {
		s.metrics.ObserveBatchRows(rows)
		s.metrics.RecordPredictions(endpointFile, map[string]int{
			string(sentiment.Positive): tally.Positive,
			string(sentiment.Neutral):  tally.Neutral,
			string(sentiment.Negative): tally.Negative,
		})
	}
	s.recordResult(c, tally, rows)

	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="`+chart.Filename+`"`)
	return c.Blob(http.StatusOK, "image/png", png)
}

// tallyFile runs every text of the upload through the classifier. Labels
// outside the model vocabulary fail the whole batch.
func (s *Server) tallyFile(ctx context.Context, file io.Reader) (sentiment.Tally, int, error) {
	texts, err := csvinput.FirstColumn(file)
	if err != nil {
		return sentiment.Tally{}, 0, err
	}

	preds, err := inference.ClassifyBatched(ctx, s.classifier, texts, s.opts.BatchSize, s.opts.BatchWorkers)
	if err != nil {
		return sentiment.Tally{}, 0, err
	}

	var tally sentiment.Tally
	for _, pred := range preds {
		label, err := sentiment.StrictLabel(pred.Label)
		if err != nil {
			return sentiment.Tally{}, 0, err
		}
		if err := tally.Add(label); err != nil {
			return sentiment.Tally{}, 0, err
		}
	}

	return tally, len(texts), nil
}

func (s *Server) batchFailed(c echo.Context, err error) error {
	slog.Error("[HTTP] Batch prediction failed", slog.String("error", err.Error()))
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
}

// recordResult stores the batch summary when a recorder is configured.
// Failures are logged only.
func (s *Server) recordResult(c echo.Context, tally sentiment.Tally, rows int) {
	if s.results == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), resultWriteTimeout)
	defer cancel()

	err := s.results.RecordBatch(ctx, models.BatchResult{
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
		CreatedAt: time.Now().UTC(),
		Model:     s.opts.Model,
		Rows:      rows,
		Positive:  tally.Positive,
		Neutral:   tally.Neutral,
		Negative:  tally.Negative,
	})
	if err != nil {
		slog.Warn("[HTTP] Failed to record batch result", slog.String("error", err.Error()))
	}
}

func (s *Server) HealthCheck(c echo.Context) error {
	if s.healthy != nil && !s.healthy.Load() {
		return c.JSON(http.StatusServiceUnavailable, models.HealthResponse{Status: "unhealthy"})
	}
	return c.JSON(http.StatusOK, models.HealthResponse{Status: "healthy"})
}
