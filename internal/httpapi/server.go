// Package httpapi is the HTTP facade over the sentiment classifier.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/spacesedan/sentiscope/internal/inference"
	"github.com/spacesedan/sentiscope/internal/models"
	"github.com/spacesedan/sentiscope/internal/monitoring"
)

const (
	DefaultMaxBodyBytes = 16 * 1024 * 1024

	resultWriteTimeout = 5 * time.Second
)

// ResultRecorder persists a summary of each successful batch.
type ResultRecorder interface {
	RecordBatch(ctx context.Context, result models.BatchResult) error
}

type Options struct {
	MaxBodyBytes int64
	BatchSize    int
	BatchWorkers int
	// Model is reported with batch results.
	Model string
}

type Server struct {
	Echo *echo.Echo

	classifier inference.Classifier
	opts       Options
	metrics    *monitoring.Metrics
	results    ResultRecorder
	healthy    *atomic.Bool
}

type Option func(*Server)

func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

func WithResultRecorder(r ResultRecorder) Option {
	return func(s *Server) {
		s.results = r
	}
}

// WithHealth reports /healthz from the given flag instead of always healthy.
func WithHealth(healthy *atomic.Bool) Option {
	return func(s *Server) {
		s.healthy = healthy
	}
}

func New(classifier inference.Classifier, opts Options, options ...Option) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = inference.DefaultBatchSize
	}
	if opts.BatchWorkers <= 0 {
		opts.BatchWorkers = inference.DefaultWorkers
	}
	if opts.Model == "" {
		opts.Model = classifier.Name()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		Echo:       e,
		classifier: classifier,
		opts:       opts,
	}
	for _, opt := range options {
		opt(s)
	}

	e.HTTPErrorHandler = s.handleHTTPError
	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.Echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.Echo.Use(s.requestLogger())
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
	}))
	s.Echo.Use(middleware.BodyLimit(fmt.Sprintf("%dB", s.opts.MaxBodyBytes)))
}

func (s *Server) setupRoutes() {
	s.Echo.POST("/predict-sentiment", s.PredictSentiment)
	s.Echo.POST("/predict-from-file", s.PredictFromFile)
	s.Echo.GET("/healthz", s.HealthCheck)
	if s.metrics != nil {
		s.Echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if s.metrics != nil {
				path := c.Path()
				if path == "" {
					path = "unmatched"
				}
				s.metrics.RecordHTTPRequest(v.Method, path, v.Status, v.Latency)
			}

			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				slog.LogAttrs(context.Background(), slog.LevelError, "[HTTP] Request failed", attrs...)
				return nil
			}
			slog.LogAttrs(context.Background(), slog.LevelInfo, "[HTTP] Request", attrs...)
			return nil
		},
	})
}

// handleHTTPError renders every error as {"error": message}.
func (s *Server) handleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := err.Error()

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if he.Internal != nil && status >= http.StatusInternalServerError {
			message = he.Internal.Error()
		} else {
			message = fmt.Sprint(he.Message)
		}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, models.ErrorResponse{Error: message})
	}
	if err != nil {
		slog.Error("[HTTP] Failed to write error response", slog.String("error", err.Error()))
	}
}

func (s *Server) Start(addr string) error {
	slog.Info("[HTTP] Listening", slog.String("addr", addr))
	if err := s.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("[HTTP] Shutting down")
	return s.Echo.Shutdown(ctx)
}
