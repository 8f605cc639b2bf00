package httpapi

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacesedan/sentiscope/internal/inference"
	"github.com/spacesedan/sentiscope/internal/models"
)

// stubClassifier answers from a fixed text → prediction table. Texts not in
// the table get LABEL_1.
type stubClassifier struct {
	mu     sync.Mutex
	table  map[string]inference.Prediction
	err    error
	inputs []string
}

func (s *stubClassifier) Name() string { return "stub" }

func (s *stubClassifier) Classify(_ context.Context, texts []string) ([]inference.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, texts...)
	if s.err != nil {
		return nil, s.err
	}

	preds := make([]inference.Prediction, 0, len(texts))
	for _, text := range texts {
		if p, ok := s.table[text]; ok {
			preds = append(preds, p)
			continue
		}
		preds = append(preds, inference.Prediction{Label: "LABEL_1", Score: 0.6})
	}
	return preds, nil
}

func (s *stubClassifier) seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.inputs...)
}

type recorderStub struct {
	mu      sync.Mutex
	results []models.BatchResult
	err     error
}

func (r *recorderStub) RecordBatch(_ context.Context, result models.BatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
	return r.err
}

var errBackend = errors.New("onnx runtime crashed")

func newStub() *stubClassifier {
	return &stubClassifier{table: map[string]inference.Prediction{
		"great":        {Label: "LABEL_2", Score: 0.97},
		"bad":          {Label: "LABEL_0", Score: 0.91},
		"ok":           {Label: "LABEL_1", Score: 0.72},
		"I love this!": {Label: "LABEL_2", Score: 0.98765},
		"weird":        {Label: "LABEL_7", Score: 0.5},
	}}
}

func jsonRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/predict-sentiment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func uploadRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/predict-from-file", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}
