package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	HF_INFERENCE_ENDPOINT   = "https://api-inference.huggingface.co/models/"
	DEFAULT_REMOTE_TIMEOUT  = 30 * time.Second
	maxResponsePreviewBytes = 50
)

type HuggingFaceOptions struct {
	// Endpoint receives {"inputs": [...]} and answers with one list of
	// {label, score} per input.
	Endpoint string
	Token    string
	Timeout  time.Duration
}

type HuggingFaceClient struct {
	Client   *http.Client
	endpoint string
	token    string
	backoff  time.Duration
}

type TextClassificationRequest struct {
	Inputs []string `json:"inputs"`
}

type TextClassificationScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type TextClassificationResponse [][]TextClassificationScore

// InferenceEndpointFor is the hosted inference URL of a hub model.
func InferenceEndpointFor(model string) string {
	return HF_INFERENCE_ENDPOINT + model
}

func NewHuggingFaceClient(opts HuggingFaceOptions) *HuggingFaceClient {
	if opts.Timeout <= 0 {
		opts.Timeout = DEFAULT_REMOTE_TIMEOUT
	}
	slog.Info("[HuggingFaceClient] Initializing Client",
		slog.Duration("timeout", opts.Timeout),
		slog.String("endpoint", opts.Endpoint))

	return &HuggingFaceClient{
		Client:   &http.Client{Timeout: opts.Timeout},
		endpoint: opts.Endpoint,
		token:    opts.Token,
		backoff:  INITIAL_BACKOFF,
	}
}

// DoWithRetry retries transport errors and 5xx responses with exponential
// backoff. newReq is called for every attempt so the body can be resent.
func (h *HuggingFaceClient) DoWithRetry(ctx context.Context, newReq func() (*http.Request, error)) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := h.backoff

	for attempt := 0; attempt < MAX_RETRIES; attempt++ {
		var req *http.Request
		req, err = newReq()
		if err != nil {
			return nil, err
		}

		resp, err = h.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		slog.Warn("[HuggingFaceClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))

		if resp != nil {
			resp.Body.Close()
			if err == nil {
				err = fmt.Errorf("status code %d", resp.StatusCode)
			}
			resp = nil
		}

		if attempt == MAX_RETRIES-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, err
}

func (h *HuggingFaceClient) ClassifyTexts(ctx context.Context, texts []string) (TextClassificationResponse, error) {
	var result TextClassificationResponse
	start := time.Now()

	if err := h.postJSON(ctx, h.endpoint, TextClassificationRequest{Inputs: texts}, &result); err != nil {
		slog.Error("[HuggingFaceClient] Sentiment Analysis request failed",
			slog.Duration("elapsed", time.Since(start)))
		return nil, err
	}

	slog.Debug("[HuggingFaceClient] Sentiment Analysis request successful",
		slog.Int("texts", len(texts)),
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (h *HuggingFaceClient) postJSON(ctx context.Context, endpoint string, input any, output any) error {
	body, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	resp, err := h.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", USER_AGENT)
		if h.token != "" {
			req.Header.Set("Authorization", "Bearer "+h.token)
		}
		return req, nil
	})
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed request after retries",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("[HuggingFaceClient] Unexpected response status",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			getPreview(respBody))
		return fmt.Errorf("inference endpoint returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[HuggingFaceClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(respBody)))
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > maxResponsePreviewBytes {
		raw = raw[:maxResponsePreviewBytes]
	}
	return slog.String("raw_response", raw)
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
