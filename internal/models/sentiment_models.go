package models

import "time"

type PredictSentimentRequest struct {
	Text string `json:"text"`
}

type PredictSentimentResponse struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// BatchResult summarises one uploaded file.
type BatchResult struct {
	RequestID string    `json:"request_id" dynamodbav:"request_id"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	Model     string    `json:"model" dynamodbav:"model"`
	Rows      int       `json:"rows" dynamodbav:"rows"`
	Positive  int       `json:"positive" dynamodbav:"positive"`
	Neutral   int       `json:"neutral" dynamodbav:"neutral"`
	Negative  int       `json:"negative" dynamodbav:"negative"`
	ExpiresAt int64     `json:"expires_at" dynamodbav:"expires_at"`
}
