package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/spacesedan/sentiscope/internal/models"
)

const (
	DEFAULT_RESULT_TTL = 30 * 24 * time.Hour
	maxPutAttempts     = 3
)

// DynamoDBAPI is the subset of the DynamoDB client the store uses.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// BatchResultStore keeps a history of batch tallies.
type BatchResultStore struct {
	client  DynamoDBAPI
	table   string
	ttl     time.Duration
	backoff time.Duration
}

func NewBatchResultStore(client DynamoDBAPI, table string) *BatchResultStore {
	return &BatchResultStore{
		client:  client,
		table:   table,
		ttl:     DEFAULT_RESULT_TTL,
		backoff: 500 * time.Millisecond,
	}
}

func (s *BatchResultStore) RecordBatch(ctx context.Context, result models.BatchResult) error {
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}
	if result.ExpiresAt == 0 {
		result.ExpiresAt = result.CreatedAt.Add(s.ttl).Unix()
	}

	item, err := attributevalue.MarshalMap(result)
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to marshal batch result: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}

	backoff := s.backoff
	for attempt := 1; ; attempt++ {
		_, err = s.client.PutItem(ctx, input)
		if err == nil {
			break
		}
		if attempt == maxPutAttempts {
			return fmt.Errorf("[DynamoDB] Failed to store batch result: %w", err)
		}

		slog.Warn("[DynamoDB] Retrying batch result write...",
			slog.Int("retry_attempt", attempt),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	slog.Info("[DynamoDB] Stored batch result",
		slog.String("request_id", result.RequestID),
		slog.Int("rows", result.Rows))
	return nil
}
