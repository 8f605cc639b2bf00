package cache

import (
	"context"
	"time"

	"github.com/spacesedan/sentiscope/internal/clients"
)

type Valkey struct {
	client *clients.ValkeyClient
	ttl    time.Duration
}

func NewValkey(client *clients.ValkeyClient, ttl time.Duration) *Valkey {
	return &Valkey{client: client, ttl: ttl}
}

func (v *Valkey) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return v.client.GetBytes(ctx, key)
}

func (v *Valkey) Set(ctx context.Context, key string, value []byte) error {
	return v.client.SetBytes(ctx, key, value, v.ttl)
}
