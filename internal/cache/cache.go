// Package cache provides the prediction stores used by inference.Cached.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/spacesedan/sentiscope/internal/clients"
)

const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendValkey = "valkey"

	DefaultTTL = 24 * time.Hour
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

type Options struct {
	Backend string
	TTL     time.Duration
	Valkey  clients.ValkeyOptions
}

// New builds the configured store. It returns a nil Store for BackendNone
// and a close function that is always safe to call.
func New(ctx context.Context, opts Options) (Store, func(), error) {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}

	switch opts.Backend {
	case "", BackendNone:
		return nil, func() {}, nil
	case BackendMemory:
		return NewMemory(opts.TTL), func() {}, nil
	case BackendValkey:
		client, err := clients.NewValkeyClient(ctx, opts.Valkey)
		if err != nil {
			return nil, func() {}, err
		}
		return NewValkey(client, opts.TTL), client.Close, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
