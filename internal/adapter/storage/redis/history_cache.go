package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vishwas-ledger/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// HistoryCache implements ports.HistoryCache. Entries are JSON snapshots with a short TTL.
type HistoryCache struct {
	client *goredis.Client
	prefix string
}

// NewHistoryCache creates a Redis-backed account history cache.
func NewHistoryCache(client *goredis.Client) *HistoryCache {
	return &HistoryCache{client: client, prefix: "history:account:"}
}

// Get returns the cached history, or nil when absent.
func (c *HistoryCache) Get(ctx context.Context, accountID string) (*domain.AccountHistory, error) {
	raw, err := c.client.Get(ctx, c.prefix+accountID).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis history get: %w", err)
	}

	var h domain.AccountHistory
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("decode cached history: %w", err)
	}
	return &h, nil
}

// Set stores a snapshot under its account id.
func (c *HistoryCache) Set(ctx context.Context, h *domain.AccountHistory, ttl time.Duration) error {
	raw, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+h.AccountID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis history set: %w", err)
	}
	return nil
}
