package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// NonceStore implements ports.NonceStore using Redis SET NX.
type NonceStore struct {
	client *goredis.Client
	prefix string
}

// NewNonceStore creates a Redis-backed nonce store for signed confirmation callbacks.
func NewNonceStore(client *goredis.Client) *NonceStore {
	return &NonceStore{client: client, prefix: "confirm:nonce:"}
}

// CheckAndSet claims a nonce within scope. It returns false when the nonce was already seen.
func (s *NonceStore) CheckAndSet(ctx context.Context, scope string, nonce string, ttl time.Duration) (bool, error) {
	key := s.prefix + scope + ":" + nonce
	res, err := s.client.SetArgs(ctx, key, 1, goredis.SetArgs{Mode: "NX", TTL: ttl}).Result()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis nonce check: %w", err)
	}
	return res == "OK", nil
}
