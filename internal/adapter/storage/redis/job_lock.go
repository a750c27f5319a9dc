package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

var releaseScript = goredis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// JobLock implements ports.JobLock with SET NX PX and a token-checked release.
type JobLock struct {
	client *goredis.Client
	prefix string
}

// NewJobLock creates a Redis-backed job lock.
func NewJobLock(client *goredis.Client) *JobLock {
	return &JobLock{client: client, prefix: "lock:"}
}

// Acquire takes the named lock for ttl. The returned token is needed to release it.
func (l *JobLock) Acquire(ctx context.Context, name string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	res, err := l.client.SetArgs(ctx, l.prefix+name, token, goredis.SetArgs{Mode: "NX", TTL: ttl}).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis lock acquire %s: %w", name, err)
	}
	return token, res == "OK", nil
}

// Release drops the lock if token still owns it. An expired lock taken by
// another holder is left untouched.
func (l *JobLock) Release(ctx context.Context, name string, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.prefix + name}, token).Err(); err != nil {
		return fmt.Errorf("redis lock release %s: %w", name, err)
	}
	return nil
}
