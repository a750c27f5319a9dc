package ports

import (
	"context"
	"time"

	"vishwas-ledger/internal/core/domain"
)

//go:generate mockgen -source=stores.go -destination=mocks/mock_stores.go -package=mocks

// PendingStatus is the outcome of claiming a ledger key.
type PendingStatus int

const (
	// PendingAcquired means the caller owns the write.
	PendingAcquired PendingStatus = iota
	// PendingInFlight means another worker holds the key.
	PendingInFlight
	// PendingRecorded means a receipt for the key already exists.
	PendingRecorded
)

// PendingSet tracks ledger keys that are in flight or already written.
type PendingSet interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (PendingStatus, *domain.LedgerReceipt, error)
	Complete(ctx context.Context, key string, receipt domain.LedgerReceipt) error
	Release(ctx context.Context, key string) error
}

// RateLimitResult describes a rate-limit decision.
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   time.Time
}

// RateLimitStore counts requests per key in a fixed window.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error)
}

// HistoryCache holds recently derived account histories.
type HistoryCache interface {
	Get(ctx context.Context, accountID string) (*domain.AccountHistory, error)
	Set(ctx context.Context, history *domain.AccountHistory, ttl time.Duration) error
}

// JobLock is a named lock shared across replicas.
type JobLock interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, name string, token string) error
}

// NonceStore manages nonce uniqueness for replay attack prevention.
type NonceStore interface {
	// CheckAndSet returns true if the nonce is new within scope.
	CheckAndSet(ctx context.Context, scope string, nonce string, ttl time.Duration) (bool, error)
}
