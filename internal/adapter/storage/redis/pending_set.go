package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultReceiptTTL bounds how long confirmed receipts are remembered.
// The ledger itself stays idempotent after they expire.
const DefaultReceiptTTL = 7 * 24 * time.Hour

// acquireScript returns {2, receipt} when a receipt exists, {0} when the
// in-flight marker was set and {1} when another worker holds it.
var acquireScript = goredis.NewScript(`
local receipt = redis.call('GET', KEYS[2])
if receipt then
	return {2, receipt}
end
if redis.call('SET', KEYS[1], ARGV[1], 'NX', 'PX', ARGV[2]) then
	return {0}
end
return {1}
`)

// PendingSet implements ports.PendingSet in Redis.
type PendingSet struct {
	client     *goredis.Client
	receiptTTL time.Duration
}

// NewPendingSet creates a Redis-backed pending set.
func NewPendingSet(client *goredis.Client, receiptTTL time.Duration) *PendingSet {
	if receiptTTL <= 0 {
		receiptTTL = DefaultReceiptTTL
	}
	return &PendingSet{client: client, receiptTTL: receiptTTL}
}

func inflightKey(key string) string { return "ledger:inflight:" + key }
func receiptKey(key string) string  { return "ledger:receipt:" + key }

// Acquire claims key for a write, or reports why the caller must not write.
func (p *PendingSet) Acquire(ctx context.Context, key string, ttl time.Duration) (ports.PendingStatus, *domain.LedgerReceipt, error) {
	res, err := acquireScript.Run(ctx, p.client,
		[]string{inflightKey(key), receiptKey(key)}, 1, ttl.Milliseconds(),
	).Slice()
	if err != nil {
		return 0, nil, fmt.Errorf("redis pending acquire: %w", err)
	}
	if len(res) == 0 {
		return 0, nil, fmt.Errorf("redis pending acquire: empty reply")
	}

	code, _ := res[0].(int64)
	switch code {
	case 0:
		return ports.PendingAcquired, nil, nil
	case 1:
		return ports.PendingInFlight, nil, nil
	}

	raw, _ := res[1].(string)
	var receipt domain.LedgerReceipt
	if err := json.Unmarshal([]byte(raw), &receipt); err != nil {
		return 0, nil, fmt.Errorf("decode stored receipt: %w", err)
	}
	return ports.PendingRecorded, &receipt, nil
}

// Complete stores the receipt and clears the in-flight marker.
func (p *PendingSet) Complete(ctx context.Context, key string, receipt domain.LedgerReceipt) error {
	raw, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("encode receipt: %w", err)
	}

	pipe := p.client.TxPipeline()
	pipe.Set(ctx, receiptKey(key), raw, p.receiptTTL)
	pipe.Del(ctx, inflightKey(key))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pending complete: %w", err)
	}
	return nil
}

// Release clears the in-flight marker after a failed write.
func (p *PendingSet) Release(ctx context.Context, key string) error {
	if err := p.client.Del(ctx, inflightKey(key)).Err(); err != nil {
		return fmt.Errorf("redis pending release: %w", err)
	}
	return nil
}
