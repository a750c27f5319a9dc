// Package memory holds in-process stores for single-replica runs and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"
)

// PendingSet implements ports.PendingSet with a guarded map.
type PendingSet struct {
	mu       sync.Mutex
	inflight map[string]time.Time // key -> expiry
	receipts map[string]domain.LedgerReceipt
	now      func() time.Time
}

// NewPendingSet creates an empty in-memory pending set.
func NewPendingSet() *PendingSet {
	return &PendingSet{
		inflight: make(map[string]time.Time),
		receipts: make(map[string]domain.LedgerReceipt),
		now:      time.Now,
	}
}

// Acquire claims key unless a receipt exists or a live claim is held.
func (p *PendingSet) Acquire(_ context.Context, key string, ttl time.Duration) (ports.PendingStatus, *domain.LedgerReceipt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if r, ok := p.receipts[key]; ok {
		return ports.PendingRecorded, &r, nil
	}
	now := p.now()
	if exp, ok := p.inflight[key]; ok && now.Before(exp) {
		return ports.PendingInFlight, nil, nil
	}
	p.inflight[key] = now.Add(ttl)
	return ports.PendingAcquired, nil, nil
}

// Complete records the receipt for key.
func (p *PendingSet) Complete(_ context.Context, key string, receipt domain.LedgerReceipt) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, key)
	p.receipts[key] = receipt
	return nil
}

// Release drops the claim on key.
func (p *PendingSet) Release(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, key)
	return nil
}
