// Package memory is an in-process ledger for local runs and tests.
package memory

import (
	"cmp"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"sync"

	"vishwas-ledger/internal/core/domain"
)

// Client implements ports.LedgerClient in memory. Writes are idempotent on entry.Key.
type Client struct {
	mu          sync.Mutex
	byKey       map[string]domain.LedgerRecord
	byRef       map[string]string // ref -> key
	registered  map[string]bool
	feeBalance  int64
	height      int64
	requireReg  bool
	unavailable bool
	writes      int
}

// Option configures the in-memory ledger.
type Option func(*Client)

// WithRegistration makes unknown addresses fail until RegisterAccount is called.
func WithRegistration() Option {
	return func(c *Client) { c.requireReg = true }
}

// New creates a ledger holding feeBalance for the submitter.
func New(feeBalance int64, opts ...Option) *Client {
	c := &Client{
		byKey:      make(map[string]domain.LedgerRecord),
		byRef:      make(map[string]string),
		registered: make(map[string]bool),
		feeBalance: feeBalance,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Name returns the backend name.
func (c *Client) Name() string { return "memory" }

// Ping reports an outage set with SetAvailable.
func (c *Client) Ping(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unavailable {
		return domain.NewLedgerError(domain.ErrLedgerUnavailable, "memory ledger offline", nil)
	}
	return nil
}

// SetAvailable simulates an outage or recovery.
func (c *Client) SetAvailable(ok bool) {
	c.mu.Lock()
	c.unavailable = !ok
	c.mu.Unlock()
}

// SetFeeBalance changes the submitter's fee balance.
func (c *Client) SetFeeBalance(v int64) {
	c.mu.Lock()
	c.feeBalance = v
	c.mu.Unlock()
}

// Writes is the number of entries actually appended.
func (c *Client) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

// Records returns every entry ordered by block height.
func (c *Client) Records() []domain.LedgerRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.LedgerRecord, 0, len(c.byKey))
	for _, r := range c.byKey {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b domain.LedgerRecord) int { return cmp.Compare(a.Block, b.Block) })
	return out
}

// RegisterAccount marks address as known.
func (c *Client) RegisterAccount(_ context.Context, address string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unavailable {
		return domain.NewLedgerError(domain.ErrLedgerUnavailable, "memory ledger offline", nil)
	}
	c.registered[address] = true
	return nil
}

// RecordTransaction appends a per-transaction entry.
func (c *Client) RecordTransaction(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerReceipt, error) {
	return c.append(entry)
}

// RecordBatch appends a daily batch entry.
func (c *Client) RecordBatch(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerReceipt, error) {
	return c.append(entry)
}

func (c *Client) append(entry domain.LedgerEntry) (*domain.LedgerReceipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unavailable {
		return nil, domain.NewLedgerError(domain.ErrLedgerUnavailable, "memory ledger offline", nil)
	}
	if rec, ok := c.byKey[entry.Key]; ok {
		return &domain.LedgerReceipt{Ref: rec.Ref, Block: rec.Block, AlreadyRecorded: true}, nil
	}
	if c.requireReg && !c.registered[entry.Address] {
		return nil, domain.NewLedgerError(domain.ErrAccountNotRegistered, entry.Address, nil)
	}

	sum := sha256.Sum256([]byte(entry.Key))
	c.height++
	rec := domain.LedgerRecord{
		Ref:       hex.EncodeToString(sum[:]),
		Block:     c.height,
		Key:       entry.Key,
		Hash:      entry.Hash,
		Address:   entry.Address,
		Amount:    entry.Amount,
		TypeCode:  entry.TypeCode,
		Kind:      entry.Kind,
		Timestamp: entry.Timestamp,
	}
	c.byKey[entry.Key] = rec
	c.byRef[rec.Ref] = entry.Key
	c.writes++
	return &domain.LedgerReceipt{Ref: rec.Ref, Block: rec.Block}, nil
}

// GetTransaction reads an entry by ref.
func (c *Client) GetTransaction(_ context.Context, ref string) (*domain.LedgerRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key, ok := c.byRef[ref]
	if !ok {
		return nil, domain.NewLedgerError(domain.ErrRecordNotFound, ref, nil)
	}
	rec := c.byKey[key]
	return &rec, nil
}

// FeeBalance returns the configured fee balance.
func (c *Client) FeeBalance(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unavailable {
		return 0, domain.NewLedgerError(domain.ErrLedgerUnavailable, "memory ledger offline", nil)
	}
	return c.feeBalance, nil
}
