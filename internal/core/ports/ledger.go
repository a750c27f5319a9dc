package ports

import (
	"context"

	"vishwas-ledger/internal/core/domain"
)

//go:generate mockgen -source=ledger.go -destination=mocks/mock_ledger.go -package=mocks

// LedgerClient is the immutable ledger. All writes are idempotent on entry.Key.
// Failures are *domain.LedgerError values.
type LedgerClient interface {
	RegisterAccount(ctx context.Context, address string) error
	RecordTransaction(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerReceipt, error)
	RecordBatch(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerReceipt, error)
	GetTransaction(ctx context.Context, ref string) (*domain.LedgerRecord, error)
	FeeBalance(ctx context.Context) (int64, error)
	Name() string
}
