package ports

import (
	"context"
	"time"

	"vishwas-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

// TransactionRepository defines persistence operations for transactions.
// Methods accepting pgx.Tx run inside the caller's database transaction.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error)
	UpdateDecision(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error
	// MarkLedgerConfirmed sets ledger_ref once. It reports false when the row
	// was not verified or already carried a reference.
	MarkLedgerConfirmed(ctx context.Context, id uuid.UUID, receipt domain.LedgerReceipt) (bool, error)
	RecordLedgerFailure(ctx context.Context, id uuid.UUID, failure LedgerFailure) error
	ListLedgerPending(ctx context.Context, query LedgerPendingQuery) ([]domain.Transaction, error)
	ListUnbatchedSales(ctx context.Context, accountID uuid.UUID, from time.Time, to time.Time) ([]domain.Transaction, error)
	AccountsWithUnbatchedSales(ctx context.Context, from time.Time, to time.Time) ([]uuid.UUID, error)
	AttachBatch(ctx context.Context, tx pgx.Tx, batchID uuid.UUID, ids []uuid.UUID) error
	MarkBatchConfirmed(ctx context.Context, tx pgx.Tx, batchID uuid.UUID, receipt domain.LedgerReceipt) (int64, error)
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
}

// LedgerFailure is the bookkeeping stored after a failed ledger attempt.
type LedgerFailure struct {
	State       domain.LedgerState
	Attempts    int
	NextRetryAt *time.Time
	LastError   string
	ErrorCode   string
}

// LedgerPendingQuery selects rows the reconciler should look at.
type LedgerPendingQuery struct {
	CreatedBefore time.Time // grace period cut-off
	Now           time.Time // for next_retry_at
	Limit         int
}

// TransactionListParams holds filter + pagination for listing transactions.
type TransactionListParams struct {
	AccountID    *uuid.UUID
	Statuses     []domain.VerificationStatus
	LedgerStates []domain.LedgerState
	NeedsReview  *bool
	HasLedgerRef *bool
	Page         int
	PageSize     int
}

// HistoryRepository derives behavioural aggregates from stored transactions.
type HistoryRepository interface {
	AccountHistory(ctx context.Context, accountID uuid.UUID, asOf time.Time) (*domain.AccountHistory, error)
	CounterpartyHistory(ctx context.Context, counterpartyID uuid.UUID, windowStart time.Time, asOf time.Time) (*domain.CounterpartyHistory, error)
}

// AccountRepository defines persistence operations for shopkeeper accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Account, error)
	ApplyBalanceDelta(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta domain.BalanceDelta) error
	MarkLedgerRegistered(ctx context.Context, id uuid.UUID) error
}

// CounterpartyRepository defines persistence operations for customers.
type CounterpartyRepository interface {
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Counterparty, error)
	ApplyCreditDelta(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int64) error
}

// CatalogRepository reads an account's reference prices.
type CatalogRepository interface {
	GetUnitPrice(ctx context.Context, accountID uuid.UUID, productID string) (*int64, error)
}

// BatchRepository defines persistence operations for daily sale batches.
type BatchRepository interface {
	Create(ctx context.Context, tx pgx.Tx, b *domain.DailyBatch) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DailyBatch, error)
	GetByAccountDate(ctx context.Context, accountID uuid.UUID, businessDate string) (*domain.DailyBatch, error)
	MarkLedgerConfirmed(ctx context.Context, tx pgx.Tx, id uuid.UUID, receipt domain.LedgerReceipt) (bool, error)
	RecordLedgerFailure(ctx context.Context, id uuid.UUID, failure LedgerFailure) error
	ListLedgerPending(ctx context.Context, query LedgerPendingQuery) ([]domain.DailyBatch, error)
}

// LedgerAttemptRepository stores the operator-visible log of ledger writes.
type LedgerAttemptRepository interface {
	Create(ctx context.Context, attempt *domain.LedgerAttempt) error
	ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]domain.LedgerAttempt, error)
}

// PromptRepository logs confirmation prompt deliveries.
type PromptRepository interface {
	Create(ctx context.Context, delivery *domain.PromptDelivery) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
