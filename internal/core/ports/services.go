package ports

import (
	"context"
	"time"

	"vishwas-ledger/internal/core/domain"

	"github.com/google/uuid"
)

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

// HashService fingerprints transcripts and ledger entries.
type HashService interface {
	Transcript(transcript string) string
	Batch(hashes []string) string
	LedgerKey(subject uuid.UUID, hash string, address string, amount int64, typeCode uint8) string
}

// FraudDetector scores a transaction against a history snapshot.
type FraudDetector interface {
	Evaluate(tx *domain.Transaction, snapshot domain.RiskSnapshot) domain.FraudResult
}

// HistoryService builds the risk snapshot for a transaction.
type HistoryService interface {
	Snapshot(ctx context.Context, tx *domain.Transaction) (domain.RiskSnapshot, error)
}

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	BuildCanonicalString(method string, path string, timestamp int64, nonce string, body string) string
}

// TokenService validates operator JWTs.
type TokenService interface {
	Validate(tokenString string) (*OperatorClaims, error)
}

// OperatorClaims holds the parsed operator token.
type OperatorClaims struct {
	OperatorID string
	Role       string
}

// --- Service Ports (Business Logic) ---

// VerificationService records transactions and runs the verification state machine.
type VerificationService interface {
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
	Confirm(ctx context.Context, id uuid.UUID, confirmed bool) (*SubmitResult, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
}

// SubmitRequest holds validated input for transaction submission.
type SubmitRequest struct {
	Transcript            string
	Type                  domain.TransactionType
	Amount                int64
	AccountID             uuid.UUID
	CounterpartyID        uuid.UUID
	CounterpartyConfirmed bool
	Language              *string
	ProductID             *string
	Quantity              int
}

// SubmitResult is the outcome of a submission or confirmation.
type SubmitResult struct {
	Transaction     *domain.Transaction
	Decision        domain.Decision
	Fraud           domain.FraudResult
	LedgerSubmitted bool
}

// LedgerWriter is the only component allowed to set ledger references.
type LedgerWriter interface {
	Submit(ctx context.Context, tx *domain.Transaction) (*domain.LedgerReceipt, error)
	SubmitBatch(ctx context.Context, batch *domain.DailyBatch) (*domain.LedgerReceipt, error)
}

// LedgerQueue hands ledger writes to background workers.
type LedgerQueue interface {
	// Enqueue returns false when the queue is full; reconciliation picks the write up later.
	Enqueue(id uuid.UUID) bool
}

// Reconciler retries outstanding ledger writes.
type Reconciler interface {
	RunOnce(ctx context.Context) (*ReconcileReport, error)
}

// ReconcileReport summarises one reconciliation pass.
type ReconcileReport struct {
	Scanned           int       `json:"scanned"`
	Confirmed         int       `json:"confirmed"`
	AlreadyRecorded   int       `json:"already_recorded"`
	Retrying          int       `json:"retrying"`
	FeeBlocked        int       `json:"fee_blocked"`
	PermanentlyFailed int       `json:"permanently_failed"`
	InFlight          int       `json:"in_flight"`
	BatchesScanned    int       `json:"batches_scanned"`
	BatchesConfirmed  int       `json:"batches_confirmed"`
	StartedAt         time.Time `json:"started_at"`
	FinishedAt        time.Time `json:"finished_at"`
}

// Aggregator writes one ledger entry per account per business day.
type Aggregator interface {
	RunForDate(ctx context.Context, day time.Time) (*AggregateReport, error)
}

// AggregateReport summarises one aggregation run.
type AggregateReport struct {
	BusinessDate     string `json:"business_date"`
	Accounts         int    `json:"accounts"`
	BatchesCreated   int    `json:"batches_created"`
	BatchesConfirmed int    `json:"batches_confirmed"`
	BatchesFailed    int    `json:"batches_failed"`
	SalesBatched     int    `json:"sales_batched"`
}

// ConfirmationNotifier asks the counterparty to confirm a transaction.
type ConfirmationNotifier interface {
	Prompt(ctx context.Context, tx *domain.Transaction) error
}

// ReportingService serves the operator view and the credit-scoring feed.
type ReportingService interface {
	ListLedgerFailures(ctx context.Context, page int, pageSize int) ([]domain.Transaction, int64, error)
	ListFlagged(ctx context.Context, page int, pageSize int) ([]domain.Transaction, int64, error)
	ListAttempts(ctx context.Context, subjectID uuid.UUID) ([]domain.LedgerAttempt, error)
	ListVerified(ctx context.Context, accountID uuid.UUID, page int, pageSize int) ([]domain.Transaction, int64, error)
}
