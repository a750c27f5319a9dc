package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType is the kind of shop event captured from a transcript.
type TransactionType string

const (
	TransactionTypeSale   TransactionType = "sale"
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeRepay  TransactionType = "repay"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeSale, TransactionTypeCredit, TransactionTypeRepay:
		return true
	}
	return false
}

// LedgerCode is the numeric type code written on-ledger.
func (t TransactionType) LedgerCode() uint8 {
	switch t {
	case TransactionTypeCredit:
		return 1
	case TransactionTypeRepay:
		return 2
	default:
		return 0
	}
}

// Transaction is the unit of record in the mutable store.
type Transaction struct {
	ID             uuid.UUID       `json:"id"`
	AccountID      uuid.UUID       `json:"account_id"`
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	Type           TransactionType `json:"type"`
	Amount         int64           `json:"amount"` // paise
	Transcript     string          `json:"transcript"`
	TranscriptHash string          `json:"transcript_hash"`
	Language       *string         `json:"language,omitempty"`
	ProductID      *string         `json:"product_id,omitempty"`
	Quantity       int             `json:"quantity"`

	Status                VerificationStatus `json:"verification_status"`
	RiskLevel             RiskLevel          `json:"risk_level"`
	RiskScore             float64            `json:"risk_score"`
	RiskReasons           []string           `json:"risk_reasons"`
	NeedsReview           bool               `json:"needs_review"`
	CounterpartyConfirmed bool               `json:"counterparty_confirmed"`
	ConfirmedAt           *time.Time         `json:"confirmed_at,omitempty"`

	LedgerState       LedgerState `json:"ledger_state"`
	LedgerRef         *string     `json:"ledger_ref,omitempty"`
	LedgerBlock       *int64      `json:"ledger_block,omitempty"`
	LedgerAttempts    int         `json:"ledger_attempts"`
	LedgerNextRetryAt *time.Time  `json:"ledger_next_retry_at,omitempty"`
	LedgerLastError   *string     `json:"ledger_last_error,omitempty"`
	LedgerErrorCode   *string     `json:"ledger_error_code,omitempty"`
	BatchID           *uuid.UUID  `json:"batch_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WritesIndividually is true for types that go to the ledger one by one.
// Sales are carried by the daily batch instead.
func (t *Transaction) WritesIndividually() bool {
	return t.Type == TransactionTypeCredit || t.Type == TransactionTypeRepay
}

// AwaitingLedger reports whether a ledger write is still owed for t.
func (t *Transaction) AwaitingLedger() bool {
	return t.Status == StatusVerified && t.WritesIndividually() && t.LedgerRef == nil &&
		t.LedgerState != LedgerStateWriteFailed
}

// IsClosed reports whether the transaction has reached the end of its lifecycle.
func (t *Transaction) IsClosed() bool {
	switch t.Status {
	case StatusFlagged, StatusRejected:
		return true
	case StatusVerified:
		return t.LedgerRef != nil || t.LedgerState == LedgerStateWriteFailed
	}
	return false
}

// UnitPrice is the per-item price implied by the amount and quantity.
func (t *Transaction) UnitPrice() int64 {
	if t.Quantity <= 1 {
		return t.Amount
	}
	return t.Amount / int64(t.Quantity)
}

// FraudResult returns the stored classification.
func (t *Transaction) FraudResult() FraudResult {
	return FraudResult{RiskLevel: t.RiskLevel, Score: t.RiskScore, Reasons: t.RiskReasons}
}

// ApplyFraudResult stores the classification on the transaction.
func (t *Transaction) ApplyFraudResult(r FraudResult) {
	t.RiskLevel = r.RiskLevel
	t.RiskScore = r.Score
	t.RiskReasons = r.Reasons
}

// BalanceDelta is the effect of a transaction on running balances.
type BalanceDelta struct {
	Sales  int64 // account total_sales
	Credit int64 // account and counterparty credit_outstanding
}

// BalanceDeltaFor returns the balance change caused by a transaction.
func BalanceDeltaFor(typ TransactionType, amount int64) BalanceDelta {
	switch typ {
	case TransactionTypeSale:
		return BalanceDelta{Sales: amount}
	case TransactionTypeCredit:
		return BalanceDelta{Credit: amount}
	case TransactionTypeRepay:
		return BalanceDelta{Credit: -amount}
	}
	return BalanceDelta{}
}

// Reverse undoes the delta.
func (d BalanceDelta) Reverse() BalanceDelta {
	return BalanceDelta{Sales: -d.Sales, Credit: -d.Credit}
}
