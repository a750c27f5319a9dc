package domain

import (
	"time"

	"github.com/google/uuid"
)

// BusinessDateLayout formats the day a batch covers.
const BusinessDateLayout = "2006-01-02"

// DailyBatch is one account's verified sales for a business day, written as one ledger entry.
type DailyBatch struct {
	ID             uuid.UUID   `json:"id"`
	AccountID      uuid.UUID   `json:"account_id"`
	BusinessDate   string      `json:"business_date"`
	Total          int64       `json:"total"`
	SaleCount      int         `json:"sale_count"`
	BatchHash      string      `json:"batch_hash"`
	TransactionIDs []uuid.UUID `json:"transaction_ids"`

	LedgerState       LedgerState `json:"ledger_state"`
	LedgerRef         *string     `json:"ledger_ref,omitempty"`
	LedgerBlock       *int64      `json:"ledger_block,omitempty"`
	LedgerAttempts    int         `json:"ledger_attempts"`
	LedgerNextRetryAt *time.Time  `json:"ledger_next_retry_at,omitempty"`
	LedgerLastError   *string     `json:"ledger_last_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Confirmed reports whether the batch is on the ledger.
func (b *DailyBatch) Confirmed() bool {
	return b.LedgerRef != nil
}

// AttemptOutcome is the result of a single ledger write attempt.
type AttemptOutcome string

const (
	AttemptConfirmed         AttemptOutcome = "confirmed"
	AttemptAlreadyRecorded   AttemptOutcome = "already_recorded"
	AttemptUnavailable       AttemptOutcome = "ledger_unavailable"
	AttemptInsufficientFunds AttemptOutcome = "insufficient_funds"
	AttemptRejected          AttemptOutcome = "ledger_rejected"
)

// LedgerAttempt is one entry in the operator-visible write log.
type LedgerAttempt struct {
	ID          uuid.UUID      `json:"id"`
	SubjectType EntryKind      `json:"subject_type"`
	SubjectID   uuid.UUID      `json:"subject_id"`
	LedgerKey   string         `json:"ledger_key"`
	Outcome     AttemptOutcome `json:"outcome"`
	Error       *string        `json:"error,omitempty"`
	LedgerRef   *string        `json:"ledger_ref,omitempty"`
	AttemptedAt time.Time      `json:"attempted_at"`
}
