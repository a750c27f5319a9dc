package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EntryKind distinguishes per-transaction writes from daily batches.
type EntryKind string

const (
	EntryKindTransaction EntryKind = "transaction"
	EntryKindBatch       EntryKind = "batch"
)

// LedgerEntry is what gets written to the immutable ledger.
type LedgerEntry struct {
	Kind     EntryKind `json:"kind"`
	Key      string    `json:"key"`  // idempotency key over (hash, address, amount, type)
	Hash     string    `json:"hash"` // transcript hash or batch hash
	Address  string    `json:"address"`
	Amount   int64     `json:"amount"`
	TypeCode uint8     `json:"type_code"`
	// SubjectID is the transaction or batch id in the mutable store.
	SubjectID uuid.UUID `json:"subject_id"`
	Timestamp time.Time `json:"timestamp"`
}

// LedgerReceipt confirms an entry is on the ledger.
type LedgerReceipt struct {
	Ref             string `json:"ledger_ref"`
	Block           int64  `json:"block"`
	AlreadyRecorded bool   `json:"already_recorded"`
}

// LedgerRecord is an entry as read back from the ledger.
type LedgerRecord struct {
	Ref       string    `json:"ledger_ref"`
	Block     int64     `json:"block"`
	Key       string    `json:"key"`
	Hash      string    `json:"hash"`
	Address   string    `json:"address"`
	Amount    int64     `json:"amount"`
	TypeCode  uint8     `json:"type_code"`
	Kind      EntryKind `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// Ledger failure kinds. Match with errors.Is.
var (
	ErrLedgerUnavailable    = errors.New("ledger unavailable")
	ErrInsufficientFunds    = errors.New("insufficient fee balance")
	ErrLedgerRejected       = errors.New("ledger rejected write")
	ErrAccountNotRegistered = errors.New("account not registered on ledger")
	ErrAlreadyRecorded      = errors.New("already recorded")
	ErrWriteInFlight        = errors.New("ledger write already in flight")
	ErrNotEligible          = errors.New("not eligible for ledger write")
	ErrRecordNotFound       = errors.New("ledger record not found")
)

// LedgerError is a typed ledger failure.
type LedgerError struct {
	Kind   error
	Reason string
	Err    error
}

// NewLedgerError builds a LedgerError of the given kind.
func NewLedgerError(kind error, reason string, err error) *LedgerError {
	return &LedgerError{Kind: kind, Reason: reason, Err: err}
}

func (e *LedgerError) Error() string {
	msg := e.Kind.Error()
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *LedgerError) Unwrap() error { return e.Err }

// Is matches the kind. An unregistered account is also a rejection.
func (e *LedgerError) Is(target error) bool {
	if target == e.Kind {
		return true
	}
	return e.Kind == ErrAccountNotRegistered && target == ErrLedgerRejected
}

// LedgerErrorCode maps an error to the short code stored on the transaction.
func LedgerErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrAccountNotRegistered):
		return "account_not_registered"
	case errors.Is(err, ErrLedgerRejected):
		return "ledger_rejected"
	case errors.Is(err, ErrAlreadyRecorded):
		return "already_recorded"
	case errors.Is(err, ErrLedgerUnavailable):
		return "ledger_unavailable"
	default:
		return "ledger_unavailable"
	}
}
