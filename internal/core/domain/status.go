package domain

// VerificationStatus is the verification state of a transaction.
type VerificationStatus string

const (
	StatusPending              VerificationStatus = "pending"
	StatusVerified             VerificationStatus = "verified"
	StatusAwaitingConfirmation VerificationStatus = "awaiting_confirmation"
	StatusFlagged              VerificationStatus = "flagged"
	StatusRejected             VerificationStatus = "rejected"
)

// IsTerminal returns true once no further verification transition is allowed.
func (s VerificationStatus) IsTerminal() bool {
	return s == StatusVerified || s == StatusFlagged || s == StatusRejected
}

var transitions = map[VerificationStatus][]VerificationStatus{
	StatusPending: {
		StatusVerified, StatusAwaitingConfirmation, StatusFlagged, StatusRejected,
	},
	StatusAwaitingConfirmation: {
		StatusVerified, StatusAwaitingConfirmation, StatusFlagged, StatusRejected,
	},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to VerificationStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// LedgerState tracks the ledger side of a verified transaction.
type LedgerState string

const (
	LedgerStateNotRequired LedgerState = "not_required"
	LedgerStateQueued      LedgerState = "queued"
	LedgerStateRetrying    LedgerState = "retrying"
	LedgerStateFeeBlocked  LedgerState = "fee_blocked"
	LedgerStateConfirmed   LedgerState = "confirmed"
	LedgerStateWriteFailed LedgerState = "ledger_write_failed"
	LedgerStateBatched     LedgerState = "batched"
)

// Retryable reports whether reconciliation should pick the state up.
func (s LedgerState) Retryable() bool {
	return s == LedgerStateQueued || s == LedgerStateRetrying || s == LedgerStateFeeBlocked
}
