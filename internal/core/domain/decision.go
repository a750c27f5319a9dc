package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Decision is the outcome of evaluating a transaction against the verification rules.
type Decision struct {
	Status         VerificationStatus
	LedgerEligible bool
	NeedsReview    bool
	Reasons        []string
}

// Validate returns every basic check the transaction fails. Empty means valid.
func Validate(t *Transaction) []string {
	var reasons []string
	if !t.Type.Valid() {
		reasons = append(reasons, fmt.Sprintf("unknown transaction type %q", t.Type))
	}
	if t.Amount <= 0 {
		reasons = append(reasons, "amount must be greater than zero")
	}
	if t.AccountID == uuid.Nil {
		reasons = append(reasons, "account_id is required")
	}
	if t.CounterpartyID == uuid.Nil {
		reasons = append(reasons, "counterparty_id is required")
	}
	if strings.TrimSpace(t.Transcript) == "" {
		reasons = append(reasons, "transcript is empty")
	}
	if t.Quantity < 0 {
		reasons = append(reasons, "quantity must not be negative")
	}
	return reasons
}

// Decide applies the verification rules in order; the first match wins.
// It has no side effects and is re-run when a confirmation arrives.
func Decide(t *Transaction, fraud FraudResult) Decision {
	if reasons := Validate(t); len(reasons) > 0 {
		return Decision{Status: StatusRejected, Reasons: reasons}
	}

	if t.Type == TransactionTypeSale {
		d := Decision{Status: StatusVerified, Reasons: []string{"sale recorded for daily batch"}}
		if len(fraud.Reasons) > 0 {
			d.NeedsReview = true
			d.Reasons = append(d.Reasons, "queued for background review")
		}
		return d
	}

	if fraud.RiskLevel.AtLeast(RiskHigh) {
		return Decision{
			Status:      StatusFlagged,
			NeedsReview: true,
			Reasons:     []string{fmt.Sprintf("risk level %s requires manual review", fraud.RiskLevel)},
		}
	}

	if t.CounterpartyConfirmed {
		return Decision{
			Status:         StatusVerified,
			LedgerEligible: true,
			Reasons:        []string{"confirmed by counterparty"},
		}
	}

	return Decision{
		Status:  StatusAwaitingConfirmation,
		Reasons: []string{"waiting for counterparty confirmation"},
	}
}

// InitialLedgerState is the ledger state a fresh decision implies.
func (d Decision) InitialLedgerState() LedgerState {
	if d.LedgerEligible {
		return LedgerStateQueued
	}
	return LedgerStateNotRequired
}
