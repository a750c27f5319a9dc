package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validTx(typ TransactionType) *Transaction {
	return &Transaction{
		ID:             uuid.New(),
		AccountID:      uuid.New(),
		CounterpartyID: uuid.New(),
		Type:           typ,
		Amount:         50000,
		Transcript:     "Ramesh ko paanch sau udhaar",
		Quantity:       1,
	}
}

func TestTransactionType_Valid(t *testing.T) {
	assert.True(t, TransactionTypeSale.Valid())
	assert.True(t, TransactionTypeCredit.Valid())
	assert.True(t, TransactionTypeRepay.Valid())
	assert.False(t, TransactionType("refund").Valid())
	assert.False(t, TransactionType("").Valid())
}

func TestTransactionType_LedgerCode(t *testing.T) {
	assert.Equal(t, uint8(0), TransactionTypeSale.LedgerCode())
	assert.Equal(t, uint8(1), TransactionTypeCredit.LedgerCode())
	assert.Equal(t, uint8(2), TransactionTypeRepay.LedgerCode())
}

func TestVerificationStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status VerificationStatus
		want   bool
	}{
		{StatusPending, false},
		{StatusAwaitingConfirmation, false},
		{StatusVerified, true},
		{StatusFlagged, true},
		{StatusRejected, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsTerminal())
		})
	}
}

func TestCanTransition(t *testing.T) {
	all := []VerificationStatus{StatusPending, StatusVerified, StatusAwaitingConfirmation, StatusFlagged, StatusRejected}

	for _, from := range all {
		for _, to := range all {
			t.Run(fmt.Sprintf("%s->%s", from, to), func(t *testing.T) {
				got := CanTransition(from, to)
				if from.IsTerminal() {
					assert.False(t, got, "terminal states never move")
					return
				}
				if to == StatusPending {
					assert.False(t, got, "nothing moves back to pending")
					return
				}
				assert.True(t, got)
			})
		}
	}
}

func TestTransaction_AwaitingLedger(t *testing.T) {
	ref := "0xabc"
	tests := []struct {
		name string
		mut  func(tx *Transaction)
		want bool
	}{
		{"verified credit without ref", func(tx *Transaction) {}, true},
		{"verified credit with ref", func(tx *Transaction) { tx.LedgerRef = &ref }, false},
		{"permanently failed", func(tx *Transaction) { tx.LedgerState = LedgerStateWriteFailed }, false},
		{"flagged credit", func(tx *Transaction) { tx.Status = StatusFlagged }, false},
		{"verified sale", func(tx *Transaction) { tx.Type = TransactionTypeSale }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTx(TransactionTypeCredit)
			tx.Status = StatusVerified
			tx.LedgerState = LedgerStateQueued
			tt.mut(tx)
			assert.Equal(t, tt.want, tx.AwaitingLedger())
		})
	}
}

func TestTransaction_UnitPrice(t *testing.T) {
	tx := validTx(TransactionTypeSale)
	tx.Amount = 3000
	tx.Quantity = 3
	assert.Equal(t, int64(1000), tx.UnitPrice())

	tx.Quantity = 0
	assert.Equal(t, int64(3000), tx.UnitPrice())
}

func TestBalanceDeltaFor(t *testing.T) {
	assert.Equal(t, BalanceDelta{Sales: 100}, BalanceDeltaFor(TransactionTypeSale, 100))
	assert.Equal(t, BalanceDelta{Credit: 100}, BalanceDeltaFor(TransactionTypeCredit, 100))
	assert.Equal(t, BalanceDelta{Credit: -100}, BalanceDeltaFor(TransactionTypeRepay, 100))
	assert.Equal(t, BalanceDelta{Credit: -100}, BalanceDeltaFor(TransactionTypeCredit, 100).Reverse())
}

func TestRiskLevel_Ordering(t *testing.T) {
	assert.True(t, RiskCritical.AtLeast(RiskHigh))
	assert.True(t, RiskHigh.AtLeast(RiskHigh))
	assert.False(t, RiskMedium.AtLeast(RiskHigh))
	assert.Equal(t, RiskHigh, MaxRisk(RiskLow, RiskHigh))
	assert.Equal(t, RiskCritical, MaxRisk(RiskCritical, RiskMedium))
}

func TestAccountHistory_Averages(t *testing.T) {
	h := AccountHistory{TotalSales: 10000, TransactionCount: 20, DaysActive: 4}
	assert.Equal(t, 2500.0, h.AverageDailySales())
	assert.Equal(t, 5.0, h.Frequency())

	assert.Equal(t, 0.0, AccountHistory{}.AverageDailySales())
}

func TestValidate(t *testing.T) {
	tx := validTx(TransactionTypeCredit)
	assert.Empty(t, Validate(tx))

	bad := &Transaction{Type: "gift", Amount: 0}
	reasons := Validate(bad)
	assert.Len(t, reasons, 5)
	assert.Contains(t, reasons, "amount must be greater than zero")
	assert.Contains(t, reasons, "transcript is empty")
}

func TestDecide(t *testing.T) {
	low := FraudResult{RiskLevel: RiskLow}
	medium := FraudResult{RiskLevel: RiskMedium, Reasons: []string{"cold_start_credit"}}
	high := FraudResult{RiskLevel: RiskHigh, Reasons: []string{"credit_amount_anomaly"}}
	critical := FraudResult{RiskLevel: RiskCritical, Reasons: []string{"credit_amount_anomaly", "credit_frequency"}}

	tests := []struct {
		name       string
		typ        TransactionType
		amount     int64
		confirmed  bool
		fraud      FraudResult
		wantStatus VerificationStatus
		wantLedger bool
		wantReview bool
	}{
		{"invalid amount rejected", TransactionTypeCredit, 0, true, low, StatusRejected, false, false},
		{"sale always verified", TransactionTypeSale, 100, false, low, StatusVerified, false, false},
		{"anomalous sale verified for review", TransactionTypeSale, 100, false, medium, StatusVerified, false, true},
		{"high-risk sale still verified", TransactionTypeSale, 100, false, high, StatusVerified, false, true},
		{"confirmed low credit", TransactionTypeCredit, 100, true, low, StatusVerified, true, false},
		{"confirmed medium repay", TransactionTypeRepay, 100, true, medium, StatusVerified, true, false},
		{"unconfirmed credit", TransactionTypeCredit, 100, false, medium, StatusAwaitingConfirmation, false, false},
		{"unconfirmed repay", TransactionTypeRepay, 100, false, low, StatusAwaitingConfirmation, false, false},
		{"high credit flagged even if confirmed", TransactionTypeCredit, 100, true, high, StatusFlagged, false, true},
		{"critical repay flagged", TransactionTypeRepay, 100, false, critical, StatusFlagged, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTx(tt.typ)
			tx.Amount = tt.amount
			tx.CounterpartyConfirmed = tt.confirmed

			d := Decide(tx, tt.fraud)
			assert.Equal(t, tt.wantStatus, d.Status)
			assert.Equal(t, tt.wantLedger, d.LedgerEligible)
			assert.Equal(t, tt.wantReview, d.NeedsReview)
			assert.NotEmpty(t, d.Reasons)
		})
	}
}

func TestDecision_InitialLedgerState(t *testing.T) {
	assert.Equal(t, LedgerStateQueued, Decision{LedgerEligible: true}.InitialLedgerState())
	assert.Equal(t, LedgerStateNotRequired, Decision{}.InitialLedgerState())
}

func TestLedgerError_Is(t *testing.T) {
	err := NewLedgerError(ErrAccountNotRegistered, "addr vsh1", nil)
	assert.True(t, errors.Is(err, ErrAccountNotRegistered))
	assert.True(t, errors.Is(err, ErrLedgerRejected))
	assert.False(t, errors.Is(err, ErrLedgerUnavailable))

	wrapped := fmt.Errorf("submit: %w", NewLedgerError(ErrLedgerUnavailable, "", errors.New("dial tcp: refused")))
	assert.True(t, errors.Is(wrapped, ErrLedgerUnavailable))
	assert.Contains(t, wrapped.Error(), "dial tcp: refused")
}

func TestLedgerErrorCode(t *testing.T) {
	assert.Equal(t, "", LedgerErrorCode(nil))
	assert.Equal(t, "insufficient_funds", LedgerErrorCode(NewLedgerError(ErrInsufficientFunds, "", nil)))
	assert.Equal(t, "account_not_registered", LedgerErrorCode(NewLedgerError(ErrAccountNotRegistered, "", nil)))
	assert.Equal(t, "ledger_rejected", LedgerErrorCode(NewLedgerError(ErrLedgerRejected, "code 7", nil)))
	assert.Equal(t, "ledger_unavailable", LedgerErrorCode(errors.New("boom")))
}

func TestLedgerState_Retryable(t *testing.T) {
	assert.True(t, LedgerStateQueued.Retryable())
	assert.True(t, LedgerStateRetrying.Retryable())
	assert.True(t, LedgerStateFeeBlocked.Retryable())
	assert.False(t, LedgerStateConfirmed.Retryable())
	assert.False(t, LedgerStateWriteFailed.Retryable())
	assert.False(t, LedgerStateNotRequired.Retryable())
}
