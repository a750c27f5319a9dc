package domain

import "time"

// RiskLevel is the fraud classification of a transaction.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

func (r RiskLevel) rank() int {
	switch r {
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	case RiskCritical:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether r is as severe as other or more.
func (r RiskLevel) AtLeast(other RiskLevel) bool {
	return r.rank() >= other.rank()
}

// MaxRisk returns the more severe of two levels.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// FraudResult is the output of the anomaly detector.
type FraudResult struct {
	RiskLevel RiskLevel `json:"risk_level"`
	Score     float64   `json:"score"`
	Reasons   []string  `json:"reasons"`
}

// AccountHistory is a derived view of an account's prior behaviour.
// It is never authoritative and may be slightly stale.
type AccountHistory struct {
	AccountID        string    `json:"account_id"`
	TotalSales       int64     `json:"total_sales"`
	CreditExtended   int64     `json:"credit_extended"`
	CreditRepaid     int64     `json:"credit_repaid"`
	TransactionCount int64     `json:"transaction_count"`
	DaysActive       int64     `json:"days_active"`
	AsOf             time.Time `json:"as_of"`
}

// AverageDailySales is total sales over active days, 0 for a new account.
func (h AccountHistory) AverageDailySales() float64 {
	if h.DaysActive <= 0 {
		return 0
	}
	return float64(h.TotalSales) / float64(h.DaysActive)
}

// Frequency is transactions per active day.
func (h AccountHistory) Frequency() float64 {
	if h.DaysActive <= 0 {
		return 0
	}
	return float64(h.TransactionCount) / float64(h.DaysActive)
}

// CounterpartyHistory is the buyer-side slice of history used for risk scoring.
type CounterpartyHistory struct {
	CounterpartyID string      `json:"counterparty_id"`
	PriorPurchases int64       `json:"prior_purchases"`
	CreditTimes    []time.Time `json:"credit_times"` // prior credits within the lookback window
}

// RiskSnapshot is everything the detector reads for one transaction.
type RiskSnapshot struct {
	Account      AccountHistory
	Counterparty CounterpartyHistory
	CatalogPrice *int64
}
