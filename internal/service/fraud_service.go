package service

import (
	"math"
	"time"

	"vishwas-ledger/internal/core/domain"
)

// Rule names reported in FraudResult.Reasons.
const (
	RuleCreditAmount   = "credit_amount_anomaly"
	RuleCreditFreq     = "credit_frequency"
	RuleColdStart      = "cold_start_credit"
	RuleOffHours       = "off_hours"
	RulePriceDeviation = "price_deviation"
)

// FraudThresholds holds the tunable anomaly thresholds.
type FraudThresholds struct {
	CreditMultiple  float64 // credit > multiple x average daily sales
	FrequencyLimit  int     // max credits to one counterparty inside the window
	FrequencyWindow time.Duration
	OffHoursStart   int // local hour, inclusive
	OffHoursEnd     int // local hour, exclusive
	PriceBand       float64
	CriticalScore   float64
	Location        *time.Location
}

// DefaultFraudThresholds returns the shipped defaults.
func DefaultFraudThresholds() FraudThresholds {
	return FraudThresholds{
		CreditMultiple:  2.0,
		FrequencyLimit:  3,
		FrequencyWindow: 24 * time.Hour,
		OffHoursStart:   22,
		OffHoursEnd:     6,
		PriceBand:       0.20,
		CriticalScore:   0.85,
		Location:        time.UTC,
	}
}

type fraudRule struct {
	name     string
	severity domain.RiskLevel
	weight   float64
	check    func(tx *domain.Transaction, snap domain.RiskSnapshot) bool
}

// RuleFraudDetector implements ports.FraudDetector with independent weighted rules.
// Output depends only on the transaction and the snapshot; the only clock
// it reads is tx.CreatedAt.
type RuleFraudDetector struct {
	th    FraudThresholds
	rules []fraudRule
}

// NewRuleFraudDetector creates a detector with the given thresholds.
func NewRuleFraudDetector(th FraudThresholds) *RuleFraudDetector {
	if th.Location == nil {
		th.Location = time.UTC
	}
	d := &RuleFraudDetector{th: th}
	d.rules = []fraudRule{
		{RuleCreditAmount, domain.RiskHigh, 0.50, d.creditAmount},
		{RuleCreditFreq, domain.RiskHigh, 0.50, d.creditFrequency},
		{RuleColdStart, domain.RiskMedium, 0.35, d.coldStart},
		{RuleOffHours, domain.RiskLow, 0.10, d.offHours},
		{RulePriceDeviation, domain.RiskMedium, 0.30, d.priceDeviation},
	}
	return d
}

// Evaluate scores the transaction. score = 1 - prod(1 - w) over triggered
// rules, so adding a trigger never lowers it. The level is the highest
// triggered severity, raised to critical once the score crosses the threshold.
func (d *RuleFraudDetector) Evaluate(tx *domain.Transaction, snap domain.RiskSnapshot) domain.FraudResult {
	level := domain.RiskLow
	clean := 1.0
	reasons := make([]string, 0, len(d.rules))

	for _, r := range d.rules {
		if !r.check(tx, snap) {
			continue
		}
		reasons = append(reasons, r.name)
		level = domain.MaxRisk(level, r.severity)
		clean *= 1 - r.weight
	}

	score := math.Round((1-clean)*10000) / 10000
	if len(reasons) > 0 && score >= d.th.CriticalScore {
		level = domain.RiskCritical
	}

	return domain.FraudResult{RiskLevel: level, Score: score, Reasons: reasons}
}

func (d *RuleFraudDetector) creditAmount(tx *domain.Transaction, snap domain.RiskSnapshot) bool {
	if tx.Type != domain.TransactionTypeCredit {
		return false
	}
	return float64(tx.Amount) > d.th.CreditMultiple*snap.Account.AverageDailySales()
}

// creditFrequency counts the current credit together with earlier ones
// to the same counterparty inside the window.
func (d *RuleFraudDetector) creditFrequency(tx *domain.Transaction, snap domain.RiskSnapshot) bool {
	if tx.Type != domain.TransactionTypeCredit {
		return false
	}
	from := tx.CreatedAt.Add(-d.th.FrequencyWindow)
	n := 1
	for _, at := range snap.Counterparty.CreditTimes {
		if !at.Before(from) && at.Before(tx.CreatedAt) {
			n++
		}
	}
	return n > d.th.FrequencyLimit
}

func (d *RuleFraudDetector) coldStart(tx *domain.Transaction, snap domain.RiskSnapshot) bool {
	return tx.Type == domain.TransactionTypeCredit && snap.Counterparty.PriorPurchases == 0
}

func (d *RuleFraudDetector) offHours(tx *domain.Transaction, _ domain.RiskSnapshot) bool {
	start, end := d.th.OffHoursStart, d.th.OffHoursEnd
	if start == end {
		return false
	}
	h := tx.CreatedAt.In(d.th.Location).Hour()
	if start > end {
		return h >= start || h < end
	}
	return h >= start && h < end
}

func (d *RuleFraudDetector) priceDeviation(tx *domain.Transaction, snap domain.RiskSnapshot) bool {
	if tx.Type != domain.TransactionTypeSale || snap.CatalogPrice == nil || *snap.CatalogPrice <= 0 {
		return false
	}
	ref := float64(*snap.CatalogPrice)
	return math.Abs(float64(tx.UnitPrice())-ref)/ref > d.th.PriceBand
}
