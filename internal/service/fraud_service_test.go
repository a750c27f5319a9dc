package service

import (
	"testing"
	"time"

	"vishwas-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noon = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func creditTx(amount int64, at time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:             uuid.New(),
		AccountID:      uuid.New(),
		CounterpartyID: uuid.New(),
		Type:           domain.TransactionTypeCredit,
		Amount:         amount,
		Quantity:       1,
		CreatedAt:      at,
	}
}

func knownCustomer() domain.RiskSnapshot {
	return domain.RiskSnapshot{
		Account:      domain.AccountHistory{TotalSales: 300_000, DaysActive: 30},
		Counterparty: domain.CounterpartyHistory{PriorPurchases: 5},
	}
}

func TestRuleFraudDetector_CleanCreditIsLow(t *testing.T) {
	d := NewRuleFraudDetector(DefaultFraudThresholds())

	res := d.Evaluate(creditTx(5000, noon), knownCustomer())

	assert.Equal(t, domain.RiskLow, res.RiskLevel)
	assert.Zero(t, res.Score)
	assert.Empty(t, res.Reasons)
}

func TestRuleFraudDetector_CreditAboveAverageSales(t *testing.T) {
	d := NewRuleFraudDetector(DefaultFraudThresholds())

	// average daily sales 10_000; threshold 20_000
	res := d.Evaluate(creditTx(20_001, noon), knownCustomer())
	assert.Equal(t, []string{RuleCreditAmount}, res.Reasons)
	assert.Equal(t, domain.RiskHigh, res.RiskLevel)
	assert.Equal(t, 0.5, res.Score)

	res = d.Evaluate(creditTx(20_000, noon), knownCustomer())
	assert.Empty(t, res.Reasons)
}

func TestRuleFraudDetector_NewAccountAnyCreditIsAnomalous(t *testing.T) {
	d := NewRuleFraudDetector(DefaultFraudThresholds())
	snap := knownCustomer()
	snap.Account = domain.AccountHistory{}

	res := d.Evaluate(creditTx(1, noon), snap)
	assert.Contains(t, res.Reasons, RuleCreditAmount)
}

func TestRuleFraudDetector_ColdStartAndAmountIsHigh(t *testing.T) {
	d := NewRuleFraudDetector(DefaultFraudThresholds())
	snap := domain.RiskSnapshot{
		Account: domain.AccountHistory{TotalSales: 30_000, DaysActive: 30},
	}

	res := d.Evaluate(creditTx(5000, noon), snap)

	assert.ElementsMatch(t, []string{RuleCreditAmount, RuleColdStart}, res.Reasons)
	assert.Equal(t, domain.RiskHigh, res.RiskLevel)
	assert.InDelta(t, 0.675, res.Score, 1e-9)
}

func TestRuleFraudDetector_CreditFrequency(t *testing.T) {
	d := NewRuleFraudDetector(DefaultFraudThresholds())
	snap := knownCustomer()

	// two earlier credits today plus this one: at the limit
	snap.Counterparty.CreditTimes = []time.Time{noon.Add(-2 * time.Hour), noon.Add(-time.Hour)}
	assert.NotContains(t, d.Evaluate(creditTx(100, noon), snap).Reasons, RuleCreditFreq)

	// a third earlier credit pushes it over
	snap.Counterparty.CreditTimes = append(snap.Counterparty.CreditTimes, noon.Add(-30*time.Minute))
	assert.Contains(t, d.Evaluate(creditTx(100, noon), snap).Reasons, RuleCreditFreq)

	// credits outside the window do not count
	snap.Counterparty.CreditTimes = []time.Time{noon.Add(-48 * time.Hour), noon.Add(-30 * time.Hour), noon.Add(-25 * time.Hour)}
	assert.NotContains(t, d.Evaluate(creditTx(100, noon), snap).Reasons, RuleCreditFreq)
}

func TestRuleFraudDetector_OffHours(t *testing.T) {
	d := NewRuleFraudDetector(DefaultFraudThresholds())

	tests := []struct {
		hour int
		want bool
	}{
		{21, false},
		{22, true},
		{23, true},
		{0, true},
		{5, true},
		{6, false},
		{12, false},
	}
	for _, tt := range tests {
		at := time.Date(2026, 3, 14, tt.hour, 15, 0, 0, time.UTC)
		tx := creditTx(100, at)
		tx.Type = domain.TransactionTypeRepay
		res := d.Evaluate(tx, knownCustomer())
		assert.Equal(t, tt.want, len(res.Reasons) == 1 && res.Reasons[0] == RuleOffHours, "hour %d", tt.hour)
	}
}

func TestRuleFraudDetector_OffHoursUsesConfiguredZone(t *testing.T) {
	th := DefaultFraudThresholds()
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	th.Location = ist
	d := NewRuleFraudDetector(th)

	// 17:00 UTC is 22:30 IST
	tx := creditTx(100, time.Date(2026, 3, 14, 17, 0, 0, 0, time.UTC))
	tx.Type = domain.TransactionTypeRepay
	assert.Contains(t, d.Evaluate(tx, knownCustomer()).Reasons, RuleOffHours)
}

func TestRuleFraudDetector_PriceDeviation(t *testing.T) {
	d := NewRuleFraudDetector(DefaultFraudThresholds())

	sale := &domain.Transaction{
		Type:      domain.TransactionTypeSale,
		Amount:    3600,
		Quantity:  3,
		ProductID: strPtr("soap"),
		CreatedAt: noon,
	}
	snap := knownCustomer()

	snap.CatalogPrice = int64Ptr(1000) // unit price 1200, 20% off: inside the band
	assert.Empty(t, d.Evaluate(sale, snap).Reasons)

	snap.CatalogPrice = int64Ptr(900) // 33% off
	res := d.Evaluate(sale, snap)
	assert.Equal(t, []string{RulePriceDeviation}, res.Reasons)
	assert.Equal(t, domain.RiskMedium, res.RiskLevel)

	snap.CatalogPrice = nil
	assert.Empty(t, d.Evaluate(sale, snap).Reasons)
}

func TestRuleFraudDetector_CriticalWhenScoreCrossesThreshold(t *testing.T) {
	d := NewRuleFraudDetector(DefaultFraudThresholds())
	snap := domain.RiskSnapshot{
		Counterparty: domain.CounterpartyHistory{
			CreditTimes: []time.Time{noon.Add(-3 * time.Hour), noon.Add(-2 * time.Hour), noon.Add(-time.Hour)},
		},
	}

	// amount + frequency + cold start = 1 - 0.5*0.5*0.65
	res := d.Evaluate(creditTx(100, noon), snap)
	assert.Len(t, res.Reasons, 3)
	assert.InDelta(t, 0.8375, res.Score, 1e-9)
	assert.Equal(t, domain.RiskHigh, res.RiskLevel)

	// plus off-hours pushes past 0.85
	res = d.Evaluate(creditTx(100, time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)), domain.RiskSnapshot{
		Counterparty: domain.CounterpartyHistory{
			CreditTimes: []time.Time{noon.Add(8 * time.Hour), noon.Add(9 * time.Hour), noon.Add(10 * time.Hour)},
		},
	})
	assert.Len(t, res.Reasons, 4)
	assert.Equal(t, domain.RiskCritical, res.RiskLevel)
}

func TestRuleFraudDetector_Deterministic(t *testing.T) {
	d := NewRuleFraudDetector(DefaultFraudThresholds())
	tx := creditTx(50_000, time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC))
	snap := domain.RiskSnapshot{Account: domain.AccountHistory{TotalSales: 10_000, DaysActive: 10}}

	first := d.Evaluate(tx, snap)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, d.Evaluate(tx, snap))
	}
}

func TestRuleFraudDetector_MoreTriggersNeverLowerScore(t *testing.T) {
	d := NewRuleFraudDetector(DefaultFraudThresholds())
	base := knownCustomer()

	// each step adds one triggered rule on top of the previous ones
	steps := []func(tx *domain.Transaction, s *domain.RiskSnapshot){
		func(tx *domain.Transaction, s *domain.RiskSnapshot) {},
		func(tx *domain.Transaction, s *domain.RiskSnapshot) {
			tx.CreatedAt = time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)
		},
		func(tx *domain.Transaction, s *domain.RiskSnapshot) { s.Counterparty.PriorPurchases = 0 },
		func(tx *domain.Transaction, s *domain.RiskSnapshot) { tx.Amount = 1_000_000 },
		func(tx *domain.Transaction, s *domain.RiskSnapshot) {
			s.Counterparty.CreditTimes = []time.Time{tx.CreatedAt.Add(-time.Hour), tx.CreatedAt.Add(-2 * time.Hour), tx.CreatedAt.Add(-3 * time.Hour)}
		},
	}

	tx := creditTx(100, noon)
	snap := base
	prevScore := -1.0
	prevLevel := domain.RiskLow
	for i, step := range steps {
		step(tx, &snap)
		res := d.Evaluate(tx, snap)
		assert.Len(t, res.Reasons, i, "step %d", i)
		assert.GreaterOrEqual(t, res.Score, prevScore, "step %d", i)
		assert.True(t, res.RiskLevel.AtLeast(prevLevel), "step %d", i)
		prevScore, prevLevel = res.Score, res.RiskLevel
	}
}
