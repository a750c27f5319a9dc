package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is a shopkeeper: a ledger identity plus running balances.
type Account struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	LedgerAddress     string    `json:"ledger_address"`
	LedgerRegistered  bool      `json:"ledger_registered"`
	TotalSales        int64     `json:"total_sales"`
	CreditOutstanding int64     `json:"credit_outstanding"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Counterparty is a customer of an account.
type Counterparty struct {
	ID                uuid.UUID `json:"id"`
	AccountID         uuid.UUID `json:"account_id"`
	Name              string    `json:"name"`
	CreditOutstanding int64     `json:"credit_outstanding"`
	CreatedAt         time.Time `json:"created_at"`
}

// CatalogItem is the reference price an account sells a product at.
type CatalogItem struct {
	AccountID uuid.UUID `json:"account_id"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unit_price"`
}
