package postgres

import (
	"context"
	"errors"
	"fmt"

	"vishwas-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CounterpartyRepo implements ports.CounterpartyRepository.
type CounterpartyRepo struct {
	pool Pool
}

// NewCounterpartyRepo creates a new CounterpartyRepo.
func NewCounterpartyRepo(pool Pool) *CounterpartyRepo {
	return &CounterpartyRepo{pool: pool}
}

// GetByIDForUpdate fetches a counterparty with a row lock.
func (r *CounterpartyRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Counterparty, error) {
	query := `SELECT id, account_id, name, credit_outstanding, created_at
		FROM counterparties WHERE id = $1 FOR UPDATE`

	c := &domain.Counterparty{}
	err := tx.QueryRow(ctx, query, id).Scan(&c.ID, &c.AccountID, &c.Name, &c.CreditOutstanding, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get counterparty for update: %w", err)
	}
	return c, nil
}

// ApplyCreditDelta moves the counterparty's outstanding credit.
func (r *CounterpartyRepo) ApplyCreditDelta(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int64) error {
	tag, err := tx.Exec(ctx, `UPDATE counterparties SET credit_outstanding = credit_outstanding + $1 WHERE id = $2`, delta, id)
	if err != nil {
		return fmt.Errorf("apply credit delta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("counterparty not found: %s", id)
	}
	return nil
}

// CatalogRepo implements ports.CatalogRepository.
type CatalogRepo struct {
	pool Pool
}

// NewCatalogRepo creates a new CatalogRepo.
func NewCatalogRepo(pool Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

// GetUnitPrice returns the reference price, or nil when the product is not listed.
func (r *CatalogRepo) GetUnitPrice(ctx context.Context, accountID uuid.UUID, productID string) (*int64, error) {
	var price int64
	err := r.pool.QueryRow(ctx,
		`SELECT unit_price FROM catalog_items WHERE account_id = $1 AND product_id = $2`,
		accountID, productID,
	).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit price: %w", err)
	}
	return &price, nil
}
