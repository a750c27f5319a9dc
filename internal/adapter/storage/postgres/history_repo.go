package postgres

import (
	"context"
	"fmt"
	"time"

	"vishwas-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// HistoryRepo implements ports.HistoryRepository by aggregating transactions.
type HistoryRepo struct {
	pool Pool
}

// NewHistoryRepo creates a new HistoryRepo.
func NewHistoryRepo(pool Pool) *HistoryRepo {
	return &HistoryRepo{pool: pool}
}

// AccountHistory aggregates an account's verified activity before asOf.
func (r *HistoryRepo) AccountHistory(ctx context.Context, accountID uuid.UUID, asOf time.Time) (*domain.AccountHistory, error) {
	query := `SELECT
		COALESCE(SUM(amount) FILTER (WHERE type = 'sale'), 0),
		COALESCE(SUM(amount) FILTER (WHERE type = 'credit'), 0),
		COALESCE(SUM(amount) FILTER (WHERE type = 'repay'), 0),
		COUNT(*),
		COUNT(DISTINCT date_trunc('day', created_at))
		FROM transactions
		WHERE account_id = $1 AND status = 'verified' AND created_at < $2`

	h := &domain.AccountHistory{AccountID: accountID.String(), AsOf: asOf}
	err := r.pool.QueryRow(ctx, query, accountID, asOf).Scan(
		&h.TotalSales, &h.CreditExtended, &h.CreditRepaid, &h.TransactionCount, &h.DaysActive,
	)
	if err != nil {
		return nil, fmt.Errorf("account history: %w", err)
	}
	return h, nil
}

// CounterpartyHistory returns prior purchases and the credits extended to a
// counterparty in [windowStart, asOf). Rejected rows are ignored.
func (r *HistoryRepo) CounterpartyHistory(ctx context.Context, counterpartyID uuid.UUID, windowStart, asOf time.Time) (*domain.CounterpartyHistory, error) {
	h := &domain.CounterpartyHistory{CounterpartyID: counterpartyID.String()}

	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions
		WHERE counterparty_id = $1 AND type = 'sale' AND status = 'verified' AND created_at < $2`,
		counterpartyID, asOf,
	).Scan(&h.PriorPurchases)
	if err != nil {
		return nil, fmt.Errorf("counterparty purchases: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT created_at FROM transactions
		WHERE counterparty_id = $1 AND type = 'credit' AND status <> 'rejected'
		AND created_at >= $2 AND created_at < $3
		ORDER BY created_at ASC`,
		counterpartyID, windowStart, asOf,
	)
	if err != nil {
		return nil, fmt.Errorf("counterparty credits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var at time.Time
		if err := rows.Scan(&at); err != nil {
			return nil, fmt.Errorf("scan credit time: %w", err)
		}
		h.CreditTimes = append(h.CreditTimes, at)
	}
	return h, rows.Err()
}
