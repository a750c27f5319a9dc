package postgres

import (
	"context"
	"errors"
	"fmt"

	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const batchColumns = `id, account_id, business_date, total, sale_count, batch_hash, ledger_state, ledger_ref,
	ledger_block, ledger_attempts, ledger_next_retry_at, ledger_last_error, created_at, updated_at`

// ErrBatchExists is returned when the account already has a batch for the day.
var ErrBatchExists = errors.New("daily batch already exists")

// BatchRepo implements ports.BatchRepository.
type BatchRepo struct {
	pool Pool
}

// NewBatchRepo creates a new BatchRepo.
func NewBatchRepo(pool Pool) *BatchRepo {
	return &BatchRepo{pool: pool}
}

// Create inserts a batch within a database transaction.
func (r *BatchRepo) Create(ctx context.Context, tx pgx.Tx, b *domain.DailyBatch) error {
	query := `INSERT INTO daily_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := tx.Exec(ctx, query,
		b.ID, b.AccountID, b.BusinessDate, b.Total, b.SaleCount, b.BatchHash, b.LedgerState, b.LedgerRef,
		b.LedgerBlock, b.LedgerAttempts, b.LedgerNextRetryAt, b.LedgerLastError, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: account %s on %s", ErrBatchExists, b.AccountID, b.BusinessDate)
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID fetches a batch together with its member transaction ids.
func (r *BatchRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DailyBatch, error) {
	b, err := scanBatch(r.pool.QueryRow(ctx, `SELECT `+batchColumns+` FROM daily_batches WHERE id = $1`, id))
	if err != nil || b == nil {
		return b, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id FROM transactions WHERE batch_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("list batch members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var txID uuid.UUID
		if err := rows.Scan(&txID); err != nil {
			return nil, fmt.Errorf("scan batch member: %w", err)
		}
		b.TransactionIDs = append(b.TransactionIDs, txID)
	}
	return b, rows.Err()
}

// GetByAccountDate fetches the batch of an account for a business date.
func (r *BatchRepo) GetByAccountDate(ctx context.Context, accountID uuid.UUID, businessDate string) (*domain.DailyBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM daily_batches WHERE account_id = $1 AND business_date = $2`
	return scanBatch(r.pool.QueryRow(ctx, query, accountID, businessDate))
}

// MarkLedgerConfirmed sets the batch's ledger reference once.
func (r *BatchRepo) MarkLedgerConfirmed(ctx context.Context, tx pgx.Tx, id uuid.UUID, receipt domain.LedgerReceipt) (bool, error) {
	query := `UPDATE daily_batches SET ledger_ref = $1, ledger_block = $2, ledger_state = $3,
		ledger_next_retry_at = NULL, updated_at = now()
		WHERE id = $4 AND ledger_ref IS NULL`

	tag, err := tx.Exec(ctx, query, receipt.Ref, receipt.Block, domain.LedgerStateConfirmed, id)
	if err != nil {
		return false, fmt.Errorf("mark batch ledger confirmed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RecordLedgerFailure stores the bookkeeping of a failed batch write.
func (r *BatchRepo) RecordLedgerFailure(ctx context.Context, id uuid.UUID, f ports.LedgerFailure) error {
	query := `UPDATE daily_batches SET ledger_state = $1, ledger_attempts = $2, ledger_next_retry_at = $3,
		ledger_last_error = $4, updated_at = now()
		WHERE id = $5 AND ledger_ref IS NULL`

	_, err := r.pool.Exec(ctx, query, f.State, f.Attempts, f.NextRetryAt, f.LastError, id)
	if err != nil {
		return fmt.Errorf("record batch failure: %w", err)
	}
	return nil
}

// ListLedgerPending returns batches still owed a ledger write.
func (r *BatchRepo) ListLedgerPending(ctx context.Context, q ports.LedgerPendingQuery) ([]domain.DailyBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM daily_batches
		WHERE ledger_ref IS NULL AND ledger_state IN ('queued', 'retrying', 'fee_blocked')
		AND created_at <= $1
		AND (ledger_next_retry_at IS NULL OR ledger_next_retry_at <= $2)
		ORDER BY created_at ASC LIMIT $3`

	rows, err := r.pool.Query(ctx, query, q.CreatedBefore, q.Now, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list pending batches: %w", err)
	}
	defer rows.Close()

	var batches []domain.DailyBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, *b)
	}
	return batches, rows.Err()
}

func scanBatch(row pgx.Row) (*domain.DailyBatch, error) {
	b := &domain.DailyBatch{}
	err := row.Scan(
		&b.ID, &b.AccountID, &b.BusinessDate, &b.Total, &b.SaleCount, &b.BatchHash, &b.LedgerState, &b.LedgerRef,
		&b.LedgerBlock, &b.LedgerAttempts, &b.LedgerNextRetryAt, &b.LedgerLastError, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan batch: %w", err)
	}
	return b, nil
}
