package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const txColumnList = `id, account_id, counterparty_id, type, amount, transcript, transcript_hash,
	language, product_id, quantity, status, risk_level, risk_score, risk_reasons, needs_review,
	counterparty_confirmed, confirmed_at, ledger_state, ledger_ref, ledger_block, ledger_attempts,
	ledger_next_retry_at, ledger_last_error, ledger_error_code, batch_id, created_at, updated_at`

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a new transaction within a database transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (` + txColumnList + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
		$20, $21, $22, $23, $24, $25, $26, $27)`

	_, err := tx.Exec(ctx, query, txArgs(t)...)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a transaction by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + txColumnList + ` FROM transactions WHERE id = $1`
	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches a transaction with a row lock. Must run inside a transaction.
func (r *TransactionRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + txColumnList + ` FROM transactions WHERE id = $1 FOR UPDATE`
	return scanTransaction(tx.QueryRow(ctx, query, id))
}

// UpdateDecision stores a new verification outcome.
func (r *TransactionRepo) UpdateDecision(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `UPDATE transactions SET status = $1, needs_review = $2, counterparty_confirmed = $3,
		confirmed_at = $4, ledger_state = $5, updated_at = $6
		WHERE id = $7`

	tag, err := tx.Exec(ctx, query,
		t.Status, t.NeedsReview, t.CounterpartyConfirmed, t.ConfirmedAt, t.LedgerState, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update transaction decision: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found: %s", t.ID)
	}
	return nil
}

// MarkLedgerConfirmed sets the ledger reference. The WHERE clause keeps the
// reference write-once and limited to verified rows.
func (r *TransactionRepo) MarkLedgerConfirmed(ctx context.Context, id uuid.UUID, receipt domain.LedgerReceipt) (bool, error) {
	query := `UPDATE transactions SET ledger_ref = $1, ledger_block = $2, ledger_state = $3,
		ledger_next_retry_at = NULL, ledger_error_code = NULL, updated_at = now()
		WHERE id = $4 AND status = 'verified' AND ledger_ref IS NULL`

	tag, err := r.pool.Exec(ctx, query, receipt.Ref, receipt.Block, domain.LedgerStateConfirmed, id)
	if err != nil {
		return false, fmt.Errorf("mark ledger confirmed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RecordLedgerFailure stores the bookkeeping of a failed write.
func (r *TransactionRepo) RecordLedgerFailure(ctx context.Context, id uuid.UUID, f ports.LedgerFailure) error {
	query := `UPDATE transactions SET ledger_state = $1, ledger_attempts = $2, ledger_next_retry_at = $3,
		ledger_last_error = $4, ledger_error_code = $5, updated_at = now()
		WHERE id = $6 AND ledger_ref IS NULL`

	_, err := r.pool.Exec(ctx, query, f.State, f.Attempts, f.NextRetryAt, f.LastError, f.ErrorCode, id)
	if err != nil {
		return fmt.Errorf("record ledger failure: %w", err)
	}
	return nil
}

// ListLedgerPending returns verified credit/repay rows still owed a ledger write.
func (r *TransactionRepo) ListLedgerPending(ctx context.Context, q ports.LedgerPendingQuery) ([]domain.Transaction, error) {
	query := `SELECT ` + txColumnList + ` FROM transactions
		WHERE status = 'verified' AND type IN ('credit', 'repay') AND ledger_ref IS NULL
		AND ledger_state IN ('queued', 'retrying', 'fee_blocked')
		AND created_at <= $1
		AND (ledger_next_retry_at IS NULL OR ledger_next_retry_at <= $2)
		ORDER BY created_at ASC LIMIT $3`

	return r.queryTransactions(ctx, query, q.CreatedBefore, q.Now, q.Limit)
}

// ListUnbatchedSales returns an account's verified sales in [from, to) not yet in a batch.
func (r *TransactionRepo) ListUnbatchedSales(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + txColumnList + ` FROM transactions
		WHERE account_id = $1 AND type = 'sale' AND status = 'verified' AND batch_id IS NULL
		AND created_at >= $2 AND created_at < $3
		ORDER BY created_at ASC`

	return r.queryTransactions(ctx, query, accountID, from, to)
}

// AccountsWithUnbatchedSales lists accounts that have sales to batch in [from, to).
func (r *TransactionRepo) AccountsWithUnbatchedSales(ctx context.Context, from, to time.Time) ([]uuid.UUID, error) {
	query := `SELECT DISTINCT account_id FROM transactions
		WHERE type = 'sale' AND status = 'verified' AND batch_id IS NULL
		AND created_at >= $1 AND created_at < $2`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list accounts with sales: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan account id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AttachBatch assigns sales to a batch. Rows already in a batch are left alone.
func (r *TransactionRepo) AttachBatch(ctx context.Context, tx pgx.Tx, batchID uuid.UUID, ids []uuid.UUID) error {
	query := `UPDATE transactions SET batch_id = $1, ledger_state = $2, updated_at = now()
		WHERE id = ANY($3) AND batch_id IS NULL`

	tag, err := tx.Exec(ctx, query, batchID, domain.LedgerStateBatched, ids)
	if err != nil {
		return fmt.Errorf("attach batch: %w", err)
	}
	if int(tag.RowsAffected()) != len(ids) {
		return fmt.Errorf("attach batch: %d of %d sales already batched", len(ids)-int(tag.RowsAffected()), len(ids))
	}
	return nil
}

// MarkBatchConfirmed copies the batch's ledger reference onto its sales.
func (r *TransactionRepo) MarkBatchConfirmed(ctx context.Context, tx pgx.Tx, batchID uuid.UUID, receipt domain.LedgerReceipt) (int64, error) {
	query := `UPDATE transactions SET ledger_ref = $1, ledger_block = $2, ledger_state = $3, updated_at = now()
		WHERE batch_id = $4 AND status = 'verified' AND ledger_ref IS NULL`

	tag, err := tx.Exec(ctx, query, receipt.Ref, receipt.Block, domain.LedgerStateConfirmed, batchID)
	if err != nil {
		return 0, fmt.Errorf("mark batch confirmed: %w", err)
	}
	return tag.RowsAffected(), nil
}

// List fetches transactions with filtering and pagination.
func (r *TransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.AccountID != nil {
		conditions = append(conditions, fmt.Sprintf("account_id = $%d", argIdx))
		args = append(args, *params.AccountID)
		argIdx++
	}
	if len(params.Statuses) > 0 {
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", argIdx))
		args = append(args, toStrings(params.Statuses))
		argIdx++
	}
	if len(params.LedgerStates) > 0 {
		conditions = append(conditions, fmt.Sprintf("ledger_state = ANY($%d)", argIdx))
		args = append(args, toStrings(params.LedgerStates))
		argIdx++
	}
	if params.NeedsReview != nil {
		conditions = append(conditions, fmt.Sprintf("needs_review = $%d", argIdx))
		args = append(args, *params.NeedsReview)
		argIdx++
	}
	if params.HasLedgerRef != nil {
		if *params.HasLedgerRef {
			conditions = append(conditions, "ledger_ref IS NOT NULL")
		} else {
			conditions = append(conditions, "ledger_ref IS NULL")
		}
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", where)
	var total int64
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	// Fetch page
	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT `+txColumnList+` FROM transactions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	txns, err := r.queryTransactions(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

func (r *TransactionRepo) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}

func txArgs(t *domain.Transaction) []any {
	reasons := t.RiskReasons
	if reasons == nil {
		reasons = []string{}
	}
	return []any{
		t.ID, t.AccountID, t.CounterpartyID, t.Type, t.Amount, t.Transcript, t.TranscriptHash,
		t.Language, t.ProductID, t.Quantity, t.Status, t.RiskLevel, t.RiskScore, reasons, t.NeedsReview,
		t.CounterpartyConfirmed, t.ConfirmedAt, t.LedgerState, t.LedgerRef, t.LedgerBlock, t.LedgerAttempts,
		t.LedgerNextRetryAt, t.LedgerLastError, t.LedgerErrorCode, t.BatchID, t.CreatedAt, t.UpdatedAt,
	}
}

// scanTransaction scans a single row. A missing row yields nil, nil.
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.ID, &t.AccountID, &t.CounterpartyID, &t.Type, &t.Amount, &t.Transcript, &t.TranscriptHash,
		&t.Language, &t.ProductID, &t.Quantity, &t.Status, &t.RiskLevel, &t.RiskScore, &t.RiskReasons, &t.NeedsReview,
		&t.CounterpartyConfirmed, &t.ConfirmedAt, &t.LedgerState, &t.LedgerRef, &t.LedgerBlock, &t.LedgerAttempts,
		&t.LedgerNextRetryAt, &t.LedgerLastError, &t.LedgerErrorCode, &t.BatchID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}

func toStrings[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}
