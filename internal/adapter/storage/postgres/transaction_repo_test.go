package postgres

import (
	"context"
	"testing"
	"time"

	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// newMockPool returns a pgxmock pool whose expectations are checked when the
// test finishes.
func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func newTestTransaction() *domain.Transaction {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Transaction{
		ID:             uuid.New(),
		AccountID:      uuid.New(),
		CounterpartyID: uuid.New(),
		Type:           domain.TransactionTypeCredit,
		Amount:         20000,
		Transcript:     "Ramesh ko do sau udhaar",
		TranscriptHash: "4f1d",
		Language:       strPtr("hi"),
		Quantity:       1,
		Status:         domain.StatusVerified,
		RiskLevel:      domain.RiskLow,
		RiskReasons:    []string{},
		LedgerState:    domain.LedgerStateQueued,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func txColumns() []string {
	return []string{"id", "account_id", "counterparty_id", "type", "amount", "transcript", "transcript_hash",
		"language", "product_id", "quantity", "status", "risk_level", "risk_score", "risk_reasons", "needs_review",
		"counterparty_confirmed", "confirmed_at", "ledger_state", "ledger_ref", "ledger_block", "ledger_attempts",
		"ledger_next_retry_at", "ledger_last_error", "ledger_error_code", "batch_id", "created_at", "updated_at"}
}

func txRow(rows *pgxmock.Rows, t *domain.Transaction) *pgxmock.Rows {
	return rows.AddRow(
		t.ID, t.AccountID, t.CounterpartyID, t.Type, t.Amount, t.Transcript, t.TranscriptHash,
		t.Language, t.ProductID, t.Quantity, t.Status, t.RiskLevel, t.RiskScore, t.RiskReasons, t.NeedsReview,
		t.CounterpartyConfirmed, t.ConfirmedAt, t.LedgerState, t.LedgerRef, t.LedgerBlock, t.LedgerAttempts,
		t.LedgerNextRetryAt, t.LedgerLastError, t.LedgerErrorCode, t.BatchID, t.CreatedAt, t.UpdatedAt,
	)
}

func TestTransactionRepo_Create(t *testing.T) {
	mock := newMockPool(t)

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(txArgs(txn)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), dbTx, txn)
	assert.NoError(t, err)
}

func TestTransactionRepo_GetByID(t *testing.T) {
	mock := newMockPool(t)

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(txn.ID).
		WillReturnRows(txRow(pgxmock.NewRows(txColumns()), txn))

	result, err := repo.GetByID(context.Background(), txn.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, txn.ID, result.ID)
	assert.Equal(t, txn.Type, result.Type)
	assert.Equal(t, txn.Amount, result.Amount)
	assert.Equal(t, "hi", *result.Language)
}

func TestTransactionRepo_GetByID_NotFound(t *testing.T) {
	mock := newMockPool(t)

	repo := NewTransactionRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(txColumns()))

	result, err := repo.GetByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestTransactionRepo_GetByIDForUpdate(t *testing.T) {
	mock := newMockPool(t)

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id = .+ FOR UPDATE").
		WithArgs(txn.ID).
		WillReturnRows(txRow(pgxmock.NewRows(txColumns()), txn))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByIDForUpdate(context.Background(), dbTx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, txn.ID, result.ID)
}

func TestTransactionRepo_UpdateDecision_NotFound(t *testing.T) {
	mock := newMockPool(t)

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE transactions SET status").
		WithArgs(txn.Status, txn.NeedsReview, txn.CounterpartyConfirmed, txn.ConfirmedAt, txn.LedgerState, txn.UpdatedAt, txn.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateDecision(context.Background(), dbTx, txn)
	assert.Error(t, err)
}

func TestTransactionRepo_MarkLedgerConfirmed_WriteOnce(t *testing.T) {
	mock := newMockPool(t)

	repo := NewTransactionRepo(mock)
	id := uuid.New()
	receipt := domain.LedgerReceipt{Ref: "0xabc", Block: 12}

	mock.ExpectExec("UPDATE transactions SET ledger_ref .+ WHERE id = .+ AND status = 'verified' AND ledger_ref IS NULL").
		WithArgs("0xabc", int64(12), domain.LedgerStateConfirmed, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE transactions SET ledger_ref").
		WithArgs("0xabc", int64(12), domain.LedgerStateConfirmed, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	updated, err := repo.MarkLedgerConfirmed(context.Background(), id, receipt)
	require.NoError(t, err)
	assert.True(t, updated)

	updated, err = repo.MarkLedgerConfirmed(context.Background(), id, receipt)
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestTransactionRepo_RecordLedgerFailure(t *testing.T) {
	mock := newMockPool(t)

	repo := NewTransactionRepo(mock)
	id := uuid.New()
	next := time.Now().UTC().Add(time.Minute)
	f := ports.LedgerFailure{
		State:       domain.LedgerStateRetrying,
		Attempts:    2,
		NextRetryAt: &next,
		LastError:   "ledger unavailable",
		ErrorCode:   "ledger_unavailable",
	}

	mock.ExpectExec("UPDATE transactions SET ledger_state").
		WithArgs(f.State, f.Attempts, f.NextRetryAt, f.LastError, f.ErrorCode, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.RecordLedgerFailure(context.Background(), id, f))
}

func TestTransactionRepo_ListLedgerPending(t *testing.T) {
	mock := newMockPool(t)

	repo := NewTransactionRepo(mock)
	a, b := newTestTransaction(), newTestTransaction()
	q := ports.LedgerPendingQuery{CreatedBefore: time.Now().UTC(), Now: time.Now().UTC(), Limit: 10}

	rows := pgxmock.NewRows(txColumns())
	txRow(rows, a)
	txRow(rows, b)
	mock.ExpectQuery("SELECT .+ FROM transactions\\s+WHERE status = 'verified' AND type IN").
		WithArgs(q.CreatedBefore, q.Now, q.Limit).
		WillReturnRows(rows)

	got, err := repo.ListLedgerPending(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestTransactionRepo_AccountsWithUnbatchedSales(t *testing.T) {
	mock := newMockPool(t)

	repo := NewTransactionRepo(mock)
	from := time.Date(2026, 3, 13, 23, 55, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	acct := uuid.New()

	mock.ExpectQuery("SELECT DISTINCT account_id FROM transactions").
		WithArgs(from, to).
		WillReturnRows(pgxmock.NewRows([]string{"account_id"}).AddRow(acct))

	ids, err := repo.AccountsWithUnbatchedSales(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{acct}, ids)
}

func TestTransactionRepo_AttachBatch_DetectsAlreadyBatched(t *testing.T) {
	mock := newMockPool(t)

	repo := NewTransactionRepo(mock)
	batchID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE transactions SET batch_id").
		WithArgs(batchID, domain.LedgerStateBatched, ids).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.AttachBatch(context.Background(), dbTx, batchID, ids)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 sales already batched")
}

func TestTransactionRepo_MarkBatchConfirmed(t *testing.T) {
	mock := newMockPool(t)

	repo := NewTransactionRepo(mock)
	batchID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE transactions SET ledger_ref .+ WHERE batch_id").
		WithArgs("0xb", int64(5), domain.LedgerStateConfirmed, batchID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	n, err := repo.MarkBatchConfirmed(context.Background(), dbTx, batchID, domain.LedgerReceipt{Ref: "0xb", Block: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestTransactionRepo_List_VerifiedFeed(t *testing.T) {
	mock := newMockPool(t)

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()
	txn.LedgerRef = strPtr("0xabc")
	hasRef := true

	params := ports.TransactionListParams{
		AccountID:    &txn.AccountID,
		Statuses:     []domain.VerificationStatus{domain.StatusVerified},
		HasLedgerRef: &hasRef,
		Page:         2,
		PageSize:     10,
	}

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM transactions WHERE account_id = \\$1 AND status = ANY\\(\\$2\\) AND ledger_ref IS NOT NULL").
		WithArgs(txn.AccountID, []string{"verified"}).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(11)))
	mock.ExpectQuery("SELECT .+ FROM transactions WHERE .+ ORDER BY created_at DESC LIMIT \\$3 OFFSET \\$4").
		WithArgs(txn.AccountID, []string{"verified"}, 10, 10).
		WillReturnRows(txRow(pgxmock.NewRows(txColumns()), txn))

	txns, total, err := repo.List(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	require.Len(t, txns, 1)
	assert.Equal(t, "0xabc", *txns[0].LedgerRef)
}
