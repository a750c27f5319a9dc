package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"
	"vishwas-ledger/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type reconcileDeps struct {
	txRepo  *mocks.MockTransactionRepository
	batches *mocks.MockBatchRepository
	writer  *mocks.MockLedgerWriter
	lock    *mocks.MockJobLock
}

var reconcileNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func setupReconcile(t *testing.T, withLock bool) (*ReconciliationService, *reconcileDeps) {
	ctrl := gomock.NewController(t)
	d := &reconcileDeps{
		txRepo:  mocks.NewMockTransactionRepository(ctrl),
		batches: mocks.NewMockBatchRepository(ctrl),
		writer:  mocks.NewMockLedgerWriter(ctrl),
		lock:    mocks.NewMockJobLock(ctrl),
	}
	var lock ports.JobLock
	if withLock {
		lock = d.lock
	}
	svc := NewReconciliationService(d.txRepo, d.batches, d.writer, lock, ReconcileConfig{
		GracePeriod: 2 * time.Minute,
		MaxRetries:  5,
		BatchSize:   50,
	}, fixedClock(reconcileNow), newTestLogger())
	return svc, d
}

func TestReconcile_RunOnce_ClassifiesOutcomes(t *testing.T) {
	svc, d := setupReconcile(t, false)
	ok, dup, down, broke := verifiedCredit(uuid.New()), verifiedCredit(uuid.New()), verifiedCredit(uuid.New()), verifiedCredit(uuid.New())

	d.txRepo.EXPECT().ListLedgerPending(gomock.Any(), ports.LedgerPendingQuery{
		CreatedBefore: reconcileNow.Add(-2 * time.Minute),
		Now:           reconcileNow,
		Limit:         50,
	}).Return([]domain.Transaction{*ok, *dup, *down, *broke}, nil)

	d.writer.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tx *domain.Transaction) (*domain.LedgerReceipt, error) {
			switch tx.ID {
			case ok.ID:
				return &domain.LedgerReceipt{Ref: "0x1"}, nil
			case dup.ID:
				return &domain.LedgerReceipt{Ref: "0x2", AlreadyRecorded: true}, nil
			case down.ID:
				tx.LedgerState = domain.LedgerStateRetrying
				return nil, domain.NewLedgerError(domain.ErrLedgerUnavailable, "", nil)
			default:
				tx.LedgerState = domain.LedgerStateFeeBlocked
				return nil, domain.NewLedgerError(domain.ErrInsufficientFunds, "", nil)
			}
		}).Times(4)
	d.batches.EXPECT().ListLedgerPending(gomock.Any(), gomock.Any()).Return(nil, nil)

	report, err := svc.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.Scanned)
	assert.Equal(t, 1, report.Confirmed)
	assert.Equal(t, 1, report.AlreadyRecorded)
	assert.Equal(t, 1, report.Retrying)
	assert.Equal(t, 1, report.FeeBlocked)
}

func TestReconcile_RunOnce_ParksExhaustedRows(t *testing.T) {
	svc, d := setupReconcile(t, false)
	tx := verifiedCredit(uuid.New())
	tx.LedgerAttempts = 5
	tx.LedgerLastError = strPtr("ledger unavailable: timeout")

	d.txRepo.EXPECT().ListLedgerPending(gomock.Any(), gomock.Any()).Return([]domain.Transaction{*tx}, nil)
	d.txRepo.EXPECT().RecordLedgerFailure(gomock.Any(), tx.ID, ports.LedgerFailure{
		State:     domain.LedgerStateWriteFailed,
		Attempts:  5,
		LastError: "ledger unavailable: timeout",
		ErrorCode: "ledger_unavailable",
	}).Return(nil)
	d.batches.EXPECT().ListLedgerPending(gomock.Any(), gomock.Any()).Return(nil, nil)

	report, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.PermanentlyFailed)
}

func TestReconcile_RunOnce_RetriesBatches(t *testing.T) {
	svc, d := setupReconcile(t, false)
	b := domain.DailyBatch{ID: uuid.New(), Total: 100, SaleCount: 1}

	d.txRepo.EXPECT().ListLedgerPending(gomock.Any(), gomock.Any()).Return(nil, nil)
	d.batches.EXPECT().ListLedgerPending(gomock.Any(), gomock.Any()).Return([]domain.DailyBatch{b}, nil)
	d.writer.EXPECT().SubmitBatch(gomock.Any(), gomock.Any()).Return(&domain.LedgerReceipt{Ref: "0xb"}, nil)

	report, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.BatchesScanned)
	assert.Equal(t, 1, report.BatchesConfirmed)
}

// A ledger outage over several passes ends in exactly one successful write.
func TestReconcile_OutageThenRecoveryWritesOnce(t *testing.T) {
	svc, d := setupReconcile(t, false)
	tx := verifiedCredit(uuid.New())
	const outagePasses = 3

	pass := 0
	d.txRepo.EXPECT().ListLedgerPending(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, ports.LedgerPendingQuery) ([]domain.Transaction, error) {
			if tx.LedgerRef != nil {
				return nil, nil
			}
			return []domain.Transaction{*tx}, nil
		}).Times(outagePasses + 2)
	d.batches.EXPECT().ListLedgerPending(gomock.Any(), gomock.Any()).Return(nil, nil).Times(outagePasses + 2)

	writes := 0
	d.writer.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, row *domain.Transaction) (*domain.LedgerReceipt, error) {
			if pass < outagePasses {
				tx.LedgerAttempts++
				tx.LedgerState = domain.LedgerStateRetrying
				row.LedgerState = domain.LedgerStateRetrying
				return nil, domain.NewLedgerError(domain.ErrLedgerUnavailable, "", nil)
			}
			writes++
			tx.LedgerRef = strPtr("0xfinal")
			return &domain.LedgerReceipt{Ref: "0xfinal"}, nil
		}).Times(outagePasses + 1)

	for pass = 0; pass < outagePasses+2; pass++ {
		_, err := svc.RunOnce(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, 1, writes)
	assert.Equal(t, "0xfinal", *tx.LedgerRef)
	assert.Equal(t, outagePasses, tx.LedgerAttempts)
}

func TestReconcile_RunOnce_BusyWhenLockHeld(t *testing.T) {
	svc, d := setupReconcile(t, true)

	d.lock.EXPECT().Acquire(gomock.Any(), "reconcile", 4*time.Minute).Return("", false, nil)

	_, err := svc.RunOnce(context.Background())
	assertAppError(t, err, "LEDGER_003")
}

func TestReconcile_RunOnce_ReleasesLock(t *testing.T) {
	svc, d := setupReconcile(t, true)

	d.lock.EXPECT().Acquire(gomock.Any(), "reconcile", gomock.Any()).Return("tok", true, nil)
	d.txRepo.EXPECT().ListLedgerPending(gomock.Any(), gomock.Any()).Return(nil, nil)
	d.batches.EXPECT().ListLedgerPending(gomock.Any(), gomock.Any()).Return(nil, nil)
	d.lock.EXPECT().Release(gomock.Any(), "reconcile", "tok").Return(nil)

	_, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
}

func TestReconcile_RunOnce_LockStoreError(t *testing.T) {
	svc, d := setupReconcile(t, true)

	d.lock.EXPECT().Acquire(gomock.Any(), "reconcile", gomock.Any()).Return("", false, errors.New("redis: connection refused"))

	_, err := svc.RunOnce(context.Background())
	assertAppError(t, err, "SYS_002")
}

func TestReconcile_RunOnce_ListError(t *testing.T) {
	svc, d := setupReconcile(t, false)

	d.txRepo.EXPECT().ListLedgerPending(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err := svc.RunOnce(context.Background())
	assertAppError(t, err, "SYS_001")
}

func TestReconcile_ConcurrentCallersShareOnePass(t *testing.T) {
	svc, d := setupReconcile(t, false)

	release := make(chan struct{})
	d.txRepo.EXPECT().ListLedgerPending(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, ports.LedgerPendingQuery) ([]domain.Transaction, error) {
			<-release
			return nil, nil
		}).MinTimes(1).MaxTimes(2)
	d.batches.EXPECT().ListLedgerPending(gomock.Any(), gomock.Any()).Return(nil, nil).MinTimes(1).MaxTimes(2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RunOnce(context.Background())
			assert.NoError(t, err)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
}
