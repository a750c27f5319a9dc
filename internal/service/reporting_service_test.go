package service

import (
	"context"
	"errors"
	"testing"

	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"
	"vishwas-ledger/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupReporting(t *testing.T) (ports.ReportingService, *mocks.MockTransactionRepository, *mocks.MockLedgerAttemptRepository) {
	ctrl := gomock.NewController(t)
	txRepo := mocks.NewMockTransactionRepository(ctrl)
	attempts := mocks.NewMockLedgerAttemptRepository(ctrl)
	return NewReportingService(txRepo, attempts), txRepo, attempts
}

func TestReportingService_ListVerified_OnlyLedgerBacked(t *testing.T) {
	svc, txRepo, _ := setupReporting(t)
	accountID := uuid.New()

	txRepo.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p ports.TransactionListParams) ([]domain.Transaction, int64, error) {
			require.NotNil(t, p.AccountID)
			assert.Equal(t, accountID, *p.AccountID)
			assert.Equal(t, []domain.VerificationStatus{domain.StatusVerified}, p.Statuses)
			require.NotNil(t, p.HasLedgerRef)
			assert.True(t, *p.HasLedgerRef)
			assert.Equal(t, 1, p.Page)
			assert.Equal(t, 20, p.PageSize)
			return []domain.Transaction{{ID: uuid.New()}}, 1, nil
		})

	txns, total, err := svc.ListVerified(context.Background(), accountID, 0, 500)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
	assert.Equal(t, int64(1), total)
}

func TestReportingService_ListLedgerFailures(t *testing.T) {
	svc, txRepo, _ := setupReporting(t)

	txRepo.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p ports.TransactionListParams) ([]domain.Transaction, int64, error) {
			assert.Contains(t, p.LedgerStates, domain.LedgerStateWriteFailed)
			assert.Contains(t, p.LedgerStates, domain.LedgerStateFeeBlocked)
			require.NotNil(t, p.HasLedgerRef)
			assert.False(t, *p.HasLedgerRef)
			return nil, 0, nil
		})

	_, _, err := svc.ListLedgerFailures(context.Background(), 2, 10)
	require.NoError(t, err)
}

func TestReportingService_ListFlagged(t *testing.T) {
	svc, txRepo, _ := setupReporting(t)

	txRepo.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p ports.TransactionListParams) ([]domain.Transaction, int64, error) {
			require.NotNil(t, p.NeedsReview)
			assert.True(t, *p.NeedsReview)
			return nil, 0, nil
		})

	_, _, err := svc.ListFlagged(context.Background(), 1, 20)
	require.NoError(t, err)
}

func TestReportingService_ListAttempts(t *testing.T) {
	svc, _, attempts := setupReporting(t)
	id := uuid.New()

	attempts.EXPECT().ListBySubject(gomock.Any(), id).Return([]domain.LedgerAttempt{{SubjectID: id}}, nil)
	got, err := svc.ListAttempts(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	attempts.EXPECT().ListBySubject(gomock.Any(), id).Return(nil, errors.New("db down"))
	_, err = svc.ListAttempts(context.Background(), id)
	assertAppError(t, err, "SYS_001")
}
