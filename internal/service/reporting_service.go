package service

import (
	"context"

	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"
	"vishwas-ledger/pkg/apperror"

	"github.com/google/uuid"
)

const maxPageSize = 100

// reportingService implements ports.ReportingService.
type reportingService struct {
	txRepo   ports.TransactionRepository
	attempts ports.LedgerAttemptRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(txRepo ports.TransactionRepository, attempts ports.LedgerAttemptRepository) ports.ReportingService {
	return &reportingService{txRepo: txRepo, attempts: attempts}
}

// ListLedgerFailures returns verified transactions whose ledger write needs attention.
func (s *reportingService) ListLedgerFailures(ctx context.Context, page, pageSize int) ([]domain.Transaction, int64, error) {
	hasRef := false
	return s.list(ctx, ports.TransactionListParams{
		Statuses:     []domain.VerificationStatus{domain.StatusVerified},
		LedgerStates: []domain.LedgerState{domain.LedgerStateWriteFailed, domain.LedgerStateFeeBlocked, domain.LedgerStateRetrying},
		HasLedgerRef: &hasRef,
		Page:         page,
		PageSize:     pageSize,
	})
}

// ListFlagged returns flagged transactions and verified sales marked for review.
func (s *reportingService) ListFlagged(ctx context.Context, page, pageSize int) ([]domain.Transaction, int64, error) {
	review := true
	return s.list(ctx, ports.TransactionListParams{
		NeedsReview: &review,
		Page:        page,
		PageSize:    pageSize,
	})
}

// ListAttempts returns the ledger write log for a transaction or batch.
func (s *reportingService) ListAttempts(ctx context.Context, subjectID uuid.UUID) ([]domain.LedgerAttempt, error) {
	attempts, err := s.attempts.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return attempts, nil
}

// ListVerified is the credit-scoring feed: only transactions that are both
// verified and on the ledger, either individually or through a daily batch.
func (s *reportingService) ListVerified(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]domain.Transaction, int64, error) {
	hasRef := true
	return s.list(ctx, ports.TransactionListParams{
		AccountID:    &accountID,
		Statuses:     []domain.VerificationStatus{domain.StatusVerified},
		HasLedgerRef: &hasRef,
		Page:         page,
		PageSize:     pageSize,
	})
}

func (s *reportingService) list(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > maxPageSize {
		params.PageSize = 20
	}
	txns, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(err)
	}
	return txns, total, nil
}
