package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"
	"vishwas-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const reconcileJobName = "reconcile"

// ReconcileConfig tunes the reconciliation pass.
type ReconcileConfig struct {
	GracePeriod time.Duration
	MaxRetries  int
	BatchSize   int
	LockTTL     time.Duration
}

// ReconciliationService implements ports.Reconciler. It finds verified
// transactions and batches without a ledger reference and writes them.
type ReconciliationService struct {
	txRepo  ports.TransactionRepository
	batches ports.BatchRepository
	writer  ports.LedgerWriter
	lock    ports.JobLock // optional
	cfg     ReconcileConfig
	now     func() time.Time
	group   singleflight.Group
	log     zerolog.Logger
}

// NewReconciliationService creates a reconciler. lock may be nil for a
// single-replica deployment.
func NewReconciliationService(
	txRepo ports.TransactionRepository,
	batches ports.BatchRepository,
	writer ports.LedgerWriter,
	lock ports.JobLock,
	cfg ReconcileConfig,
	now func() time.Time,
	log zerolog.Logger,
) *ReconciliationService {
	if now == nil {
		now = time.Now
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 4 * time.Minute
	}
	return &ReconciliationService{
		txRepo:  txRepo,
		batches: batches,
		writer:  writer,
		lock:    lock,
		cfg:     cfg,
		now:     now,
		log:     log,
	}
}

// RunOnce runs one pass. Concurrent callers in this process share the same
// pass; another replica holding the lock yields ErrReconcileBusy.
func (s *ReconciliationService) RunOnce(ctx context.Context) (*ports.ReconcileReport, error) {
	v, err, _ := s.group.Do(reconcileJobName, func() (any, error) {
		return s.runLocked(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ports.ReconcileReport), nil
}

func (s *ReconciliationService) runLocked(ctx context.Context) (*ports.ReconcileReport, error) {
	if s.lock != nil {
		token, ok, err := s.lock.Acquire(ctx, reconcileJobName, s.cfg.LockTTL)
		if err != nil {
			return nil, apperror.ErrLockTimeout(fmt.Errorf("acquire reconcile lock: %w", err))
		}
		if !ok {
			return nil, apperror.ErrReconcileBusy()
		}
		defer func() {
			if err := s.lock.Release(context.WithoutCancel(ctx), reconcileJobName, token); err != nil {
				s.log.Warn().Err(err).Msg("reconcile lock release failed")
			}
		}()
	}
	return s.run(ctx)
}

func (s *ReconciliationService) run(ctx context.Context) (*ports.ReconcileReport, error) {
	now := s.now().UTC()
	report := &ports.ReconcileReport{StartedAt: now}
	query := ports.LedgerPendingQuery{
		CreatedBefore: now.Add(-s.cfg.GracePeriod),
		Now:           now,
		Limit:         s.cfg.BatchSize,
	}

	pending, err := s.txRepo.ListLedgerPending(ctx, query)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list pending transactions: %w", err))
	}
	for i := range pending {
		if ctx.Err() != nil {
			break
		}
		tx := &pending[i]
		report.Scanned++

		if tx.LedgerAttempts >= s.cfg.MaxRetries {
			s.giveUp(ctx, tx, report)
			continue
		}
		receipt, err := s.writer.Submit(ctx, tx)
		s.classify(receipt, err, tx.LedgerState, report)
	}

	batches, err := s.batches.ListLedgerPending(ctx, query)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list pending batches: %w", err))
	}
	for i := range batches {
		if ctx.Err() != nil {
			break
		}
		b := &batches[i]
		report.BatchesScanned++
		if _, err := s.writer.SubmitBatch(ctx, b); err == nil {
			report.BatchesConfirmed++
		}
	}

	report.FinishedAt = s.now().UTC()
	s.log.Info().
		Int("scanned", report.Scanned).
		Int("confirmed", report.Confirmed).
		Int("already_recorded", report.AlreadyRecorded).
		Int("retrying", report.Retrying).
		Int("fee_blocked", report.FeeBlocked).
		Int("permanently_failed", report.PermanentlyFailed).
		Int("batches_scanned", report.BatchesScanned).
		Int("batches_confirmed", report.BatchesConfirmed).
		Dur("duration", report.FinishedAt.Sub(report.StartedAt)).
		Msg("reconciliation pass finished")
	return report, nil
}

func (s *ReconciliationService) classify(receipt *domain.LedgerReceipt, err error, state domain.LedgerState, report *ports.ReconcileReport) {
	switch {
	case err == nil && receipt.AlreadyRecorded:
		report.AlreadyRecorded++
	case err == nil:
		report.Confirmed++
	case errors.Is(err, domain.ErrWriteInFlight):
		report.InFlight++
	case state == domain.LedgerStateFeeBlocked:
		report.FeeBlocked++
	case state == domain.LedgerStateWriteFailed:
		report.PermanentlyFailed++
	default:
		report.Retrying++
	}
}

// giveUp parks a row that exhausted its retries so it surfaces to operators.
func (s *ReconciliationService) giveUp(ctx context.Context, tx *domain.Transaction, report *ports.ReconcileReport) {
	lastErr := "retry budget exhausted"
	if tx.LedgerLastError != nil {
		lastErr = *tx.LedgerLastError
	}
	code := "ledger_unavailable"
	if tx.LedgerErrorCode != nil {
		code = *tx.LedgerErrorCode
	}
	failure := ports.LedgerFailure{
		State:     domain.LedgerStateWriteFailed,
		Attempts:  tx.LedgerAttempts,
		LastError: lastErr,
		ErrorCode: code,
	}
	if err := s.txRepo.RecordLedgerFailure(ctx, tx.ID, failure); err != nil {
		s.log.Error().Err(err).Str("tx_id", tx.ID.String()).Msg("could not park transaction")
		return
	}
	report.PermanentlyFailed++
	s.log.Error().
		Str("tx_id", tx.ID.String()).
		Int("attempts", tx.LedgerAttempts).
		Str("last_error", lastErr).
		Msg("ledger write permanently failed")
}
