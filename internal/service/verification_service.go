package service

import (
	"context"
	"fmt"
	"time"

	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"
	"vishwas-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// VerificationDeps groups the collaborators of the verification service.
type VerificationDeps struct {
	TxRepo         ports.TransactionRepository
	Accounts       ports.AccountRepository
	Counterparties ports.CounterpartyRepository
	Transactor     ports.DBTransactor
	Hasher         ports.HashService
	Detector       ports.FraudDetector
	History        ports.HistoryService
	Queue          ports.LedgerQueue
	Notifier       ports.ConfirmationNotifier // optional
	Now            func() time.Time           // optional, defaults to time.Now
	Logger         zerolog.Logger
}

// VerificationServiceImpl implements ports.VerificationService.
type VerificationServiceImpl struct {
	txRepo         ports.TransactionRepository
	accounts       ports.AccountRepository
	counterparties ports.CounterpartyRepository
	transactor     ports.DBTransactor
	hasher         ports.HashService
	detector       ports.FraudDetector
	history        ports.HistoryService
	queue          ports.LedgerQueue
	notifier       ports.ConfirmationNotifier
	now            func() time.Time
	log            zerolog.Logger
}

// NewVerificationService creates a new VerificationServiceImpl.
func NewVerificationService(d VerificationDeps) *VerificationServiceImpl {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &VerificationServiceImpl{
		txRepo:         d.TxRepo,
		accounts:       d.Accounts,
		counterparties: d.Counterparties,
		transactor:     d.Transactor,
		hasher:         d.Hasher,
		detector:       d.Detector,
		history:        d.History,
		queue:          d.Queue,
		notifier:       d.Notifier,
		now:            now,
		log:            d.Logger,
	}
}

// Submit hashes, scores and classifies a new transaction, then stores it and
// applies its balance effect in one database transaction. A ledger write is
// queued only after commit and only for verified credit/repay.
func (s *VerificationServiceImpl) Submit(ctx context.Context, req ports.SubmitRequest) (*ports.SubmitResult, error) {
	now := s.now().UTC()
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	txn := &domain.Transaction{
		ID:                    uuid.New(),
		AccountID:             req.AccountID,
		CounterpartyID:        req.CounterpartyID,
		Type:                  req.Type,
		Amount:                req.Amount,
		Transcript:            req.Transcript,
		Language:              req.Language,
		ProductID:             req.ProductID,
		Quantity:              qty,
		Status:                domain.StatusPending,
		CounterpartyConfirmed: req.CounterpartyConfirmed,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if reasons := domain.Validate(txn); len(reasons) > 0 {
		return nil, apperror.Validation("transaction failed validation", reasons...)
	}
	txn.TranscriptHash = s.hasher.Transcript(txn.Transcript)

	snap, err := s.history.Snapshot(ctx, txn)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("risk snapshot: %w", err))
	}
	fraud := s.detector.Evaluate(txn, snap)
	txn.ApplyFraudResult(fraud)

	decision := domain.Decide(txn, fraud)
	if err := s.apply(txn, decision, now); err != nil {
		return nil, err
	}
	if txn.CounterpartyConfirmed {
		txn.ConfirmedAt = &now
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("%s: %%w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.accounts.GetByIDForUpdate(ctx, dbTx, txn.AccountID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("%s: %%w", err))
	}
	if account == nil {
		return nil, apperror.Validation("transaction failed validation", "account does not exist")
	}
	cp, err := s.counterparties.GetByIDForUpdate(ctx, dbTx, txn.CounterpartyID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("%s: %%w", err))
	}
	if cp == nil || cp.AccountID != txn.AccountID {
		return nil, apperror.Validation("transaction failed validation", "counterparty does not belong to account")
	}

	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("%s: %%w", err))
	}
	if err := s.applyBalances(ctx, dbTx, txn, domain.BalanceDeltaFor(txn.Type, txn.Amount)); err != nil {
		return nil, err
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("%s: %%w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("account_id", txn.AccountID.String()).
		Str("type", string(txn.Type)).
		Int64("amount", txn.Amount).
		Str("status", string(txn.Status)).
		Str("risk_level", string(txn.RiskLevel)).
		Msg("transaction recorded")

	s.afterDecision(ctx, txn, decision)

	return &ports.SubmitResult{
		Transaction:     txn,
		Decision:        decision,
		Fraud:           fraud,
		LedgerSubmitted: decision.LedgerEligible,
	}, nil
}

// Confirm applies a counterparty answer. Only awaiting_confirmation
// transactions change; for any other state the call is a no-op so the
// channel can safely redeliver.
func (s *VerificationServiceImpl) Confirm(ctx context.Context, id uuid.UUID, confirmed bool) (*ports.SubmitResult, error) {
	now := s.now().UTC()

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("%s: %%w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	txn, err := s.txRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("%s: %%w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("transaction")
	}

	if txn.Status != domain.StatusAwaitingConfirmation {
		return &ports.SubmitResult{
			Transaction: txn,
			Decision: domain.Decision{
				Status:  txn.Status,
				Reasons: []string{fmt.Sprintf("no change: transaction is %s", txn.Status)},
			},
			Fraud: txn.FraudResult(),
		}, nil
	}

	var decision domain.Decision
	if confirmed {
		txn.CounterpartyConfirmed = true
		txn.ConfirmedAt = &now
		decision = domain.Decide(txn, txn.FraudResult())
	} else {
		decision = domain.Decision{
			Status:  domain.StatusRejected,
			Reasons: []string{"counterparty disputed the transaction"},
		}
	}

	if err := s.apply(txn, decision, now); err != nil {
		return nil, err
	}
	if err := s.txRepo.UpdateDecision(ctx, dbTx, txn); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("%s: %%w", err))
	}
	if decision.Status == domain.StatusRejected {
		// The original write already moved balances.
		delta := domain.BalanceDeltaFor(txn.Type, txn.Amount).Reverse()
		if err := s.applyBalances(ctx, dbTx, txn, delta); err != nil {
			return nil, err
		}
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("%s: %%w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Bool("confirmed", confirmed).
		Str("status", string(txn.Status)).
		Msg("counterparty confirmation applied")

	s.afterDecision(ctx, txn, decision)

	return &ports.SubmitResult{
		Transaction:     txn,
		Decision:        decision,
		Fraud:           txn.FraudResult(),
		LedgerSubmitted: decision.LedgerEligible,
	}, nil
}

// Get fetches a transaction by id.
func (s *VerificationServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("%s: %%w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	return txn, nil
}

func (s *VerificationServiceImpl) apply(txn *domain.Transaction, d domain.Decision, now time.Time) error {
	if !domain.CanTransition(txn.Status, d.Status) {
		return apperror.ErrInvalidTransition(string(txn.Status), string(d.Status))
	}
	txn.Status = d.Status
	txn.NeedsReview = d.NeedsReview
	txn.LedgerState = d.InitialLedgerState()
	txn.UpdatedAt = now
	return nil
}

func (s *VerificationServiceImpl) applyBalances(ctx context.Context, dbTx pgx.Tx, txn *domain.Transaction, delta domain.BalanceDelta) error {
	if err := s.accounts.ApplyBalanceDelta(ctx, dbTx, txn.AccountID, delta); err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("%s: %%w", err))
	}
	if delta.Credit != 0 {
		if err := s.counterparties.ApplyCreditDelta(ctx, dbTx, txn.CounterpartyID, delta.Credit); err != nil {
			return apperror.ErrDatabaseError(fmt.Errorf("%s: %%w", err))
		}
	}
	return nil
}

// afterDecision starts the asynchronous follow-ups. Neither can fail the request.
func (s *VerificationServiceImpl) afterDecision(ctx context.Context, txn *domain.Transaction, d domain.Decision) {
	if d.LedgerEligible && !s.queue.Enqueue(txn.ID) {
		s.log.Warn().Str("tx_id", txn.ID.String()).Msg("ledger queue full, leaving write to reconciliation")
	}
	if d.Status == domain.StatusAwaitingConfirmation && s.notifier != nil {
		if err := s.notifier.Prompt(ctx, txn); err != nil {
			s.log.Warn().Err(err).Str("tx_id", txn.ID.String()).Msg("confirmation prompt not sent")
		}
	}
}
