package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LedgerWriterConfig tunes the write adapter.
type LedgerWriterConfig struct {
	FeePerWrite int64
	Timeout     time.Duration // bound on each ledger network call
	PendingTTL  time.Duration // how long an in-flight claim survives a crashed worker
	MaxRetries  int
	BackoffBase time.Duration
	BackoffMax  time.Duration
}

// LedgerWriterDeps groups the collaborators of the ledger writer.
type LedgerWriterDeps struct {
	Client     ports.LedgerClient
	Pending    ports.PendingSet
	Hasher     ports.HashService
	TxRepo     ports.TransactionRepository
	Batches    ports.BatchRepository
	Accounts   ports.AccountRepository
	Attempts   ports.LedgerAttemptRepository
	Transactor ports.DBTransactor
	Config     LedgerWriterConfig
	Now        func() time.Time
	Logger     zerolog.Logger
}

// LedgerWriterImpl implements ports.LedgerWriter. It is the only code path
// that sets ledger_ref, and every failure is stored, never dropped.
type LedgerWriterImpl struct {
	client     ports.LedgerClient
	pending    ports.PendingSet
	hasher     ports.HashService
	txRepo     ports.TransactionRepository
	batches    ports.BatchRepository
	accounts   ports.AccountRepository
	attempts   ports.LedgerAttemptRepository
	transactor ports.DBTransactor
	cfg        LedgerWriterConfig
	now        func() time.Time
	log        zerolog.Logger
}

// NewLedgerWriter creates a new LedgerWriterImpl.
func NewLedgerWriter(d LedgerWriterDeps) *LedgerWriterImpl {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	cfg := d.Config
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.PendingTTL <= 0 {
		cfg.PendingTTL = 2 * cfg.Timeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = time.Minute
	}
	if cfg.BackoffMax < cfg.BackoffBase {
		cfg.BackoffMax = cfg.BackoffBase
	}
	return &LedgerWriterImpl{
		client:     d.Client,
		pending:    d.Pending,
		hasher:     d.Hasher,
		txRepo:     d.TxRepo,
		batches:    d.Batches,
		accounts:   d.Accounts,
		attempts:   d.Attempts,
		transactor: d.Transactor,
		cfg:        cfg,
		now:        now,
		log:        d.Logger,
	}
}

type recordFunc func(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerReceipt, error)

// Submit writes a verified credit or repay. tx is updated in place with the
// resulting ledger bookkeeping.
func (w *LedgerWriterImpl) Submit(ctx context.Context, tx *domain.Transaction) (*domain.LedgerReceipt, error) {
	if tx.Status != domain.StatusVerified || !tx.WritesIndividually() {
		return nil, fmt.Errorf("%w: transaction %s is %s/%s", domain.ErrNotEligible, tx.ID, tx.Type, tx.Status)
	}
	if tx.LedgerRef != nil {
		return &domain.LedgerReceipt{Ref: *tx.LedgerRef, Block: deref(tx.LedgerBlock), AlreadyRecorded: true}, nil
	}

	account, err := w.account(ctx, tx.AccountID)
	if err != nil {
		return nil, err
	}

	entry := domain.LedgerEntry{
		Kind:      domain.EntryKindTransaction,
		Hash:      tx.TranscriptHash,
		Address:   account.LedgerAddress,
		Amount:    tx.Amount,
		TypeCode:  tx.Type.LedgerCode(),
		SubjectID: tx.ID,
		Timestamp: tx.CreatedAt,
	}
	entry.Key = w.hasher.LedgerKey(entry.SubjectID, entry.Hash, entry.Address, entry.Amount, entry.TypeCode)

	receipt, werr := w.write(ctx, entry, account, w.client.RecordTransaction)
	if errors.Is(werr, domain.ErrWriteInFlight) {
		return nil, werr
	}
	w.logAttempt(ctx, entry, receipt, werr)

	if werr != nil {
		failure := w.failureFor(tx.LedgerAttempts, werr)
		if err := w.txRepo.RecordLedgerFailure(ctx, tx.ID, failure); err != nil {
			return nil, fmt.Errorf("record ledger failure: %w (write error: %v)", err, werr)
		}
		applyFailure(&tx.LedgerState, &tx.LedgerAttempts, &tx.LedgerNextRetryAt, &tx.LedgerLastError, failure)
		code := failure.ErrorCode
		tx.LedgerErrorCode = &code

		w.log.Warn().Err(werr).
			Str("tx_id", tx.ID.String()).
			Str("ledger_state", string(failure.State)).
			Int("attempts", failure.Attempts).
			Msg("ledger write failed")
		return nil, werr
	}

	updated, err := w.txRepo.MarkLedgerConfirmed(ctx, tx.ID, *receipt)
	if err != nil {
		return nil, fmt.Errorf("mark ledger confirmed: %w", err)
	}
	if !updated {
		w.log.Debug().Str("tx_id", tx.ID.String()).Msg("ledger reference already stored")
	}
	tx.LedgerRef = &receipt.Ref
	tx.LedgerBlock = &receipt.Block
	tx.LedgerState = domain.LedgerStateConfirmed

	w.log.Info().
		Str("tx_id", tx.ID.String()).
		Str("ledger_ref", receipt.Ref).
		Int64("block", receipt.Block).
		Bool("already_recorded", receipt.AlreadyRecorded).
		Msg("ledger write confirmed")
	return receipt, nil
}

// SubmitBatch writes a daily sale batch and stamps its member sales on success.
func (w *LedgerWriterImpl) SubmitBatch(ctx context.Context, b *domain.DailyBatch) (*domain.LedgerReceipt, error) {
	if b.SaleCount == 0 || b.Total <= 0 {
		return nil, fmt.Errorf("%w: batch %s is empty", domain.ErrNotEligible, b.ID)
	}
	if b.LedgerRef != nil {
		return &domain.LedgerReceipt{Ref: *b.LedgerRef, Block: deref(b.LedgerBlock), AlreadyRecorded: true}, nil
	}

	account, err := w.account(ctx, b.AccountID)
	if err != nil {
		return nil, err
	}

	entry := domain.LedgerEntry{
		Kind:      domain.EntryKindBatch,
		Hash:      b.BatchHash,
		Address:   account.LedgerAddress,
		Amount:    b.Total,
		TypeCode:  domain.TransactionTypeSale.LedgerCode(),
		SubjectID: b.ID,
		Timestamp: b.CreatedAt,
	}
	entry.Key = w.hasher.LedgerKey(entry.SubjectID, entry.Hash, entry.Address, entry.Amount, entry.TypeCode)

	receipt, werr := w.write(ctx, entry, account, w.client.RecordBatch)
	if errors.Is(werr, domain.ErrWriteInFlight) {
		return nil, werr
	}
	w.logAttempt(ctx, entry, receipt, werr)

	if werr != nil {
		failure := w.failureFor(b.LedgerAttempts, werr)
		if err := w.batches.RecordLedgerFailure(ctx, b.ID, failure); err != nil {
			return nil, fmt.Errorf("record batch failure: %w (write error: %v)", err, werr)
		}
		applyFailure(&b.LedgerState, &b.LedgerAttempts, &b.LedgerNextRetryAt, &b.LedgerLastError, failure)
		w.log.Warn().Err(werr).
			Str("batch_id", b.ID.String()).
			Str("business_date", b.BusinessDate).
			Str("ledger_state", string(failure.State)).
			Msg("batch ledger write failed")
		return nil, werr
	}

	if err := w.confirmBatch(ctx, b.ID, *receipt); err != nil {
		return nil, err
	}
	b.LedgerRef = &receipt.Ref
	b.LedgerBlock = &receipt.Block
	b.LedgerState = domain.LedgerStateConfirmed

	w.log.Info().
		Str("batch_id", b.ID.String()).
		Str("account_id", b.AccountID.String()).
		Str("business_date", b.BusinessDate).
		Int64("total", b.Total).
		Str("ledger_ref", receipt.Ref).
		Msg("batch ledger write confirmed")
	return receipt, nil
}

func (w *LedgerWriterImpl) confirmBatch(ctx context.Context, id uuid.UUID, receipt domain.LedgerReceipt) error {
	dbTx, err := w.transactor.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if _, err := w.batches.MarkLedgerConfirmed(ctx, dbTx, id, receipt); err != nil {
		return fmt.Errorf("mark batch confirmed: %w", err)
	}
	if _, err := w.txRepo.MarkBatchConfirmed(ctx, dbTx, id, receipt); err != nil {
		return fmt.Errorf("stamp batched sales: %w", err)
	}
	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// write claims the key, checks the fee balance and calls the ledger once,
// registering the account and retrying once if the ledger does not know it.
func (w *LedgerWriterImpl) write(ctx context.Context, entry domain.LedgerEntry, account *domain.Account, record recordFunc) (*domain.LedgerReceipt, error) {
	owned := true
	status, existing, err := w.pending.Acquire(ctx, entry.Key, w.cfg.PendingTTL)
	if err != nil {
		// Without the pending set the ledger's own duplicate check still holds.
		owned = false
		w.log.Warn().Err(err).Str("ledger_key", entry.Key).Msg("pending set unavailable")
	}
	switch status {
	case ports.PendingRecorded:
		if existing != nil {
			r := *existing
			r.AlreadyRecorded = true
			return &r, nil
		}
	case ports.PendingInFlight:
		if owned {
			return nil, domain.ErrWriteInFlight
		}
	}

	receipt, werr := w.call(ctx, entry, record)
	if errors.Is(werr, domain.ErrAccountNotRegistered) {
		receipt, werr = w.registerAndRetry(ctx, entry, account, record)
	}

	if owned {
		if werr != nil {
			if err := w.pending.Release(ctx, entry.Key); err != nil {
				w.log.Warn().Err(err).Str("ledger_key", entry.Key).Msg("pending key release failed")
			}
		} else if err := w.pending.Complete(ctx, entry.Key, *receipt); err != nil {
			w.log.Warn().Err(err).Str("ledger_key", entry.Key).Msg("pending key completion failed")
		}
	}
	return receipt, werr
}

func (w *LedgerWriterImpl) call(ctx context.Context, entry domain.LedgerEntry, record recordFunc) (*domain.LedgerReceipt, error) {
	callCtx, cancel := context.WithTimeout(ctx, w.cfg.Timeout)
	defer cancel()

	balance, err := w.client.FeeBalance(callCtx)
	if err != nil {
		return nil, asLedgerError(err)
	}
	if balance < w.cfg.FeePerWrite {
		return nil, domain.NewLedgerError(domain.ErrInsufficientFunds,
			fmt.Sprintf("fee balance %d below per-write fee %d", balance, w.cfg.FeePerWrite), nil)
	}

	receipt, err := record(callCtx, entry)
	if err != nil {
		return nil, asLedgerError(err)
	}
	if receipt == nil || receipt.Ref == "" {
		return nil, domain.NewLedgerError(domain.ErrLedgerRejected, "ledger returned no reference", nil)
	}
	return receipt, nil
}

func (w *LedgerWriterImpl) registerAndRetry(ctx context.Context, entry domain.LedgerEntry, account *domain.Account, record recordFunc) (*domain.LedgerReceipt, error) {
	regCtx, cancel := context.WithTimeout(ctx, w.cfg.Timeout)
	err := w.client.RegisterAccount(regCtx, account.LedgerAddress)
	cancel()
	if err != nil {
		return nil, asLedgerError(err)
	}
	if err := w.accounts.MarkLedgerRegistered(ctx, account.ID); err != nil {
		w.log.Warn().Err(err).Str("account_id", account.ID.String()).Msg("could not store ledger registration")
	}
	w.log.Info().Str("account_id", account.ID.String()).Str("address", account.LedgerAddress).Msg("account registered on ledger")
	return w.call(ctx, entry, record)
}

// failureFor computes the bookkeeping after a failed attempt. A fee shortfall
// needs an operator top-up, so it does not use up a retry.
func (w *LedgerWriterImpl) failureFor(attempts int, err error) ports.LedgerFailure {
	now := w.now().UTC()
	f := ports.LedgerFailure{
		LastError: err.Error(),
		ErrorCode: domain.LedgerErrorCode(err),
	}

	if errors.Is(err, domain.ErrInsufficientFunds) {
		next := now.Add(w.cfg.BackoffBase)
		f.State = domain.LedgerStateFeeBlocked
		f.Attempts = attempts
		f.NextRetryAt = &next
		return f
	}

	f.Attempts = attempts + 1
	if f.Attempts >= w.cfg.MaxRetries {
		f.State = domain.LedgerStateWriteFailed
		return f
	}
	next := now.Add(w.backoff(f.Attempts))
	f.State = domain.LedgerStateRetrying
	f.NextRetryAt = &next
	return f
}

// backoff doubles from BackoffBase per attempt, capped at BackoffMax.
func (w *LedgerWriterImpl) backoff(attempt int) time.Duration {
	d := w.cfg.BackoffBase
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= w.cfg.BackoffMax {
			return w.cfg.BackoffMax
		}
	}
	return d
}

func (w *LedgerWriterImpl) account(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := w.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account %s not found", domain.ErrNotEligible, id)
	}
	return account, nil
}

func (w *LedgerWriterImpl) logAttempt(ctx context.Context, entry domain.LedgerEntry, receipt *domain.LedgerReceipt, err error) {
	a := &domain.LedgerAttempt{
		ID:          uuid.New(),
		SubjectType: entry.Kind,
		SubjectID:   entry.SubjectID,
		LedgerKey:   entry.Key,
		AttemptedAt: w.now().UTC(),
	}
	switch {
	case err == nil && receipt.AlreadyRecorded:
		a.Outcome = domain.AttemptAlreadyRecorded
	case err == nil:
		a.Outcome = domain.AttemptConfirmed
	case errors.Is(err, domain.ErrInsufficientFunds):
		a.Outcome = domain.AttemptInsufficientFunds
	case errors.Is(err, domain.ErrLedgerRejected):
		a.Outcome = domain.AttemptRejected
	default:
		a.Outcome = domain.AttemptUnavailable
	}
	if err != nil {
		msg := err.Error()
		a.Error = &msg
	} else {
		a.LedgerRef = &receipt.Ref
	}

	if cerr := w.attempts.Create(ctx, a); cerr != nil {
		w.log.Error().Err(cerr).Str("subject_id", entry.SubjectID.String()).Msg("ledger attempt not logged")
	}
}

// asLedgerError makes sure every failure carries a ledger kind. Untyped
// errors, including deadline overruns, count as connectivity problems.
func asLedgerError(err error) error {
	var le *domain.LedgerError
	if errors.As(err, &le) {
		return err
	}
	return domain.NewLedgerError(domain.ErrLedgerUnavailable, "", err)
}

func applyFailure(state *domain.LedgerState, attempts *int, next **time.Time, last **string, f ports.LedgerFailure) {
	*state = f.State
	*attempts = f.Attempts
	*next = f.NextRetryAt
	msg := f.LastError
	*last = &msg
}

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
