package service

import (
	"context"
	"fmt"
	"time"

	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"
	"vishwas-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AggregatorService implements ports.Aggregator. Sales never go to the
// ledger one by one; each account's verified sales for a business day are
// written as one batch entry.
type AggregatorService struct {
	txRepo     ports.TransactionRepository
	batches    ports.BatchRepository
	transactor ports.DBTransactor
	hasher     ports.HashService
	writer     ports.LedgerWriter
	cutover    time.Duration // offset from local midnight
	loc        *time.Location
	now        func() time.Time
	log        zerolog.Logger
}

// NewAggregatorService creates an aggregator for the given cutover and timezone.
func NewAggregatorService(
	txRepo ports.TransactionRepository,
	batches ports.BatchRepository,
	transactor ports.DBTransactor,
	hasher ports.HashService,
	writer ports.LedgerWriter,
	cutover time.Duration,
	loc *time.Location,
	now func() time.Time,
	log zerolog.Logger,
) *AggregatorService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &AggregatorService{
		txRepo:     txRepo,
		batches:    batches,
		transactor: transactor,
		hasher:     hasher,
		writer:     writer,
		cutover:    cutover,
		loc:        loc,
		now:        now,
		log:        log,
	}
}

// BusinessDay returns the label and [from, to) window of the business day
// that ends at the cutover on day's calendar date.
func BusinessDay(day time.Time, cutover time.Duration, loc *time.Location) (string, time.Time, time.Time) {
	local := day.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	to := midnight.Add(cutover)
	from := midnight.AddDate(0, 0, -1).Add(cutover)
	return midnight.Format(domain.BusinessDateLayout), from, to
}

// RunForDate builds and submits the batches for one business day. Running it
// again for the same day resubmits unconfirmed batches and never duplicates one.
func (s *AggregatorService) RunForDate(ctx context.Context, day time.Time) (*ports.AggregateReport, error) {
	label, from, to := BusinessDay(day, s.cutover, s.loc)
	report := &ports.AggregateReport{BusinessDate: label}

	accounts, err := s.txRepo.AccountsWithUnbatchedSales(ctx, from, to)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list accounts with sales: %w", err))
	}

	for _, accountID := range accounts {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.Accounts++

		batch, created, err := s.prepare(ctx, accountID, label, from, to)
		if err != nil {
			s.log.Error().Err(err).Str("account_id", accountID.String()).Str("business_date", label).Msg("batch preparation failed")
			report.BatchesFailed++
			continue
		}
		if batch == nil {
			continue
		}
		if created {
			report.BatchesCreated++
			report.SalesBatched += batch.SaleCount
		}

		if _, err := s.writer.SubmitBatch(ctx, batch); err != nil {
			// Stored on the batch row; reconciliation retries it.
			report.BatchesFailed++
			continue
		}
		report.BatchesConfirmed++
	}

	s.log.Info().
		Str("business_date", label).
		Int("accounts", report.Accounts).
		Int("batches_created", report.BatchesCreated).
		Int("batches_confirmed", report.BatchesConfirmed).
		Int("batches_failed", report.BatchesFailed).
		Int("sales_batched", report.SalesBatched).
		Msg("daily aggregation finished")
	return report, nil
}

// prepare returns the batch to submit for an account, creating it when the
// day has none yet. A nil batch means there is nothing to do.
func (s *AggregatorService) prepare(ctx context.Context, accountID uuid.UUID, label string, from, to time.Time) (*domain.DailyBatch, bool, error) {
	existing, err := s.batches.GetByAccountDate(ctx, accountID, label)
	if err != nil {
		return nil, false, fmt.Errorf("get batch: %w", err)
	}
	if existing != nil {
		if existing.Confirmed() {
			s.log.Warn().
				Str("account_id", accountID.String()).
				Str("business_date", label).
				Msg("sales arrived after the day's batch was confirmed; left unbatched")
			return nil, false, nil
		}
		return existing, false, nil
	}

	sales, err := s.txRepo.ListUnbatchedSales(ctx, accountID, from, to)
	if err != nil {
		return nil, false, fmt.Errorf("list sales: %w", err)
	}
	if len(sales) == 0 {
		return nil, false, nil
	}

	now := s.now().UTC()
	b := &domain.DailyBatch{
		ID:             uuid.New(),
		AccountID:      accountID,
		BusinessDate:   label,
		TransactionIDs: make([]uuid.UUID, 0, len(sales)),
		LedgerState:    domain.LedgerStateQueued,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	hashes := make([]string, 0, len(sales))
	for _, sale := range sales {
		b.Total += sale.Amount
		b.SaleCount++
		b.TransactionIDs = append(b.TransactionIDs, sale.ID)
		hashes = append(hashes, sale.TranscriptHash)
	}
	b.BatchHash = s.hasher.Batch(hashes)

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.batches.Create(ctx, dbTx, b); err != nil {
		return nil, false, fmt.Errorf("create batch: %w", err)
	}
	if err := s.txRepo.AttachBatch(ctx, dbTx, b.ID, b.TransactionIDs); err != nil {
		return nil, false, fmt.Errorf("attach sales: %w", err)
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("commit tx: %w", err)
	}
	return b, true, nil
}
