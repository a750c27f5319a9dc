package integration

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"vishwas-ledger/internal/adapter/storage/postgres"
	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// memDB backs every in-memory repository. Row locks are approximated by one mutex.
type memDB struct {
	mu             sync.RWMutex
	txs            map[uuid.UUID]*domain.Transaction
	accounts       map[uuid.UUID]*domain.Account
	counterparties map[uuid.UUID]*domain.Counterparty
	catalog        map[string]int64 // account_id/product_id -> unit price
	batches        map[uuid.UUID]*domain.DailyBatch
	attempts       []domain.LedgerAttempt
	prompts        []domain.PromptDelivery
}

func newMemDB() *memDB {
	return &memDB{
		txs:            make(map[uuid.UUID]*domain.Transaction),
		accounts:       make(map[uuid.UUID]*domain.Account),
		counterparties: make(map[uuid.UUID]*domain.Counterparty),
		catalog:        make(map[string]int64),
		batches:        make(map[uuid.UUID]*domain.DailyBatch),
	}
}

func catalogKey(accountID uuid.UUID, productID string) string {
	return accountID.String() + "/" + productID
}

func (db *memDB) addAccount(a *domain.Account) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.accounts[a.ID] = a
}

func (db *memDB) addCounterparty(c *domain.Counterparty) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.counterparties[c.ID] = c
}

func (db *memDB) addCatalogPrice(accountID uuid.UUID, productID string, price int64) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.catalog[catalogKey(accountID, productID)] = price
}

func (db *memDB) addTransaction(t *domain.Transaction) {
	db.mu.Lock()
	defer db.mu.Unlock()
	c := *t
	db.txs[t.ID] = &c
}

func (db *memDB) attemptsFor(subjectID uuid.UUID) []domain.LedgerAttempt {
	db.mu.RLock()
	defer db.mu.RUnlock()
	var out []domain.LedgerAttempt
	for _, a := range db.attempts {
		if a.SubjectID == subjectID {
			out = append(out, a)
		}
	}
	return out
}

// --- Transactions ---

type memTransactionRepo struct{ db *memDB }

func (r memTransactionRepo) Create(_ context.Context, _ pgx.Tx, t *domain.Transaction) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.txs[t.ID]; ok {
		return fmt.Errorf("transaction %s already exists", t.ID)
	}
	c := *t
	r.db.txs[t.ID] = &c
	return nil
}

func (r memTransactionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	t, ok := r.db.txs[id]
	if !ok {
		return nil, nil
	}
	c := *t
	return &c, nil
}

func (r memTransactionRepo) GetByIDForUpdate(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*domain.Transaction, error) {
	return r.GetByID(ctx, id)
}

func (r memTransactionRepo) UpdateDecision(_ context.Context, _ pgx.Tx, t *domain.Transaction) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.txs[t.ID]; !ok {
		return fmt.Errorf("transaction %s not found", t.ID)
	}
	c := *t
	r.db.txs[t.ID] = &c
	return nil
}

func (r memTransactionRepo) MarkLedgerConfirmed(_ context.Context, id uuid.UUID, receipt domain.LedgerReceipt) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.txs[id]
	if !ok || t.Status != domain.StatusVerified || t.LedgerRef != nil {
		return false, nil
	}
	ref, block := receipt.Ref, receipt.Block
	t.LedgerRef, t.LedgerBlock = &ref, &block
	t.LedgerState = domain.LedgerStateConfirmed
	t.LedgerNextRetryAt, t.LedgerErrorCode = nil, nil
	return true, nil
}

func (r memTransactionRepo) RecordLedgerFailure(_ context.Context, id uuid.UUID, f ports.LedgerFailure) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.txs[id]
	if !ok || t.LedgerRef != nil {
		return nil
	}
	msg, code := f.LastError, f.ErrorCode
	t.LedgerState = f.State
	t.LedgerAttempts = f.Attempts
	t.LedgerNextRetryAt = f.NextRetryAt
	t.LedgerLastError, t.LedgerErrorCode = &msg, &code
	return nil
}

func (r memTransactionRepo) ListLedgerPending(_ context.Context, q ports.LedgerPendingQuery) ([]domain.Transaction, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []domain.Transaction
	for _, t := range r.db.txs {
		if !t.AwaitingLedger() || !t.LedgerState.Retryable() || t.CreatedAt.After(q.CreatedBefore) {
			continue
		}
		if t.LedgerNextRetryAt != nil && t.LedgerNextRetryAt.After(q.Now) {
			continue
		}
		out = append(out, *t)
	}
	sortByCreated(out)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r memTransactionRepo) unbatched(t *domain.Transaction, from, to time.Time) bool {
	return t.Type == domain.TransactionTypeSale && t.Status == domain.StatusVerified && t.BatchID == nil &&
		!t.CreatedAt.Before(from) && t.CreatedAt.Before(to)
}

func (r memTransactionRepo) ListUnbatchedSales(_ context.Context, accountID uuid.UUID, from, to time.Time) ([]domain.Transaction, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []domain.Transaction
	for _, t := range r.db.txs {
		if t.AccountID == accountID && r.unbatched(t, from, to) {
			out = append(out, *t)
		}
	}
	sortByCreated(out)
	return out, nil
}

func (r memTransactionRepo) AccountsWithUnbatchedSales(_ context.Context, from, to time.Time) ([]uuid.UUID, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []uuid.UUID
	for _, t := range r.db.txs {
		if r.unbatched(t, from, to) && !slices.Contains(out, t.AccountID) {
			out = append(out, t.AccountID)
		}
	}
	return out, nil
}

func (r memTransactionRepo) AttachBatch(_ context.Context, _ pgx.Tx, batchID uuid.UUID, ids []uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, id := range ids {
		if t, ok := r.db.txs[id]; !ok || t.BatchID != nil {
			return fmt.Errorf("attach batch: sale %s already batched", id)
		}
	}
	for _, id := range ids {
		b := batchID
		r.db.txs[id].BatchID = &b
		r.db.txs[id].LedgerState = domain.LedgerStateBatched
	}
	return nil
}

func (r memTransactionRepo) MarkBatchConfirmed(_ context.Context, _ pgx.Tx, batchID uuid.UUID, receipt domain.LedgerReceipt) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, t := range r.db.txs {
		if t.BatchID == nil || *t.BatchID != batchID || t.Status != domain.StatusVerified || t.LedgerRef != nil {
			continue
		}
		ref, block := receipt.Ref, receipt.Block
		t.LedgerRef, t.LedgerBlock = &ref, &block
		t.LedgerState = domain.LedgerStateConfirmed
		n++
	}
	return n, nil
}

func (r memTransactionRepo) List(_ context.Context, p ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var matched []domain.Transaction
	for _, t := range r.db.txs {
		if p.AccountID != nil && t.AccountID != *p.AccountID {
			continue
		}
		if len(p.Statuses) > 0 && !slices.Contains(p.Statuses, t.Status) {
			continue
		}
		if len(p.LedgerStates) > 0 && !slices.Contains(p.LedgerStates, t.LedgerState) {
			continue
		}
		if p.NeedsReview != nil && t.NeedsReview != *p.NeedsReview {
			continue
		}
		if p.HasLedgerRef != nil && (t.LedgerRef != nil) != *p.HasLedgerRef {
			continue
		}
		matched = append(matched, *t)
	}
	slices.SortFunc(matched, func(a, b domain.Transaction) int { return b.CreatedAt.Compare(a.CreatedAt) })

	total := int64(len(matched))
	start := min((p.Page-1)*p.PageSize, len(matched))
	end := min(start+p.PageSize, len(matched))
	return matched[start:end], total, nil
}

func sortByCreated(txs []domain.Transaction) {
	slices.SortFunc(txs, func(a, b domain.Transaction) int { return a.CreatedAt.Compare(b.CreatedAt) })
}

// --- History ---

type memHistoryRepo struct{ db *memDB }

func (r memHistoryRepo) AccountHistory(_ context.Context, accountID uuid.UUID, asOf time.Time) (*domain.AccountHistory, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	h := &domain.AccountHistory{AccountID: accountID.String(), AsOf: asOf}
	days := map[time.Time]bool{}
	for _, t := range r.db.txs {
		if t.AccountID != accountID || t.Status != domain.StatusVerified || !t.CreatedAt.Before(asOf) {
			continue
		}
		switch t.Type {
		case domain.TransactionTypeSale:
			h.TotalSales += t.Amount
		case domain.TransactionTypeCredit:
			h.CreditExtended += t.Amount
		case domain.TransactionTypeRepay:
			h.CreditRepaid += t.Amount
		}
		h.TransactionCount++
		days[t.CreatedAt.UTC().Truncate(24*time.Hour)] = true
	}
	h.DaysActive = int64(len(days))
	return h, nil
}

func (r memHistoryRepo) CounterpartyHistory(_ context.Context, counterpartyID uuid.UUID, windowStart, asOf time.Time) (*domain.CounterpartyHistory, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	h := &domain.CounterpartyHistory{CounterpartyID: counterpartyID.String()}
	for _, t := range r.db.txs {
		if t.CounterpartyID != counterpartyID || !t.CreatedAt.Before(asOf) {
			continue
		}
		if t.Type == domain.TransactionTypeSale && t.Status == domain.StatusVerified {
			h.PriorPurchases++
		}
		if t.Type == domain.TransactionTypeCredit && t.Status != domain.StatusRejected && !t.CreatedAt.Before(windowStart) {
			h.CreditTimes = append(h.CreditTimes, t.CreatedAt)
		}
	}
	slices.SortFunc(h.CreditTimes, time.Time.Compare)
	return h, nil
}

// --- Accounts, counterparties, catalog ---

type memAccountRepo struct{ db *memDB }

func (r memAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	a, ok := r.db.accounts[id]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (r memAccountRepo) GetByIDForUpdate(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*domain.Account, error) {
	return r.GetByID(ctx, id)
}

func (r memAccountRepo) ApplyBalanceDelta(_ context.Context, _ pgx.Tx, id uuid.UUID, d domain.BalanceDelta) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.accounts[id]
	if !ok {
		return fmt.Errorf("account %s not found", id)
	}
	a.TotalSales += d.Sales
	a.CreditOutstanding += d.Credit
	return nil
}

func (r memAccountRepo) MarkLedgerRegistered(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if a, ok := r.db.accounts[id]; ok {
		a.LedgerRegistered = true
	}
	return nil
}

type memCounterpartyRepo struct{ db *memDB }

func (r memCounterpartyRepo) GetByIDForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*domain.Counterparty, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.counterparties[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r memCounterpartyRepo) ApplyCreditDelta(_ context.Context, _ pgx.Tx, id uuid.UUID, delta int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.counterparties[id]
	if !ok {
		return fmt.Errorf("counterparty %s not found", id)
	}
	c.CreditOutstanding += delta
	return nil
}

type memCatalogRepo struct{ db *memDB }

func (r memCatalogRepo) GetUnitPrice(_ context.Context, accountID uuid.UUID, productID string) (*int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.catalog[catalogKey(accountID, productID)]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// --- Batches ---

type memBatchRepo struct{ db *memDB }

func (r memBatchRepo) Create(_ context.Context, _ pgx.Tx, b *domain.DailyBatch) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.batches {
		if existing.AccountID == b.AccountID && existing.BusinessDate == b.BusinessDate {
			return fmt.Errorf("%w: account %s on %s", postgres.ErrBatchExists, b.AccountID, b.BusinessDate)
		}
	}
	c := *b
	c.TransactionIDs = slices.Clone(b.TransactionIDs)
	r.db.batches[b.ID] = &c
	return nil
}

func (r memBatchRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.DailyBatch, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	b, ok := r.db.batches[id]
	if !ok {
		return nil, nil
	}
	c := *b
	return &c, nil
}

func (r memBatchRepo) GetByAccountDate(_ context.Context, accountID uuid.UUID, businessDate string) (*domain.DailyBatch, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, b := range r.db.batches {
		if b.AccountID == accountID && b.BusinessDate == businessDate {
			c := *b
			return &c, nil
		}
	}
	return nil, nil
}

func (r memBatchRepo) MarkLedgerConfirmed(_ context.Context, _ pgx.Tx, id uuid.UUID, receipt domain.LedgerReceipt) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.batches[id]
	if !ok || b.LedgerRef != nil {
		return false, nil
	}
	ref, block := receipt.Ref, receipt.Block
	b.LedgerRef, b.LedgerBlock = &ref, &block
	b.LedgerState = domain.LedgerStateConfirmed
	return true, nil
}

func (r memBatchRepo) RecordLedgerFailure(_ context.Context, id uuid.UUID, f ports.LedgerFailure) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.batches[id]
	if !ok || b.LedgerRef != nil {
		return nil
	}
	msg := f.LastError
	b.LedgerState, b.LedgerAttempts, b.LedgerNextRetryAt, b.LedgerLastError = f.State, f.Attempts, f.NextRetryAt, &msg
	return nil
}

func (r memBatchRepo) ListLedgerPending(_ context.Context, q ports.LedgerPendingQuery) ([]domain.DailyBatch, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []domain.DailyBatch
	for _, b := range r.db.batches {
		if b.LedgerRef != nil || !b.LedgerState.Retryable() || b.CreatedAt.After(q.CreatedBefore) {
			continue
		}
		if b.LedgerNextRetryAt != nil && b.LedgerNextRetryAt.After(q.Now) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

// --- Attempt and prompt logs ---

type memAttemptRepo struct{ db *memDB }

func (r memAttemptRepo) Create(_ context.Context, a *domain.LedgerAttempt) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.attempts = append(r.db.attempts, *a)
	return nil
}

func (r memAttemptRepo) ListBySubject(_ context.Context, subjectID uuid.UUID) ([]domain.LedgerAttempt, error) {
	return r.db.attemptsFor(subjectID), nil
}

type memPromptRepo struct{ db *memDB }

func (r memPromptRepo) Create(_ context.Context, d *domain.PromptDelivery) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.prompts = append(r.db.prompts, *d)
	return nil
}

// --- Transactor (no-op tx) ---

type memTransactor struct{}

func (memTransactor) Begin(context.Context) (pgx.Tx, error) {
	return noopTx{}, nil
}

// noopTx satisfies pgx.Tx; the in-memory repos ignore it.
type noopTx struct{}

func (t noopTx) Begin(context.Context) (pgx.Tx, error) { return t, nil }
func (noopTx) Commit(context.Context) error            { return nil }
func (noopTx) Rollback(context.Context) error          { return nil }
func (noopTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (noopTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (noopTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (noopTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (noopTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (noopTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (noopTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (noopTx) Conn() *pgx.Conn                                         { return nil }

var (
	_ ports.TransactionRepository   = memTransactionRepo{}
	_ ports.HistoryRepository       = memHistoryRepo{}
	_ ports.AccountRepository       = memAccountRepo{}
	_ ports.CounterpartyRepository  = memCounterpartyRepo{}
	_ ports.CatalogRepository       = memCatalogRepo{}
	_ ports.BatchRepository         = memBatchRepo{}
	_ ports.LedgerAttemptRepository = memAttemptRepo{}
	_ ports.PromptRepository        = memPromptRepo{}
	_ ports.DBTransactor            = memTransactor{}
)
