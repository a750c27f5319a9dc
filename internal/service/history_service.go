package service

import (
	"context"
	"fmt"
	"time"

	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// HistorySnapshotService implements ports.HistoryService. Account aggregates
// are served from the cache when fresh; counterparty activity is always read
// from the store.
type HistorySnapshotService struct {
	history ports.HistoryRepository
	catalog ports.CatalogRepository
	cache   ports.HistoryCache
	ttl     time.Duration
	window  time.Duration
	log     zerolog.Logger
}

// NewHistorySnapshotService creates a new HistorySnapshotService. cache may be nil.
func NewHistorySnapshotService(
	history ports.HistoryRepository,
	catalog ports.CatalogRepository,
	cache ports.HistoryCache,
	ttl time.Duration,
	window time.Duration,
	log zerolog.Logger,
) *HistorySnapshotService {
	return &HistorySnapshotService{
		history: history,
		catalog: catalog,
		cache:   cache,
		ttl:     ttl,
		window:  window,
		log:     log,
	}
}

// Snapshot collects everything the fraud detector reads for tx.
func (s *HistorySnapshotService) Snapshot(ctx context.Context, tx *domain.Transaction) (domain.RiskSnapshot, error) {
	var snap domain.RiskSnapshot

	acct, err := s.accountHistory(ctx, tx)
	if err != nil {
		return snap, err
	}
	snap.Account = *acct

	cp, err := s.history.CounterpartyHistory(ctx, tx.CounterpartyID, tx.CreatedAt.Add(-s.window), tx.CreatedAt)
	if err != nil {
		return snap, fmt.Errorf("counterparty history: %w", err)
	}
	if cp != nil {
		snap.Counterparty = *cp
	}

	if tx.Type == domain.TransactionTypeSale && tx.ProductID != nil {
		price, err := s.catalog.GetUnitPrice(ctx, tx.AccountID, *tx.ProductID)
		if err != nil {
			return snap, fmt.Errorf("catalog price: %w", err)
		}
		snap.CatalogPrice = price
	}
	return snap, nil
}

func (s *HistorySnapshotService) accountHistory(ctx context.Context, tx *domain.Transaction) (*domain.AccountHistory, error) {
	key := tx.AccountID.String()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Str("account_id", key).Msg("history cache read failed, deriving from store")
		}
		if cached != nil {
			return cached, nil
		}
	}

	h, err := s.history.AccountHistory(ctx, tx.AccountID, tx.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("account history: %w", err)
	}
	if h == nil {
		h = &domain.AccountHistory{AccountID: key, AsOf: tx.CreatedAt}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, h, s.ttl); err != nil {
			s.log.Warn().Err(err).Str("account_id", key).Msg("history cache write failed")
		}
	}
	return h, nil
}
