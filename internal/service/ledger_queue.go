package service

import (
	"context"
	"errors"

	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// LedgerQueue runs ledger writes off the request path. Anything it drops or
// fails on is picked up by reconciliation.
type LedgerQueue struct {
	jobs    chan uuid.UUID
	workers int
	txRepo  ports.TransactionRepository
	writer  ports.LedgerWriter
	log     zerolog.Logger
}

// NewLedgerQueue creates a queue with the given buffer size and worker count.
func NewLedgerQueue(size, workers int, txRepo ports.TransactionRepository, writer ports.LedgerWriter, log zerolog.Logger) *LedgerQueue {
	if size <= 0 {
		size = 1
	}
	if workers <= 0 {
		workers = 1
	}
	return &LedgerQueue{
		jobs:    make(chan uuid.UUID, size),
		workers: workers,
		txRepo:  txRepo,
		writer:  writer,
		log:     log,
	}
}

// Enqueue never blocks. It returns false when the buffer is full.
func (q *LedgerQueue) Enqueue(id uuid.UUID) bool {
	select {
	case q.jobs <- id:
		return true
	default:
		return false
	}
}

// Run starts the workers and blocks until ctx is cancelled.
func (q *LedgerQueue) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < q.workers; i++ {
		worker := i
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case id := <-q.jobs:
					q.process(gctx, worker, id)
				}
			}
		})
	}
	return g.Wait()
}

func (q *LedgerQueue) process(ctx context.Context, worker int, id uuid.UUID) {
	tx, err := q.txRepo.GetByID(ctx, id)
	if err != nil {
		q.log.Error().Err(err).Str("tx_id", id.String()).Msg("ledger queue: load failed")
		return
	}
	if tx == nil || !tx.AwaitingLedger() {
		return
	}

	if _, err := q.writer.Submit(ctx, tx); err != nil {
		ev := q.log.Warn()
		if errors.Is(err, domain.ErrWriteInFlight) || errors.Is(err, context.Canceled) {
			ev = q.log.Debug()
		}
		ev.Err(err).Int("worker", worker).Str("tx_id", id.String()).Msg("ledger queue: write deferred to reconciliation")
	}
}
