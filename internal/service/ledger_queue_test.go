package service

import (
	"context"
	"testing"
	"time"

	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestLedgerQueue_EnqueueDoesNotBlockWhenFull(t *testing.T) {
	ctrl := gomock.NewController(t)
	q := NewLedgerQueue(1, 1, mocks.NewMockTransactionRepository(ctrl), mocks.NewMockLedgerWriter(ctrl), newTestLogger())

	assert.True(t, q.Enqueue(uuid.New()))
	assert.False(t, q.Enqueue(uuid.New()))
}

func TestLedgerQueue_WorkersWriteAwaitingTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	txRepo := mocks.NewMockTransactionRepository(ctrl)
	writer := mocks.NewMockLedgerWriter(ctrl)
	q := NewLedgerQueue(4, 2, txRepo, writer, newTestLogger())

	pending := verifiedCredit(uuid.New())
	done := verifiedCredit(uuid.New())
	done.LedgerRef = strPtr("0xdone")

	written := make(chan uuid.UUID, 1)
	txRepo.EXPECT().GetByID(gomock.Any(), pending.ID).Return(pending, nil)
	txRepo.EXPECT().GetByID(gomock.Any(), done.ID).Return(done, nil)
	writer.EXPECT().Submit(gomock.Any(), pending).DoAndReturn(
		func(_ context.Context, tx *domain.Transaction) (*domain.LedgerReceipt, error) {
			written <- tx.ID
			return &domain.LedgerReceipt{Ref: "0x1"}, nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- q.Run(ctx) }()

	require.True(t, q.Enqueue(done.ID))
	require.True(t, q.Enqueue(pending.ID))

	select {
	case id := <-written:
		assert.Equal(t, pending.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("ledger write not attempted")
	}

	// let the worker handling done.ID finish before the controller checks calls
	assert.Eventually(t, func() bool { return len(q.jobs) == 0 }, time.Second, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	cancel()
	require.NoError(t, <-errCh)
}
