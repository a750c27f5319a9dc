package redis

import (
	"context"
	"testing"
	"time"

	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPendingSet(t *testing.T) (*miniredis.Miniredis, *PendingSet) {
	t.Helper()
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return s, NewPendingSet(client, time.Hour)
}

// ==================== PendingSet Tests ====================

func TestPendingSet_AcquireOnce(t *testing.T) {
	_, set := setupPendingSet(t)
	ctx := context.Background()

	status, receipt, err := set.Acquire(ctx, "k1", 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, ports.PendingAcquired, status)
	assert.Nil(t, receipt)

	status, _, err = set.Acquire(ctx, "k1", 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, ports.PendingInFlight, status)
}

func TestPendingSet_CompleteReturnsReceipt(t *testing.T) {
	s, set := setupPendingSet(t)
	ctx := context.Background()

	_, _, err := set.Acquire(ctx, "k2", 30*time.Second)
	require.NoError(t, err)
	require.NoError(t, set.Complete(ctx, "k2", domain.LedgerReceipt{Ref: "0xfeed", Block: 77}))

	assert.False(t, s.Exists("ledger:inflight:k2"))

	status, receipt, err := set.Acquire(ctx, "k2", 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, ports.PendingRecorded, status)
	require.NotNil(t, receipt)
	assert.Equal(t, "0xfeed", receipt.Ref)
	assert.Equal(t, int64(77), receipt.Block)
}

func TestPendingSet_ReleaseAllowsRetry(t *testing.T) {
	_, set := setupPendingSet(t)
	ctx := context.Background()

	_, _, err := set.Acquire(ctx, "k3", 30*time.Second)
	require.NoError(t, err)
	require.NoError(t, set.Release(ctx, "k3"))

	status, _, err := set.Acquire(ctx, "k3", 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, ports.PendingAcquired, status)
}

func TestPendingSet_InflightMarkerExpires(t *testing.T) {
	s, set := setupPendingSet(t)
	ctx := context.Background()

	_, _, err := set.Acquire(ctx, "k4", 30*time.Second)
	require.NoError(t, err)

	s.FastForward(31 * time.Second)

	status, _, err := set.Acquire(ctx, "k4", 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, ports.PendingAcquired, status, "a crashed worker must not block the key forever")
}

func TestPendingSet_RedisDown(t *testing.T) {
	s, set := setupPendingSet(t)
	s.Close()

	_, _, err := set.Acquire(context.Background(), "k5", time.Second)
	assert.ErrorContains(t, err, "redis pending acquire")
}

// ==================== JobLock Tests ====================

func TestJobLock_Exclusive(t *testing.T) {
	s := miniredis.RunT(t)
	lock := NewJobLock(goredis.NewClient(&goredis.Options{Addr: s.Addr()}))
	ctx := context.Background()

	token, ok, err := lock.Acquire(ctx, "reconcile", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, token)

	_, ok, err = lock.Acquire(ctx, "reconcile", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, lock.Release(ctx, "reconcile", token))

	_, ok, err = lock.Acquire(ctx, "reconcile", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestJobLock_StaleTokenDoesNotRelease(t *testing.T) {
	s := miniredis.RunT(t)
	lock := NewJobLock(goredis.NewClient(&goredis.Options{Addr: s.Addr()}))
	ctx := context.Background()

	old, ok, err := lock.Acquire(ctx, "reconcile", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	s.FastForward(2 * time.Second)

	_, ok, err = lock.Acquire(ctx, "reconcile", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, lock.Release(ctx, "reconcile", old))
	assert.True(t, s.Exists("lock:reconcile"), "the new holder keeps its lock")
}
