package redis

import (
	"context"
	"testing"
	"time"

	"momo-checkout-console/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*StatsCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStatsCache(client), mr
}

func TestStatsCache_SetGetRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	snap := &domain.StatsSnapshot{
		Transactions: domain.TransactionCounts{Pending: 4, Blocked: 1, Success: 88},
		Volume:       domain.VolumeTotals{Total: 125000.5},
		Refunds:      domain.RefundTotals{Total: 2},
		Risks:        domain.RiskCounts{Alerts: 1},
		FetchedAt:    time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, cache.Set(ctx, snap, time.Minute))

	got, err := cache.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap.Transactions, got.Transactions)
	assert.Equal(t, snap.Volume, got.Volume)
	assert.True(t, snap.FetchedAt.Equal(got.FetchedAt))
}

func TestStatsCache_GetMissing(t *testing.T) {
	cache, _ := newTestCache(t)

	got, err := cache.Get(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestStatsCache_Expiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &domain.StatsSnapshot{}, time.Minute))

	mr.FastForward(2 * time.Minute)

	got, err := cache.Get(ctx)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestStatsCache_SetReplacesWholesale(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	first := &domain.StatsSnapshot{Transactions: domain.TransactionCounts{Pending: 10}}
	second := &domain.StatsSnapshot{Transactions: domain.TransactionCounts{Success: 3}}

	require.NoError(t, cache.Set(ctx, first, time.Minute))
	require.NoError(t, cache.Set(ctx, second, time.Minute))

	got, err := cache.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.EqualValues(t, 0, got.Transactions.Pending)
	assert.EqualValues(t, 3, got.Transactions.Success)
}
