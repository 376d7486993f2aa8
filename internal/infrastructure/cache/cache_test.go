package cache

import (
	"context"
	"testing"
	"time"

	"github.com/fieldsales/erp/internal/domain/performance"
	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/fieldsales/erp/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPresenceStore(t *testing.T) {
	store := NewInMemoryPresenceStore()
	ctx := context.Background()
	actorID := uuid.New()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	_, ok, err := store.Get(ctx, actorID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Touch(ctx, actorID, now, 2*time.Minute))
	p, ok, err := store.Get(ctx, actorID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, now, p.LastSeenAt)

	assert.True(t, p.IsOnline(now.Add(time.Minute)))
	assert.False(t, p.IsOnline(now.Add(3*time.Minute)), "heartbeat should lapse after the TTL")

	// the store holds no clock of its own, so a heartbeat stamped far in the
	// past is still returned for the caller to judge
	old := now.AddDate(-1, 0, 0)
	require.NoError(t, store.Touch(ctx, actorID, old, 2*time.Minute))
	p, ok, err = store.Get(ctx, actorID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, old, p.LastSeenAt)
}

func TestInMemoryKPICache(t *testing.T) {
	cache := NewInMemoryKPICache(time.Minute)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	agentID := uuid.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	kpis := &performance.AgentKPIs{AgentID: agentID, From: from, To: to, TotalVisits: 12, TotalSalesValue: decimal.NewFromInt(900)}

	require.NoError(t, cache.Set(ctx, kpis))
	got, ok, err := cache.Get(ctx, agentID, from, to)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(12), got.TotalVisits)

	_, ok, _ = cache.Get(ctx, agentID, from, to.AddDate(0, 0, -1))
	assert.False(t, ok, "different range is a different entry")

	require.NoError(t, cache.InvalidateAgent(ctx, agentID))
	_, ok, _ = cache.Get(ctx, agentID, from, to)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, kpis))
	now = now.Add(2 * time.Minute)
	_, ok, _ = cache.Get(ctx, agentID, from, to)
	assert.False(t, ok, "entry should expire")
}

func TestInMemoryLocker(t *testing.T) {
	locker := NewInMemoryLocker()
	ctx := context.Background()

	lock, err := locker.Obtain(ctx, "settle:agent:2026-03-10")
	require.NoError(t, err)

	_, err = locker.Obtain(ctx, "settle:agent:2026-03-10")
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	other, err := locker.Obtain(ctx, "settle:agent:2026-03-11")
	require.NoError(t, err)
	require.NoError(t, other.Release(ctx))

	require.NoError(t, lock.Release(ctx))
	require.NoError(t, lock.Release(ctx))

	again, err := locker.Obtain(ctx, "settle:agent:2026-03-10")
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}

func TestFactory_DisabledRedisFallsBack(t *testing.T) {
	f := NewFactory(config.RedisConfig{Enabled: false})
	require.NoError(t, f.Connect(context.Background()))
	assert.Nil(t, f.Client())

	assert.IsType(t, &InMemoryPresenceStore{}, f.PresenceStore())
	assert.IsType(t, &InMemoryKPICache{}, f.KPICache(time.Minute))
	assert.IsType(t, &InMemoryLocker{}, f.Locker(time.Second, 1))
	assert.NoError(t, f.Close())
}

func TestFactory_DisabledRedisWithoutFallback(t *testing.T) {
	f := NewFactory(config.RedisConfig{Enabled: false}, WithInMemoryFallback(false))
	assert.Error(t, f.Connect(context.Background()))
}
