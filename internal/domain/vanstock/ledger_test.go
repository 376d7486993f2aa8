package vanstock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func releasedLoad(t *testing.T, agentID uuid.UUID, releasedAt time.Time, lines ...LineQuantity) StockLoad {
	t.Helper()
	load, err := NewStockLoad(agentID, lines, "")
	require.NoError(t, err)
	require.NoError(t, load.Approve(uuid.New(), nil))
	require.NoError(t, load.Release(uuid.New(), nil))
	load.ReleasedAt = &releasedAt
	return *load
}

func TestInventoryLedger_Derive(t *testing.T) {
	agentID := uuid.New()
	productA, productB, productC := uuid.New(), uuid.New(), uuid.New()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	morning := releasedLoad(t, agentID, day.Add(7*time.Hour),
		LineQuantity{ProductID: productA, Quantity: qty(80)},
		LineQuantity{ProductID: productB, Quantity: qty(20)},
	)
	noon := releasedLoad(t, agentID, day.Add(12*time.Hour),
		LineQuantity{ProductID: productA, Quantity: qty(30)},
	)
	sold := map[uuid.UUID]decimal.Decimal{productA: qty(50), productC: qty(5)}

	t.Run("latest load wins", func(t *testing.T) {
		ledger := NewInventoryLedger(LoadPolicyLatest)
		entries := ledger.Derive(agentID, day, []StockLoad{morning, noon}, sold)
		require.Len(t, entries, 2)

		byProduct := indexEntries(entries)
		assert.True(t, byProduct[productA].Loaded.Equal(qty(30)))
		assert.True(t, byProduct[productA].Remaining.Equal(qty(-20)))
		assert.NotContains(t, byProduct, productB)
		assert.True(t, byProduct[productC].Remaining.Equal(qty(-5)))
	})

	t.Run("cumulative sums loads", func(t *testing.T) {
		ledger := NewInventoryLedger(LoadPolicyCumulative)
		entries := ledger.Derive(agentID, day, []StockLoad{morning, noon}, sold)

		byProduct := indexEntries(entries)
		assert.True(t, byProduct[productA].Loaded.Equal(qty(110)))
		assert.True(t, byProduct[productA].Remaining.Equal(qty(60)))
		assert.True(t, byProduct[productB].Loaded.Equal(qty(20)))
	})

	t.Run("idempotent", func(t *testing.T) {
		ledger := NewInventoryLedger(LoadPolicyLatest)
		first := ledger.Derive(agentID, day, []StockLoad{noon, morning}, sold)
		second := ledger.Derive(agentID, day, []StockLoad{morning, noon}, sold)
		assert.Equal(t, first, second)
	})

	t.Run("loads that are not released are ignored", func(t *testing.T) {
		pending, err := NewStockLoad(agentID, []LineQuantity{{ProductID: productA, Quantity: qty(999)}}, "")
		require.NoError(t, err)

		ledger := NewInventoryLedger(LoadPolicyCumulative)
		entry := ledger.DeriveProduct(agentID, productA, day, []StockLoad{*pending}, decimal.Zero)
		assert.True(t, entry.Loaded.IsZero())
	})

	t.Run("invalid policy falls back to latest", func(t *testing.T) {
		assert.Equal(t, LoadPolicyLatest, NewInventoryLedger("sum").Policy())
	})
}

func TestInventoryLedger_DeriveProduct(t *testing.T) {
	agentID, productA := uuid.New(), uuid.New()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	load := releasedLoad(t, agentID, day.Add(8*time.Hour), LineQuantity{ProductID: productA, Quantity: qty(80)})

	entry := NewInventoryLedger(LoadPolicyLatest).DeriveProduct(agentID, productA, day, []StockLoad{load}, qty(50))

	assert.True(t, entry.Loaded.Equal(qty(80)))
	assert.True(t, entry.Sold.Equal(qty(50)))
	assert.True(t, entry.Remaining.Equal(qty(30)))
	assert.True(t, entry.Loaded.Equal(entry.Sold.Add(entry.Remaining)))

	carry := NewCarryOver(entry)
	assert.True(t, carry.Quantity.Equal(qty(30)))
	require.NotNil(t, carry.SourceDate)
	assert.Equal(t, day, *carry.SourceDate)

	none := NoCarryOver(agentID, productA)
	assert.Nil(t, none.SourceDate)
	assert.True(t, none.Quantity.IsZero())
}

func indexEntries(entries []LedgerEntry) map[uuid.UUID]LedgerEntry {
	out := make(map[uuid.UUID]LedgerEntry, len(entries))
	for _, e := range entries {
		out[e.ProductID] = e
	}
	return out
}
