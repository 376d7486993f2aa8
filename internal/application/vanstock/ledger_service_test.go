package vanstock

import (
	"context"
	"testing"
	"time"

	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/fieldsales/erp/internal/domain/vanstock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_GetLedger(t *testing.T) {
	ctx := context.Background()
	agentID := uuid.New()
	productID := uuid.New()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	start, end := day, day.AddDate(0, 0, 1)

	repo := new(MockStockLoadRepository)
	sales := new(MockSalesReader)
	svc := NewLedgerService(repo, sales, vanstock.NewInventoryLedger(vanstock.LoadPolicyLatest), shared.NewBusinessCalendar(time.UTC))

	morning := releasedLoad(t, agentID, productID, 40, day.Add(8*time.Hour))
	noon := releasedLoad(t, agentID, productID, 80, day.Add(12*time.Hour))
	repo.On("FindReleasedBetween", mock.Anything, agentID, start, end).Return([]vanstock.StockLoad{morning, noon}, nil)
	sales.On("SoldQuantities", mock.Anything, agentID, start, end).
		Return(map[uuid.UUID]decimal.Decimal{productID: dec(50)}, nil)

	t.Run("latest load minus sold", func(t *testing.T) {
		resp, err := svc.GetLedger(ctx, agentActor(agentID), agentID, productID, day.Add(15*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "2026-03-02", resp.Date)
		assert.True(t, resp.Loaded.Equal(dec(80)))
		assert.True(t, resp.Sold.Equal(dec(50)))
		assert.True(t, resp.Remaining.Equal(dec(30)))
	})

	t.Run("idempotent", func(t *testing.T) {
		first, err := svc.GetLedger(ctx, agentActor(agentID), agentID, productID, day)
		require.NoError(t, err)
		second, err := svc.GetLedger(ctx, agentActor(agentID), agentID, productID, day)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("day ledger", func(t *testing.T) {
		resp, err := svc.GetDayLedger(ctx, managerActor(), agentID, day)
		require.NoError(t, err)
		assert.Equal(t, "latest", resp.Policy)
		require.Len(t, resp.Entries, 1)
		assert.True(t, resp.Entries[0].Remaining.Equal(dec(30)))
	})

	t.Run("other agents are off limits", func(t *testing.T) {
		_, err := svc.GetLedger(ctx, agentActor(uuid.New()), agentID, productID, day)
		assert.ErrorIs(t, err, shared.ErrPermissionDenied)
	})
}

func TestLedgerService_Cumulative(t *testing.T) {
	agentID := uuid.New()
	productID := uuid.New()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	repo := new(MockStockLoadRepository)
	sales := new(MockSalesReader)
	svc := NewLedgerService(repo, sales, vanstock.NewInventoryLedger(vanstock.LoadPolicyCumulative), shared.NewBusinessCalendar(time.UTC))

	repo.On("FindReleasedBetween", mock.Anything, agentID, mock.Anything, mock.Anything).Return([]vanstock.StockLoad{
		releasedLoad(t, agentID, productID, 40, day.Add(8*time.Hour)),
		releasedLoad(t, agentID, productID, 80, day.Add(12*time.Hour)),
	}, nil)
	sales.On("SoldQuantities", mock.Anything, agentID, mock.Anything, mock.Anything).
		Return(map[uuid.UUID]decimal.Decimal{}, nil)

	entries, err := svc.DayPositions(context.Background(), agentID, day)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Loaded.Equal(dec(120)))
}

func TestLedgerService_GetCarryOver(t *testing.T) {
	ctx := context.Background()
	agentID := uuid.New()
	productID := uuid.New()
	now := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)

	t.Run("oversold day carries a negative position", func(t *testing.T) {
		repo := new(MockStockLoadRepository)
		sales := new(MockSalesReader)
		svc := NewLedgerService(repo, sales, vanstock.NewInventoryLedger(""), shared.NewBusinessCalendar(time.UTC))
		svc.now = func() time.Time { return now }

		releasedAt := time.Date(2026, 3, 3, 7, 30, 0, 0, time.UTC)
		load := releasedLoad(t, agentID, productID, 10, releasedAt)
		repo.On("FindLatestReleased", mock.Anything, agentID, now).Return(&load, nil)
		repo.On("FindReleasedBetween", mock.Anything, agentID, mock.Anything, mock.Anything).Return([]vanstock.StockLoad{load}, nil)
		sales.On("SoldQuantities", mock.Anything, agentID, mock.Anything, mock.Anything).
			Return(map[uuid.UUID]decimal.Decimal{productID: dec(12)}, nil)

		resp, err := svc.GetCarryOver(ctx, agentActor(agentID), agentID, productID)
		require.NoError(t, err)
		require.NotNil(t, resp.SourceDate)
		assert.Equal(t, "2026-03-03", *resp.SourceDate)
		assert.True(t, resp.Quantity.Equal(dec(-2)))
	})

	t.Run("never loaded", func(t *testing.T) {
		repo := new(MockStockLoadRepository)
		svc := NewLedgerService(repo, new(MockSalesReader), vanstock.NewInventoryLedger(""), shared.NewBusinessCalendar(time.UTC))
		repo.On("FindLatestReleased", mock.Anything, agentID, mock.Anything).Return(nil, shared.NewNotFoundError("stock load"))

		resp, err := svc.GetCarryOver(ctx, agentActor(agentID), agentID, productID)
		require.NoError(t, err)
		assert.Nil(t, resp.SourceDate)
		assert.True(t, resp.Quantity.IsZero())
	})
}
