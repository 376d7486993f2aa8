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

type loadFixture struct {
	repo   *MockStockLoadRepository
	sales  *MockSalesReader
	events *MockEventPublisher
	svc    *LoadService
}

func newLoadFixture(now time.Time) *loadFixture {
	repo := new(MockStockLoadRepository)
	sales := new(MockSalesReader)
	events := &MockEventPublisher{}
	ledger := NewLedgerService(repo, sales, vanstock.NewInventoryLedger(vanstock.LoadPolicyLatest), shared.NewBusinessCalendar(time.UTC))
	ledger.now = func() time.Time { return now }
	return &loadFixture{
		repo:   repo,
		sales:  sales,
		events: events,
		svc:    NewLoadService(repo, ledger, events),
	}
}

func TestLoadService_Request(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	agentID := uuid.New()
	productID := uuid.New()

	t.Run("snapshots carry-over without netting it", func(t *testing.T) {
		f := newLoadFixture(now)
		yesterday := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
		prev := releasedLoad(t, agentID, productID, 80, yesterday)

		f.repo.On("FindLatestReleased", mock.Anything, agentID, now).Return(&prev, nil)
		f.repo.On("FindReleasedBetween", mock.Anything, agentID,
			time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		).Return([]vanstock.StockLoad{prev}, nil)
		f.sales.On("SoldQuantities", mock.Anything, agentID, mock.Anything, mock.Anything).
			Return(map[uuid.UUID]decimal.Decimal{productID: dec(30)}, nil)
		f.repo.On("Create", mock.Anything, mock.AnythingOfType("*vanstock.StockLoad")).Return(nil)

		resp, err := f.svc.Request(ctx, agentActor(agentID), RequestLoadRequest{
			Items: []LineRequest{{ProductID: productID, Quantity: dec(100)}},
		})
		require.NoError(t, err)

		assert.Equal(t, "requested", resp.Status)
		assert.Equal(t, agentID, resp.AgentID)
		require.Len(t, resp.Items, 1)
		assert.True(t, resp.Items[0].RequestedQuantity.Equal(dec(100)))
		assert.True(t, resp.Items[0].CarryOverQuantity.Equal(dec(50)))
		assert.Equal(t, []string{vanstock.EventTypeLoadRequested}, f.events.EventTypes())
		f.repo.AssertExpectations(t)
	})

	t.Run("first load has no carry-over", func(t *testing.T) {
		f := newLoadFixture(now)
		f.repo.On("FindLatestReleased", mock.Anything, agentID, now).Return(nil, shared.ErrNotFound)
		f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.svc.Request(ctx, agentActor(agentID), RequestLoadRequest{
			Items: []LineRequest{{ProductID: productID, Quantity: dec(10)}},
		})
		require.NoError(t, err)
		assert.True(t, resp.Items[0].CarryOverQuantity.IsZero())
	})

	t.Run("all zero quantities", func(t *testing.T) {
		f := newLoadFixture(now)
		_, err := f.svc.Request(ctx, agentActor(agentID), RequestLoadRequest{
			Items: []LineRequest{{ProductID: productID, Quantity: decimal.Zero}},
		})
		assert.ErrorIs(t, err, shared.ErrValidation)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("agent cannot request for another agent", func(t *testing.T) {
		f := newLoadFixture(now)
		other := uuid.New()
		_, err := f.svc.Request(ctx, agentActor(agentID), RequestLoadRequest{
			AgentID: &other,
			Items:   []LineRequest{{ProductID: productID, Quantity: dec(10)}},
		})
		assert.ErrorIs(t, err, shared.ErrPermissionDenied)
	})
}

func TestLoadService_Transitions(t *testing.T) {
	ctx := context.Background()
	agentID := uuid.New()
	productID := uuid.New()

	newRequested := func(t *testing.T) *vanstock.StockLoad {
		load, err := vanstock.NewStockLoad(agentID, []vanstock.LineQuantity{{ProductID: productID, Quantity: dec(100)}}, "")
		require.NoError(t, err)
		load.ClearDomainEvents()
		return load
	}

	t.Run("approve with partial quantity", func(t *testing.T) {
		f := newLoadFixture(time.Now())
		load := newRequested(t)
		f.repo.On("FindByID", mock.Anything, load.ID).Return(load, nil)
		f.repo.On("SaveTransition", mock.Anything, load, vanstock.LoadStatusRequested).Return(nil)

		resp, err := f.svc.Approve(ctx, managerActor(), load.ID, ApproveLoadRequest{
			Items: []LineRequest{{ProductID: productID, Quantity: dec(80)}},
		})
		require.NoError(t, err)
		assert.Equal(t, "approved", resp.Status)
		assert.True(t, resp.Items[0].ApprovedQuantity.Equal(dec(80)))
		assert.Equal(t, 2, resp.Version)
		assert.Equal(t, []string{vanstock.EventTypeLoadApproved}, f.events.EventTypes())
	})

	t.Run("agent cannot approve", func(t *testing.T) {
		f := newLoadFixture(time.Now())
		_, err := f.svc.Approve(ctx, agentActor(agentID), uuid.New(), ApproveLoadRequest{})
		assert.ErrorIs(t, err, shared.ErrPermissionDenied)
		f.repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("approve above requested", func(t *testing.T) {
		f := newLoadFixture(time.Now())
		load := newRequested(t)
		f.repo.On("FindByID", mock.Anything, load.ID).Return(load, nil)

		_, err := f.svc.Approve(ctx, managerActor(), load.ID, ApproveLoadRequest{
			Items: []LineRequest{{ProductID: productID, Quantity: dec(120)}},
		})
		assert.ErrorIs(t, err, shared.ErrQuantityExceeded)
		f.repo.AssertNotCalled(t, "SaveTransition", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("lost race surfaces conflict", func(t *testing.T) {
		f := newLoadFixture(time.Now())
		load := newRequested(t)
		f.repo.On("FindByID", mock.Anything, load.ID).Return(load, nil)
		f.repo.On("SaveTransition", mock.Anything, load, vanstock.LoadStatusRequested).Return(shared.ErrConcurrencyConflict)

		_, err := f.svc.Approve(ctx, managerActor(), load.ID, ApproveLoadRequest{})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Empty(t, f.events.EventTypes())
	})

	t.Run("release defaults to approved", func(t *testing.T) {
		f := newLoadFixture(time.Now())
		load := newRequested(t)
		require.NoError(t, load.Approve(uuid.New(), []vanstock.LineQuantity{{ProductID: productID, Quantity: dec(80)}}))
		load.ClearDomainEvents()
		f.repo.On("FindByID", mock.Anything, load.ID).Return(load, nil)
		f.repo.On("SaveTransition", mock.Anything, load, vanstock.LoadStatusApproved).Return(nil)

		resp, err := f.svc.Release(ctx, managerActor(), load.ID, ReleaseLoadRequest{})
		require.NoError(t, err)
		assert.Equal(t, "released", resp.Status)
		assert.True(t, resp.TotalLoaded.Equal(dec(80)))
	})

	t.Run("release cannot be replayed", func(t *testing.T) {
		f := newLoadFixture(time.Now())
		load := releasedLoad(t, agentID, productID, 80, time.Now())
		f.repo.On("FindByID", mock.Anything, load.ID).Return(&load, nil)

		_, err := f.svc.Release(ctx, managerActor(), load.ID, ReleaseLoadRequest{})
		assert.ErrorIs(t, err, shared.ErrInvalidStateTransition)
	})

	t.Run("reject requires a reason", func(t *testing.T) {
		f := newLoadFixture(time.Now())
		load := newRequested(t)
		f.repo.On("FindByID", mock.Anything, load.ID).Return(load, nil)

		_, err := f.svc.Reject(ctx, managerActor(), load.ID, RejectLoadRequest{Reason: "  "})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("reject", func(t *testing.T) {
		f := newLoadFixture(time.Now())
		load := newRequested(t)
		f.repo.On("FindByID", mock.Anything, load.ID).Return(load, nil)
		f.repo.On("SaveTransition", mock.Anything, load, vanstock.LoadStatusRequested).Return(nil)

		resp, err := f.svc.Reject(ctx, managerActor(), load.ID, RejectLoadRequest{Reason: "Warehouse short"})
		require.NoError(t, err)
		assert.Equal(t, "rejected", resp.Status)
		assert.Equal(t, "Warehouse short", resp.RejectionReason)
	})
}

func TestLoadService_Queries(t *testing.T) {
	ctx := context.Background()
	agentID := uuid.New()

	t.Run("agents only list their own loads", func(t *testing.T) {
		f := newLoadFixture(time.Now())
		f.repo.On("FindAll", mock.Anything, mock.MatchedBy(func(filter vanstock.LoadFilter) bool {
			return filter.AgentID != nil && *filter.AgentID == agentID
		})).Return([]vanstock.StockLoad{}, int64(0), nil)

		_, total, err := f.svc.List(ctx, agentActor(agentID), LoadListFilter{})
		require.NoError(t, err)
		assert.Zero(t, total)
		f.repo.AssertExpectations(t)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newLoadFixture(time.Now())
		_, _, err := f.svc.List(ctx, managerActor(), LoadListFilter{Status: "lost"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("agent cannot read another agent's load", func(t *testing.T) {
		f := newLoadFixture(time.Now())
		load := releasedLoad(t, uuid.New(), uuid.New(), 5, time.Now())
		f.repo.On("FindByID", mock.Anything, load.ID).Return(&load, nil)

		_, err := f.svc.GetByID(ctx, agentActor(agentID), load.ID)
		assert.ErrorIs(t, err, shared.ErrPermissionDenied)
	})
}
