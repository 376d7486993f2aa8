package vanstock

import (
	"testing"

	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qty(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func newRequestedLoad(t *testing.T, lines ...LineQuantity) *StockLoad {
	t.Helper()
	load, err := NewStockLoad(uuid.New(), lines, "morning route")
	require.NoError(t, err)
	return load
}

func TestLoadStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from   LoadStatus
		to     LoadStatus
		expect bool
	}{
		{LoadStatusRequested, LoadStatusApproved, true},
		{LoadStatusRequested, LoadStatusRejected, true},
		{LoadStatusRequested, LoadStatusReleased, false},
		{LoadStatusApproved, LoadStatusReleased, true},
		{LoadStatusApproved, LoadStatusRejected, false},
		{LoadStatusApproved, LoadStatusApproved, false},
		{LoadStatusReleased, LoadStatusApproved, false},
		{LoadStatusRejected, LoadStatusApproved, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.from.CanTransitionTo(tt.to))
		})
	}
	assert.True(t, LoadStatusReleased.IsTerminal())
	assert.False(t, LoadStatus("loaded").IsValid())
}

func TestNewStockLoad(t *testing.T) {
	productA, productB := uuid.New(), uuid.New()

	t.Run("creates requested load", func(t *testing.T) {
		load := newRequestedLoad(t,
			LineQuantity{ProductID: productA, Quantity: qty(100)},
			LineQuantity{ProductID: productB, Quantity: qty(0)},
		)
		assert.Equal(t, LoadStatusRequested, load.Status)
		assert.Len(t, load.Items, 2)
		assert.True(t, load.TotalRequested().Equal(qty(100)))
		assert.Nil(t, load.Items[0].ApprovedQuantity)
		assert.Equal(t, load.ID, load.Items[0].StockLoadID)

		events := load.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeLoadRequested, events[0].EventType())
	})

	t.Run("all zero quantities rejected", func(t *testing.T) {
		_, err := NewStockLoad(uuid.New(), []LineQuantity{
			{ProductID: productA, Quantity: qty(0)},
			{ProductID: productB, Quantity: qty(0)},
		}, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("no items rejected", func(t *testing.T) {
		_, err := NewStockLoad(uuid.New(), nil, "")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("negative quantity rejected", func(t *testing.T) {
		_, err := NewStockLoad(uuid.New(), []LineQuantity{{ProductID: productA, Quantity: qty(-1)}}, "")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("duplicate product rejected", func(t *testing.T) {
		_, err := NewStockLoad(uuid.New(), []LineQuantity{
			{ProductID: productA, Quantity: qty(1)},
			{ProductID: productA, Quantity: qty(2)},
		}, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "more than once")
	})

	t.Run("empty agent rejected", func(t *testing.T) {
		_, err := NewStockLoad(uuid.Nil, []LineQuantity{{ProductID: productA, Quantity: qty(1)}}, "")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestStockLoad_Approve(t *testing.T) {
	productA, productB := uuid.New(), uuid.New()
	approver := uuid.New()

	t.Run("unspecified items default to requested", func(t *testing.T) {
		load := newRequestedLoad(t,
			LineQuantity{ProductID: productA, Quantity: qty(100)},
			LineQuantity{ProductID: productB, Quantity: qty(40)},
		)
		err := load.Approve(approver, []LineQuantity{{ProductID: productA, Quantity: qty(80)}})
		require.NoError(t, err)

		assert.Equal(t, LoadStatusApproved, load.Status)
		assert.True(t, load.GetItem(productA).ApprovedQuantity.Equal(qty(80)))
		assert.True(t, load.GetItem(productB).ApprovedQuantity.Equal(qty(40)))
		assert.Equal(t, approver, *load.ApprovedBy)
		assert.NotNil(t, load.ApprovedAt)
		assert.Equal(t, 2, load.GetVersion())
	})

	t.Run("approved above requested", func(t *testing.T) {
		load := newRequestedLoad(t, LineQuantity{ProductID: productA, Quantity: qty(10)})
		err := load.Approve(approver, []LineQuantity{{ProductID: productA, Quantity: qty(11)}})
		assert.ErrorIs(t, err, shared.ErrQuantityExceeded)
		assert.Equal(t, LoadStatusRequested, load.Status)
	})

	t.Run("unknown product", func(t *testing.T) {
		load := newRequestedLoad(t, LineQuantity{ProductID: productA, Quantity: qty(10)})
		err := load.Approve(approver, []LineQuantity{{ProductID: uuid.New(), Quantity: qty(1)}})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("cannot approve twice", func(t *testing.T) {
		load := newRequestedLoad(t, LineQuantity{ProductID: productA, Quantity: qty(10)})
		require.NoError(t, load.Approve(approver, nil))
		err := load.Approve(approver, nil)
		assert.ErrorIs(t, err, shared.ErrInvalidStateTransition)
	})
}

func TestStockLoad_Release(t *testing.T) {
	productA, productB := uuid.New(), uuid.New()
	actor := uuid.New()

	t.Run("defaults to approved", func(t *testing.T) {
		load := newRequestedLoad(t,
			LineQuantity{ProductID: productA, Quantity: qty(100)},
			LineQuantity{ProductID: productB, Quantity: qty(30)},
		)
		require.NoError(t, load.Approve(actor, []LineQuantity{{ProductID: productA, Quantity: qty(80)}}))
		require.NoError(t, load.Release(actor, []LineQuantity{{ProductID: productB, Quantity: qty(25)}}))

		assert.Equal(t, LoadStatusReleased, load.Status)
		assert.True(t, load.GetItem(productA).ReleasedQuantity.Equal(qty(80)))
		assert.True(t, load.GetItem(productB).ReleasedQuantity.Equal(qty(25)))
		assert.True(t, load.TotalLoaded().Equal(qty(105)))
		assert.NotNil(t, load.ReleasedAt)
	})

	t.Run("released above approved", func(t *testing.T) {
		load := newRequestedLoad(t, LineQuantity{ProductID: productA, Quantity: qty(100)})
		require.NoError(t, load.Approve(actor, []LineQuantity{{ProductID: productA, Quantity: qty(80)}}))
		err := load.Release(actor, []LineQuantity{{ProductID: productA, Quantity: qty(81)}})
		assert.ErrorIs(t, err, shared.ErrQuantityExceeded)
		assert.Equal(t, LoadStatusApproved, load.Status)
	})

	t.Run("cannot release from requested", func(t *testing.T) {
		load := newRequestedLoad(t, LineQuantity{ProductID: productA, Quantity: qty(10)})
		err := load.Release(actor, nil)
		assert.ErrorIs(t, err, shared.ErrInvalidStateTransition)
	})

	t.Run("cannot replay release", func(t *testing.T) {
		load := newRequestedLoad(t, LineQuantity{ProductID: productA, Quantity: qty(10)})
		require.NoError(t, load.Approve(actor, nil))
		require.NoError(t, load.Release(actor, nil))
		assert.ErrorIs(t, load.Release(actor, nil), shared.ErrInvalidStateTransition)
	})
}

func TestStockLoad_Reject(t *testing.T) {
	productA := uuid.New()

	t.Run("rejects requested load", func(t *testing.T) {
		load := newRequestedLoad(t, LineQuantity{ProductID: productA, Quantity: qty(10)})
		require.NoError(t, load.Reject(uuid.New(), "vehicle in service"))
		assert.Equal(t, LoadStatusRejected, load.Status)
		assert.Equal(t, "vehicle in service", load.RejectionReason)
		assert.ErrorIs(t, load.Approve(uuid.New(), nil), shared.ErrInvalidStateTransition)
	})

	t.Run("reason required", func(t *testing.T) {
		load := newRequestedLoad(t, LineQuantity{ProductID: productA, Quantity: qty(10)})
		assert.ErrorIs(t, load.Reject(uuid.New(), "  "), shared.ErrValidation)
	})

	t.Run("cannot reject approved load", func(t *testing.T) {
		load := newRequestedLoad(t, LineQuantity{ProductID: productA, Quantity: qty(10)})
		require.NoError(t, load.Approve(uuid.New(), nil))
		assert.ErrorIs(t, load.Reject(uuid.New(), "late"), shared.ErrInvalidStateTransition)
	})
}

func TestStockLoadItem_LoadedQuantity(t *testing.T) {
	approved, released := qty(80), qty(70)

	item := StockLoadItem{RequestedQuantity: qty(100)}
	assert.True(t, item.LoadedQuantity().IsZero())

	item.ApprovedQuantity = &approved
	assert.True(t, item.LoadedQuantity().Equal(qty(80)))

	item.ReleasedQuantity = &released
	assert.True(t, item.LoadedQuantity().Equal(qty(70)))
}
