package event

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldsales/erp/internal/domain/sales"
	"github.com/fieldsales/erp/internal/domain/settlement"
	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/fieldsales/erp/internal/domain/vanstock"
	infraevent "github.com/fieldsales/erp/internal/infrastructure/event"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedMetrics struct {
	transitions []string
	released    decimal.Decimal
	variance    decimal.Decimal
	clamped     int
	invoiced    decimal.Decimal
	visits      map[string]bool
}

func newRecordedMetrics() *recordedMetrics {
	return &recordedMetrics{visits: map[string]bool{}}
}

func (m *recordedMetrics) LoadTransition(_ context.Context, status string) {
	m.transitions = append(m.transitions, "load:"+status)
}

func (m *recordedMetrics) UnitsReleased(_ context.Context, qty decimal.Decimal) {
	m.released = m.released.Add(qty)
}

func (m *recordedMetrics) ReconciliationTransition(_ context.Context, status string) {
	m.transitions = append(m.transitions, "reconciliation:"+status)
}

func (m *recordedMetrics) ReconciliationSubmitted(_ context.Context, variance decimal.Decimal, clampedLines int) {
	m.variance = variance
	m.clamped += clampedLines
}

func (m *recordedMetrics) InvoiceRecorded(_ context.Context, value decimal.Decimal) {
	m.invoiced = m.invoiced.Add(value)
}

func (m *recordedMetrics) VisitRecorded(_ context.Context, outcome string, successful bool) {
	m.visits[outcome] = successful
}

// MockKPIInvalidator is a mock implementation of KPIInvalidator
type MockKPIInvalidator struct {
	mock.Mock
}

func (m *MockKPIInvalidator) Invalidate(ctx context.Context, agentID uuid.UUID) error {
	return m.Called(ctx, agentID).Error(0)
}

func TestMetricsHandler(t *testing.T) {
	ctx := context.Background()
	metrics := newRecordedMetrics()
	bus := infraevent.NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewMetricsHandler(metrics))

	loadID := uuid.New()
	released := &vanstock.LoadReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(vanstock.EventTypeLoadReleased, vanstock.AggregateTypeStockLoad, loadID),
		Lines: []vanstock.LoadLineSnapshot{
			{ProductID: uuid.New(), Quantity: decimal.NewFromInt(80)},
			{ProductID: uuid.New(), Quantity: decimal.NewFromInt(15)},
		},
	}
	submitted := &settlement.ReconciliationSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(settlement.EventTypeReconciliationSubmitted, settlement.AggregateTypeReconciliation, uuid.New()),
		Variance:        decimal.NewFromInt(-20),
		ClampedLines:    1,
	}
	invoice := &sales.InvoiceRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(sales.EventTypeInvoiceRecorded, sales.AggregateTypeInvoice, uuid.New()),
		TotalAmount:     decimal.NewFromInt(2400),
	}
	visit := &sales.VisitRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(sales.EventTypeVisitRecorded, sales.AggregateTypeVisit, uuid.New()),
		Outcome:         sales.VisitOutcomeSale,
		Successful:      true,
	}

	require.NoError(t, bus.Publish(ctx, released, submitted, invoice, visit))

	assert.Equal(t, []string{"load:released", "reconciliation:submitted"}, metrics.transitions)
	assert.True(t, metrics.released.Equal(decimal.NewFromInt(95)))
	assert.True(t, metrics.variance.Equal(decimal.NewFromInt(-20)))
	assert.Equal(t, 1, metrics.clamped)
	assert.True(t, metrics.invoiced.Equal(decimal.NewFromInt(2400)))
	assert.True(t, metrics.visits["sale"])
	assert.Zero(t, bus.Failures())
}

func TestKPIInvalidationHandler(t *testing.T) {
	ctx := context.Background()
	agentID := uuid.New()

	t.Run("invoice and visit evict the agent", func(t *testing.T) {
		kpis := new(MockKPIInvalidator)
		kpis.On("Invalidate", mock.Anything, agentID).Return(nil).Twice()
		h := NewKPIInvalidationHandler(kpis, zap.NewNop())

		require.NoError(t, h.Handle(ctx, &sales.InvoiceRecordedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(sales.EventTypeInvoiceRecorded, sales.AggregateTypeInvoice, uuid.New()),
			AgentID:         agentID,
		}))
		require.NoError(t, h.Handle(ctx, &sales.VisitRecordedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(sales.EventTypeVisitRecorded, sales.AggregateTypeVisit, uuid.New()),
			AgentID:         agentID,
		}))
		kpis.AssertExpectations(t)
	})

	t.Run("other events are ignored", func(t *testing.T) {
		kpis := new(MockKPIInvalidator)
		h := NewKPIInvalidationHandler(kpis, zap.NewNop())
		require.NoError(t, h.Handle(ctx, &settlement.ReconciliationApprovedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(settlement.EventTypeReconciliationApproved, settlement.AggregateTypeReconciliation, uuid.New()),
		}))
		kpis.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})

	t.Run("cache failure is counted by the bus, not raised", func(t *testing.T) {
		kpis := new(MockKPIInvalidator)
		kpis.On("Invalidate", mock.Anything, agentID).Return(errors.New("redis down"))
		bus := infraevent.NewInMemoryEventBus(zap.NewNop())
		bus.Subscribe(NewKPIInvalidationHandler(kpis, zap.NewNop()))

		err := bus.Publish(ctx, &sales.InvoiceRecordedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(sales.EventTypeInvoiceRecorded, sales.AggregateTypeInvoice, uuid.New()),
			AgentID:         agentID,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), bus.Failures())
	})
}
