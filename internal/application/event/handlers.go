package event

import (
	"context"

	"github.com/fieldsales/erp/internal/domain/sales"
	"github.com/fieldsales/erp/internal/domain/settlement"
	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/fieldsales/erp/internal/domain/vanstock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MetricsRecorder is the subset of telemetry.FieldMetrics the handlers need
type MetricsRecorder interface {
	LoadTransition(ctx context.Context, status string)
	UnitsReleased(ctx context.Context, qty decimal.Decimal)
	ReconciliationTransition(ctx context.Context, status string)
	ReconciliationSubmitted(ctx context.Context, variance decimal.Decimal, clampedLines int)
	InvoiceRecorded(ctx context.Context, value decimal.Decimal)
	VisitRecorded(ctx context.Context, outcome string, successful bool)
}

// MetricsHandler turns domain events into business metrics
type MetricsHandler struct {
	metrics MetricsRecorder
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(metrics MetricsRecorder) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// EventTypes implements shared.EventHandler
func (h *MetricsHandler) EventTypes() []string {
	return []string{
		vanstock.EventTypeLoadRequested,
		vanstock.EventTypeLoadApproved,
		vanstock.EventTypeLoadReleased,
		vanstock.EventTypeLoadRejected,
		settlement.EventTypeReconciliationSubmitted,
		settlement.EventTypeReconciliationApproved,
		settlement.EventTypeReconciliationDisputed,
		sales.EventTypeInvoiceRecorded,
		sales.EventTypeVisitRecorded,
	}
}

// Handle implements shared.EventHandler
func (h *MetricsHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	switch e := evt.(type) {
	case *vanstock.LoadRequestedEvent:
		h.metrics.LoadTransition(ctx, string(vanstock.LoadStatusRequested))
	case *vanstock.LoadApprovedEvent:
		h.metrics.LoadTransition(ctx, string(vanstock.LoadStatusApproved))
	case *vanstock.LoadReleasedEvent:
		h.metrics.LoadTransition(ctx, string(vanstock.LoadStatusReleased))
		total := decimal.Zero
		for _, line := range e.Lines {
			total = total.Add(line.Quantity)
		}
		h.metrics.UnitsReleased(ctx, total)
	case *vanstock.LoadRejectedEvent:
		h.metrics.LoadTransition(ctx, string(vanstock.LoadStatusRejected))
	case *settlement.ReconciliationSubmittedEvent:
		h.metrics.ReconciliationTransition(ctx, string(settlement.ReconciliationStatusSubmitted))
		h.metrics.ReconciliationSubmitted(ctx, e.Variance, e.ClampedLines)
	case *settlement.ReconciliationApprovedEvent:
		h.metrics.ReconciliationTransition(ctx, string(settlement.ReconciliationStatusApproved))
	case *settlement.ReconciliationDisputedEvent:
		h.metrics.ReconciliationTransition(ctx, string(settlement.ReconciliationStatusDisputed))
	case *sales.InvoiceRecordedEvent:
		h.metrics.InvoiceRecorded(ctx, e.TotalAmount)
	case *sales.VisitRecordedEvent:
		h.metrics.VisitRecorded(ctx, string(e.Outcome), e.Successful)
	}
	return nil
}

// KPIInvalidator drops cached KPIs for an agent
type KPIInvalidator interface {
	Invalidate(ctx context.Context, agentID uuid.UUID) error
}

// KPIInvalidationHandler evicts an agent's cached KPIs whenever new sales
// activity arrives for them.
type KPIInvalidationHandler struct {
	kpis   KPIInvalidator
	logger *zap.Logger
}

// NewKPIInvalidationHandler creates a new KPIInvalidationHandler
func NewKPIInvalidationHandler(kpis KPIInvalidator, logger *zap.Logger) *KPIInvalidationHandler {
	return &KPIInvalidationHandler{kpis: kpis, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *KPIInvalidationHandler) EventTypes() []string {
	return []string{sales.EventTypeInvoiceRecorded, sales.EventTypeVisitRecorded}
}

// Handle implements shared.EventHandler
func (h *KPIInvalidationHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	var agentID uuid.UUID
	switch e := evt.(type) {
	case *sales.InvoiceRecordedEvent:
		agentID = e.AgentID
	case *sales.VisitRecordedEvent:
		agentID = e.AgentID
	default:
		return nil
	}

	if err := h.kpis.Invalidate(ctx, agentID); err != nil {
		return err
	}
	h.logger.Debug("kpi cache invalidated",
		zap.String("agent_id", agentID.String()),
		zap.String("event_type", evt.EventType()),
	)
	return nil
}

var (
	_ shared.EventHandler = (*MetricsHandler)(nil)
	_ shared.EventHandler = (*KPIInvalidationHandler)(nil)
)
