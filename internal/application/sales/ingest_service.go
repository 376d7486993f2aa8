package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldsales/erp/internal/domain/identity"
	"github.com/fieldsales/erp/internal/domain/sales"
	"github.com/fieldsales/erp/internal/domain/settlement"
	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/fieldsales/erp/internal/infrastructure/logger"
	"github.com/fieldsales/erp/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ReconciledDays reports the reconciliations filed for an agent-day
type ReconciledDays interface {
	FindByAgentDay(ctx context.Context, agentID uuid.UUID, businessDate time.Time) ([]settlement.Reconciliation, error)
}

// IngestService records the invoices and visits field agents produce.
// Both are append-only and feed the ledger and KPIs.
type IngestService struct {
	invoiceRepo sales.InvoiceRepository
	visitRepo   sales.VisitRepository
	prices      settlement.PriceList
	reconciled  ReconciledDays
	calendar    shared.BusinessCalendar
	eventBus    shared.EventPublisher
}

// NewIngestService creates a new IngestService
func NewIngestService(
	invoiceRepo sales.InvoiceRepository,
	visitRepo sales.VisitRepository,
	prices settlement.PriceList,
	reconciled ReconciledDays,
	calendar shared.BusinessCalendar,
	eventBus shared.EventPublisher,
) *IngestService {
	return &IngestService{
		invoiceRepo: invoiceRepo,
		visitRepo:   visitRepo,
		prices:      prices,
		reconciled:  reconciled,
		calendar:    calendar,
		eventBus:    eventBus,
	}
}

// RecordInvoice records a sale. Lines without a unit price are priced from
// the catalog.
func (s *IngestService) RecordInvoice(ctx context.Context, actor identity.Actor, req RecordInvoiceRequest) (_ *InvoiceResponse, err error) {
	agentID := actor.ID
	if req.AgentID != nil {
		agentID = *req.AgentID
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "sales", "record_invoice",
		attribute.String("agent_id", agentID.String()),
		attribute.Int("items", len(req.Items)),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := actor.RequireFor(agentID, identity.PermSalesRecord); err != nil {
		return nil, err
	}

	if req.VisitID != nil {
		visit, err := s.visitRepo.FindByID(ctx, *req.VisitID)
		if err != nil {
			return nil, err
		}
		if visit.AgentID != agentID {
			return nil, shared.NewValidationError("Visit belongs to another agent")
		}
	}

	lines, err := s.priceLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	at := time.Now()
	if req.InvoicedAt != nil {
		at = *req.InvoicedAt
		if err := s.ensureDayOpen(ctx, agentID, at); err != nil {
			return nil, err
		}
	}
	inv, err := sales.NewInvoice(agentID, req.CustomerID, lines, at)
	if err != nil {
		return nil, err
	}
	if req.VisitID != nil {
		inv.LinkVisit(*req.VisitID)
	}

	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	s.publish(ctx, inv.GetDomainEvents())
	inv.ClearDomainEvents()

	logger.L(ctx).Info("invoice recorded",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("agent_id", agentID.String()),
		zap.String("total_amount", inv.TotalAmount.String()),
	)

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// ensureDayOpen rejects a backdated sale into a business day that already has
// a submitted or approved reconciliation. A disputed day is open again.
func (s *IngestService) ensureDayOpen(ctx context.Context, agentID uuid.UUID, at time.Time) error {
	day := s.calendar.StartOfDay(at)
	recs, err := s.reconciled.FindByAgentDay(ctx, agentID, day)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if rec.Status != settlement.ReconciliationStatusDisputed {
			return shared.NewInvalidStateTransitionError(fmt.Sprintf(
				"Business day %s is already %s; dispute it before recording sales into it",
				day.Format("2006-01-02"), rec.Status))
		}
	}
	return nil
}

// RecordVisit records a customer call
func (s *IngestService) RecordVisit(ctx context.Context, actor identity.Actor, req RecordVisitRequest) (_ *VisitResponse, err error) {
	agentID := actor.ID
	if req.AgentID != nil {
		agentID = *req.AgentID
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "sales", "record_visit",
		attribute.String("agent_id", agentID.String()),
		attribute.String("outcome", req.Outcome),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := actor.RequireFor(agentID, identity.PermSalesRecord); err != nil {
		return nil, err
	}

	if req.InvoiceID != nil {
		inv, err := s.invoiceRepo.FindByID(ctx, *req.InvoiceID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewValidationError("Linked invoice does not exist")
			}
			return nil, err
		}
		if inv.AgentID != agentID {
			return nil, shared.NewValidationError("Invoice belongs to another agent")
		}
	}

	var visitDate time.Time
	if req.VisitDate != nil {
		visitDate = *req.VisitDate
	}
	visit, err := sales.NewAgentVisit(agentID, req.CustomerID, visitDate, sales.VisitOutcome(req.Outcome), req.InvoiceID, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.visitRepo.Create(ctx, visit); err != nil {
		return nil, err
	}
	s.publish(ctx, visit.GetDomainEvents())
	visit.ClearDomainEvents()

	response := ToVisitResponse(visit)
	return &response, nil
}

func (s *IngestService) priceLines(ctx context.Context, items []InvoiceLineRequest) ([]sales.InvoiceLine, error) {
	var missing []uuid.UUID
	for _, item := range items {
		if item.UnitPrice == nil {
			missing = append(missing, item.ProductID)
		}
	}

	var catalog map[uuid.UUID]decimal.Decimal
	if len(missing) > 0 {
		prices, err := s.prices.UnitPrices(ctx, missing)
		if err != nil {
			return nil, err
		}
		catalog = prices
	}

	lines := make([]sales.InvoiceLine, len(items))
	for i, item := range items {
		line := sales.InvoiceLine{ProductID: item.ProductID, Quantity: item.Quantity}
		if item.UnitPrice != nil {
			line.UnitPrice = *item.UnitPrice
		} else {
			price, ok := catalog[item.ProductID]
			if !ok {
				return nil, shared.NewValidationError("No catalog price for product " + item.ProductID.String())
			}
			line.UnitPrice = price
		}
		lines[i] = line
	}
	return lines, nil
}

func (s *IngestService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventBus == nil || len(events) == 0 {
		return
	}
	_ = s.eventBus.Publish(ctx, events...)
}
