package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldsales/erp/internal/domain/identity"
	"github.com/fieldsales/erp/internal/domain/settlement"
	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/fieldsales/erp/internal/domain/vanstock"
	"github.com/fieldsales/erp/internal/infrastructure/logger"
	"github.com/fieldsales/erp/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PositionSource supplies an agent's ledger for the business day containing day
type PositionSource interface {
	DayPositions(ctx context.Context, agentID uuid.UUID, day time.Time) ([]vanstock.LedgerEntry, error)
}

// SettlementService closes agents' business days: it compares what the
// ledger says was sold against the cash handed in.
type SettlementService struct {
	recRepo    settlement.ReconciliationRepository
	positions  PositionSource
	prices     settlement.PriceList
	locker     shared.Locker
	calculator settlement.Calculator
	calendar   shared.BusinessCalendar
	eventBus   shared.EventPublisher
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(
	recRepo settlement.ReconciliationRepository,
	positions PositionSource,
	prices settlement.PriceList,
	locker shared.Locker,
	calculator settlement.Calculator,
	calendar shared.BusinessCalendar,
	eventBus shared.EventPublisher,
) *SettlementService {
	return &SettlementService{
		recRepo:    recRepo,
		positions:  positions,
		prices:     prices,
		locker:     locker,
		calculator: calculator,
		calendar:   calendar,
		eventBus:   eventBus,
	}
}

// ===================== Query Methods =====================

// GetByID retrieves a reconciliation with its items
func (s *SettlementService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ReconciliationResponse, error) {
	rec, err := s.recRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.RequireFor(rec.AgentID, identity.PermReconciliationRead); err != nil {
		return nil, err
	}

	response := ToReconciliationResponse(rec)
	return &response, nil
}

// List retrieves a page of reconciliations. Agents only ever see their own.
func (s *SettlementService) List(ctx context.Context, actor identity.Actor, filter ReconciliationListFilter) ([]ReconciliationListResponse, int64, error) {
	if filter.AgentID == nil {
		if err := actor.Require(identity.PermReconciliationRead); err != nil {
			return nil, 0, err
		}
		if actor.SelfScoped() {
			self := actor.ID
			filter.AgentID = &self
		}
	} else if err := actor.RequireFor(*filter.AgentID, identity.PermReconciliationRead); err != nil {
		return nil, 0, err
	}

	domainFilter := settlement.ReconciliationFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		AgentID: filter.AgentID,
		From:    filter.From,
		To:      filter.To,
	}
	if filter.Status != "" {
		status := settlement.ReconciliationStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewValidationError("Unknown reconciliation status: " + filter.Status)
		}
		domainFilter.Status = &status
	}

	recs, total, err := s.recRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToReconciliationListResponses(recs), total, nil
}

// ===================== Command Methods =====================

// Submit closes the agent's business day. Submissions for the same agent-day
// are serialized; a day may only be submitted again once every earlier
// reconciliation for it has been disputed.
func (s *SettlementService) Submit(ctx context.Context, actor identity.Actor, req SubmitReconciliationRequest) (_ *ReconciliationResponse, err error) {
	agentID := actor.ID
	if req.AgentID != nil {
		agentID = *req.AgentID
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "settlement", "submit",
		attribute.String("agent_id", agentID.String()),
		attribute.String("business_date", req.BusinessDate),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := actor.RequireFor(agentID, identity.PermReconciliationSubmit); err != nil {
		return nil, err
	}
	day, err := s.calendar.ParseDate(req.BusinessDate)
	if err != nil {
		return nil, shared.NewValidationError("Business date must be YYYY-MM-DD")
	}

	lock, err := s.locker.Obtain(ctx, fmt.Sprintf("settle:%s:%s", agentID, day.Format(dateLayout)))
	if err != nil {
		return nil, err
	}
	defer func() {
		if relErr := lock.Release(context.WithoutCancel(ctx)); relErr != nil {
			logger.L(ctx).Warn("release settlement lock", zap.Error(relErr))
		}
	}()

	existing, err := s.recRepo.FindByAgentDay(ctx, agentID, day)
	if err != nil {
		return nil, err
	}
	supersedes, err := settlement.ResolveSupersession(existing)
	if err != nil {
		return nil, err
	}

	entries, err := s.positions.DayPositions(ctx, agentID, day)
	if err != nil {
		return nil, err
	}
	positions := make([]settlement.StockPosition, len(entries))
	productIDs := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		positions[i] = settlement.StockPosition{
			ProductID: e.ProductID,
			Loaded:    e.Loaded,
			Sold:      e.Sold,
			Remaining: e.Remaining,
		}
		productIDs[i] = e.ProductID
	}

	prices, err := s.prices.UnitPrices(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	unloads := make([]settlement.UnloadLine, len(req.Items))
	for i, item := range req.Items {
		unloads[i] = settlement.UnloadLine{ProductID: item.ProductID, Quantity: item.UnloadQuantity}
	}

	rec, err := s.calculator.Calculate(settlement.Submission{
		AgentID:       agentID,
		BusinessDate:  day,
		Positions:     positions,
		Unloads:       unloads,
		UnitPrices:    prices,
		CashCollected: req.CashCollected,
		Notes:         req.Notes,
		SupersedesID:  supersedes,
	})
	if err != nil {
		return nil, err
	}
	if err := rec.Submit(); err != nil {
		return nil, err
	}
	if err := s.recRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, rec)

	logger.L(ctx).Info("reconciliation submitted",
		zap.String("reconciliation_id", rec.ID.String()),
		zap.String("agent_id", agentID.String()),
		zap.String("business_date", day.Format(dateLayout)),
		zap.String("expected_cash", rec.ExpectedCash.String()),
		zap.String("variance", rec.Variance.String()),
	)

	response := ToReconciliationResponse(rec)
	return &response, nil
}

// Approve accepts a submitted reconciliation. Inventory is left untouched.
func (s *SettlementService) Approve(ctx context.Context, actor identity.Actor, id uuid.UUID) (_ *ReconciliationResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "settlement", "approve", attribute.String("reconciliation_id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := actor.Require(identity.PermReconciliationApprove); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, func(rec *settlement.Reconciliation) error {
		return rec.Approve(actor.ID)
	})
}

// Dispute flags a submitted reconciliation
func (s *SettlementService) Dispute(ctx context.Context, actor identity.Actor, id uuid.UUID, req DisputeReconciliationRequest) (_ *ReconciliationResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "settlement", "dispute", attribute.String("reconciliation_id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := actor.Require(identity.PermReconciliationDispute); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, func(rec *settlement.Reconciliation) error {
		return rec.Dispute(actor.ID, req.Notes)
	})
}

func (s *SettlementService) transition(ctx context.Context, id uuid.UUID, step func(*settlement.Reconciliation) error) (*ReconciliationResponse, error) {
	rec, err := s.recRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := rec.Status
	if err := step(rec); err != nil {
		return nil, err
	}
	if err := s.recRepo.SaveTransition(ctx, rec, from); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, rec)

	logger.L(ctx).Info("reconciliation transitioned",
		zap.String("reconciliation_id", rec.ID.String()),
		zap.String("from", from.String()),
		zap.String("to", rec.Status.String()),
	)

	response := ToReconciliationResponse(rec)
	return &response, nil
}

func (s *SettlementService) publishEvents(ctx context.Context, rec *settlement.Reconciliation) {
	if s.eventBus == nil {
		return
	}

	for _, event := range rec.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	rec.ClearDomainEvents()
}
