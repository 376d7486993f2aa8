package vanstock

import (
	"context"

	"github.com/fieldsales/erp/internal/domain/identity"
	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/fieldsales/erp/internal/domain/vanstock"
	"github.com/fieldsales/erp/internal/infrastructure/logger"
	"github.com/fieldsales/erp/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// LoadService runs the stock load request workflow:
// requested → approved → released, or requested → rejected.
type LoadService struct {
	loadRepo vanstock.StockLoadRepository
	ledger   *LedgerService
	eventBus shared.EventPublisher
}

// NewLoadService creates a new LoadService
func NewLoadService(loadRepo vanstock.StockLoadRepository, ledger *LedgerService, eventBus shared.EventPublisher) *LoadService {
	return &LoadService{
		loadRepo: loadRepo,
		ledger:   ledger,
		eventBus: eventBus,
	}
}

// ===================== Query Methods =====================

// GetByID retrieves a load with its items
func (s *LoadService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*LoadResponse, error) {
	load, err := s.loadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.RequireFor(load.AgentID, identity.PermLoadRead); err != nil {
		return nil, err
	}

	response := ToLoadResponse(load)
	return &response, nil
}

// List retrieves a page of loads. Agents only ever see their own.
func (s *LoadService) List(ctx context.Context, actor identity.Actor, filter LoadListFilter) ([]LoadListResponse, int64, error) {
	if filter.AgentID == nil {
		if err := actor.Require(identity.PermLoadRead); err != nil {
			return nil, 0, err
		}
		if actor.SelfScoped() {
			self := actor.ID
			filter.AgentID = &self
		}
	} else if err := actor.RequireFor(*filter.AgentID, identity.PermLoadRead); err != nil {
		return nil, 0, err
	}

	domainFilter := vanstock.LoadFilter{
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
		status := vanstock.LoadStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewValidationError("Unknown load status: " + filter.Status)
		}
		domainFilter.Status = &status
	}

	loads, total, err := s.loadRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToLoadListResponses(loads), total, nil
}

// ===================== Command Methods =====================

// Request creates a load in requested status. Each line carries the agent's
// advisory carry-over, which never reduces the requested quantity.
func (s *LoadService) Request(ctx context.Context, actor identity.Actor, req RequestLoadRequest) (_ *LoadResponse, err error) {
	agentID := actor.ID
	if req.AgentID != nil {
		agentID = *req.AgentID
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "load", "request",
		attribute.String("agent_id", agentID.String()),
		attribute.Int("items", len(req.Items)),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := actor.RequireFor(agentID, identity.PermLoadRequest); err != nil {
		return nil, err
	}

	load, err := vanstock.NewStockLoad(agentID, toLines(req.Items), req.Notes)
	if err != nil {
		return nil, err
	}

	if s.ledger != nil {
		productIDs := make([]uuid.UUID, len(load.Items))
		for i := range load.Items {
			productIDs[i] = load.Items[i].ProductID
		}
		carry, err := s.ledger.CarryOvers(ctx, agentID, productIDs)
		if err != nil {
			return nil, err
		}
		for id, c := range carry {
			load.SetCarryOver(id, c.Quantity)
		}
	}

	if err := s.loadRepo.Create(ctx, load); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, load)

	logger.L(ctx).Info("load requested",
		zap.String("load_id", load.ID.String()),
		zap.String("agent_id", agentID.String()),
		zap.String("total_requested", load.TotalRequested().String()),
	)

	response := ToLoadResponse(load)
	return &response, nil
}

// Approve approves a requested load
func (s *LoadService) Approve(ctx context.Context, actor identity.Actor, id uuid.UUID, req ApproveLoadRequest) (_ *LoadResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "load", "approve", attribute.String("load_id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := actor.Require(identity.PermLoadApprove); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, func(load *vanstock.StockLoad) error {
		return load.Approve(actor.ID, toLines(req.Items))
	})
}

// Release records the stock physically leaving the warehouse
func (s *LoadService) Release(ctx context.Context, actor identity.Actor, id uuid.UUID, req ReleaseLoadRequest) (_ *LoadResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "load", "release", attribute.String("load_id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := actor.Require(identity.PermLoadRelease); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, func(load *vanstock.StockLoad) error {
		return load.Release(actor.ID, toLines(req.Items))
	})
}

// Reject rejects a requested load
func (s *LoadService) Reject(ctx context.Context, actor identity.Actor, id uuid.UUID, req RejectLoadRequest) (_ *LoadResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "load", "reject", attribute.String("load_id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := actor.Require(identity.PermLoadReject); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, func(load *vanstock.StockLoad) error {
		return load.Reject(actor.ID, req.Reason)
	})
}

// transition loads the aggregate, applies step and persists the result
// guarded by the status it was read in.
func (s *LoadService) transition(ctx context.Context, id uuid.UUID, step func(*vanstock.StockLoad) error) (*LoadResponse, error) {
	load, err := s.loadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := load.Status
	if err := step(load); err != nil {
		return nil, err
	}
	if err := s.loadRepo.SaveTransition(ctx, load, from); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, load)

	logger.L(ctx).Info("load transitioned",
		zap.String("load_id", load.ID.String()),
		zap.String("from", from.String()),
		zap.String("to", load.Status.String()),
	)

	response := ToLoadResponse(load)
	return &response, nil
}

func (s *LoadService) publishEvents(ctx context.Context, load *vanstock.StockLoad) {
	if s.eventBus == nil {
		return
	}

	for _, event := range load.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	load.ClearDomainEvents()
}
