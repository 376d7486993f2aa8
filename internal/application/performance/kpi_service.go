package performance

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldsales/erp/internal/domain/identity"
	"github.com/fieldsales/erp/internal/domain/performance"
	"github.com/fieldsales/erp/internal/domain/sales"
	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/fieldsales/erp/internal/infrastructure/logger"
	"github.com/fieldsales/erp/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// MaxKPIRangeDays bounds one KPI query
const MaxKPIRangeDays = 366

// KPIService computes agent performance figures. Results are cached per
// agent and range; a nil cache disables caching.
type KPIService struct {
	activity  performance.ActivityReader
	targets   performance.TargetRepository
	schedules sales.RouteScheduleRepository
	cache     performance.KPICache
	calendar  shared.BusinessCalendar
}

// NewKPIService creates a new KPIService
func NewKPIService(
	activity performance.ActivityReader,
	targets performance.TargetRepository,
	schedules sales.RouteScheduleRepository,
	cache performance.KPICache,
	calendar shared.BusinessCalendar,
) *KPIService {
	return &KPIService{
		activity:  activity,
		targets:   targets,
		schedules: schedules,
		cache:     cache,
		calendar:  calendar,
	}
}

// GetAgentKPIs returns the agent's KPIs over [from, to]. Agents may read
// their own figures; anyone else needs kpi:read.
func (s *KPIService) GetAgentKPIs(ctx context.Context, actor identity.Actor, agentID uuid.UUID, query KPIQuery) (_ *KPIResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "kpi", "get",
		attribute.String("agent_id", agentID.String()),
		attribute.String("from", query.From),
		attribute.String("to", query.To),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if actor.ID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if !actor.IsSelfOrCan(agentID, identity.PermKPIRead) {
		return nil, shared.NewPermissionDeniedError("Missing permission " + string(identity.PermKPIRead))
	}

	from, err := s.calendar.ParseDate(query.From)
	if err != nil {
		return nil, shared.NewValidationError("from must be YYYY-MM-DD")
	}
	to, err := s.calendar.ParseDate(query.To)
	if err != nil {
		return nil, shared.NewValidationError("to must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, shared.NewValidationError("to cannot be before from")
	}
	if to.After(from.AddDate(0, 0, MaxKPIRangeDays-1)) {
		return nil, shared.NewValidationError(fmt.Sprintf("range cannot exceed %d days", MaxKPIRangeDays))
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, agentID, from, to)
		if err != nil {
			logger.L(ctx).Warn("kpi cache read failed", zap.Error(err))
		} else if ok {
			resp := ToKPIResponse(cached, true)
			return &resp, nil
		}
	}

	kpis, err := s.compute(ctx, agentID, from, to)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, kpis); err != nil {
			logger.L(ctx).Warn("kpi cache write failed", zap.Error(err))
		}
	}

	resp := ToKPIResponse(kpis, false)
	return &resp, nil
}

// Invalidate drops the agent's cached KPIs
func (s *KPIService) Invalidate(ctx context.Context, agentID uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.InvalidateAgent(ctx, agentID)
}

func (s *KPIService) compute(ctx context.Context, agentID uuid.UUID, from, to time.Time) (*performance.AgentKPIs, error) {
	start, end := s.calendar.RangeWindow(from, to)

	visits, err := s.activity.CountVisits(ctx, agentID, start, end)
	if err != nil {
		return nil, err
	}
	invoices, err := s.activity.SumInvoices(ctx, agentID, start, end)
	if err != nil {
		return nil, err
	}
	targets, err := s.targets.FindOverlapping(ctx, agentID, from, to)
	if err != nil {
		return nil, err
	}
	schedules, err := s.schedules.FindActiveByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}

	kpis := performance.Compute(agentID, from, to, performance.Activity{
		TotalVisits:      visits.Total,
		SuccessfulVisits: visits.Successful,
		PlannedVisits:    int64(sales.PlannedVisits(schedules, from, to)),
		TotalInvoices:    invoices.Count,
		TotalSalesValue:  invoices.Value,
		TargetValue:      performance.TargetForRange(targets, from, to),
	})
	return &kpis, nil
}
