package vanstock

import (
	"context"
	"errors"
	"time"

	"github.com/fieldsales/erp/internal/domain/identity"
	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/fieldsales/erp/internal/domain/vanstock"
	"github.com/fieldsales/erp/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// LedgerService derives agent stock positions from released loads and
// invoiced sales. It keeps no state of its own.
type LedgerService struct {
	loadRepo    vanstock.StockLoadRepository
	salesReader vanstock.SalesReader
	ledger      vanstock.InventoryLedger
	calendar    shared.BusinessCalendar
	now         func() time.Time
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	loadRepo vanstock.StockLoadRepository,
	salesReader vanstock.SalesReader,
	ledger vanstock.InventoryLedger,
	calendar shared.BusinessCalendar,
) *LedgerService {
	return &LedgerService{
		loadRepo:    loadRepo,
		salesReader: salesReader,
		ledger:      ledger,
		calendar:    calendar,
		now:         time.Now,
	}
}

// Calendar returns the business calendar the ledger cuts days with
func (s *LedgerService) Calendar() shared.BusinessCalendar {
	return s.calendar
}

// GetLedger returns the agent's position in one product on the given day
func (s *LedgerService) GetLedger(ctx context.Context, actor identity.Actor, agentID, productID uuid.UUID, day time.Time) (_ *LedgerEntryResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "get",
		attribute.String("agent_id", agentID.String()),
		attribute.String("product_id", productID.String()),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := actor.RequireFor(agentID, identity.PermLedgerRead); err != nil {
		return nil, err
	}

	start, end := s.calendar.DayWindow(day)
	loads, err := s.loadRepo.FindReleasedBetween(ctx, agentID, start, end)
	if err != nil {
		return nil, err
	}
	sold, err := s.salesReader.SoldQuantities(ctx, agentID, start, end)
	if err != nil {
		return nil, err
	}

	entry := s.ledger.DeriveProduct(agentID, productID, start, loads, sold[productID])
	resp := ToLedgerEntryResponse(entry)
	return &resp, nil
}

// GetDayLedger returns one entry per product the agent loaded or sold on the day
func (s *LedgerService) GetDayLedger(ctx context.Context, actor identity.Actor, agentID uuid.UUID, day time.Time) (_ *DayLedgerResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "get_day",
		attribute.String("agent_id", agentID.String()),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := actor.RequireFor(agentID, identity.PermLedgerRead); err != nil {
		return nil, err
	}

	entries, err := s.DayPositions(ctx, agentID, day)
	if err != nil {
		return nil, err
	}

	resp := &DayLedgerResponse{
		AgentID: agentID,
		Date:    s.calendar.StartOfDay(day).Format(dateLayout),
		Policy:  string(s.ledger.Policy()),
		Entries: make([]LedgerEntryResponse, len(entries)),
	}
	for i, e := range entries {
		resp.Entries[i] = ToLedgerEntryResponse(e)
	}
	return resp, nil
}

// DayPositions derives the agent's ledger for the business day containing day.
// It performs no authorization and is meant for other services.
func (s *LedgerService) DayPositions(ctx context.Context, agentID uuid.UUID, day time.Time) ([]vanstock.LedgerEntry, error) {
	start, end := s.calendar.DayWindow(day)
	loads, err := s.loadRepo.FindReleasedBetween(ctx, agentID, start, end)
	if err != nil {
		return nil, err
	}
	sold, err := s.salesReader.SoldQuantities(ctx, agentID, start, end)
	if err != nil {
		return nil, err
	}
	return s.ledger.Derive(agentID, start, loads, sold), nil
}

// GetCarryOver returns what the agent still held at the end of its most
// recent day with a released load
func (s *LedgerService) GetCarryOver(ctx context.Context, actor identity.Actor, agentID, productID uuid.UUID) (_ *CarryOverResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "carry_over",
		attribute.String("agent_id", agentID.String()),
		attribute.String("product_id", productID.String()),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := actor.RequireFor(agentID, identity.PermLedgerRead); err != nil {
		return nil, err
	}

	carry, err := s.CarryOvers(ctx, agentID, []uuid.UUID{productID})
	if err != nil {
		return nil, err
	}
	resp := ToCarryOverResponse(carry[productID])
	return &resp, nil
}

// CarryOvers resolves the carry-over of several products at once. All of them
// share the same source day.
func (s *LedgerService) CarryOvers(ctx context.Context, agentID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]vanstock.CarryOver, error) {
	out := make(map[uuid.UUID]vanstock.CarryOver, len(productIDs))

	latest, err := s.loadRepo.FindLatestReleased(ctx, agentID, s.now())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			for _, id := range productIDs {
				out[id] = vanstock.NoCarryOver(agentID, id)
			}
			return out, nil
		}
		return nil, err
	}

	day := s.calendar.StartOfDay(*latest.ReleasedAt)
	entries, err := s.DayPositions(ctx, agentID, day)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[uuid.UUID]vanstock.LedgerEntry, len(entries))
	for _, e := range entries {
		byProduct[e.ProductID] = e
	}

	for _, id := range productIDs {
		entry, ok := byProduct[id]
		if !ok {
			entry = vanstock.LedgerEntry{AgentID: agentID, ProductID: id, Date: day}
		}
		out[id] = vanstock.NewCarryOver(entry)
	}
	return out, nil
}
