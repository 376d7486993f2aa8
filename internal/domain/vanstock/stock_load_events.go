package vanstock

import (
	"time"

	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeStockLoad = "StockLoad"

	EventTypeLoadRequested = "LoadRequested"
	EventTypeLoadApproved  = "LoadApproved"
	EventTypeLoadReleased  = "LoadReleased"
	EventTypeLoadRejected  = "LoadRejected"
)

// LoadLineSnapshot captures a line's quantities at event time
type LoadLineSnapshot struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// LoadRequestedEvent is raised when an agent requests a load
type LoadRequestedEvent struct {
	shared.BaseDomainEvent
	AgentID uuid.UUID          `json:"agent_id"`
	Lines   []LoadLineSnapshot `json:"lines"`
}

// NewLoadRequestedEvent creates a new LoadRequestedEvent
func NewLoadRequestedEvent(l *StockLoad) *LoadRequestedEvent {
	lines := make([]LoadLineSnapshot, 0, len(l.Items))
	for _, item := range l.Items {
		lines = append(lines, LoadLineSnapshot{ProductID: item.ProductID, Quantity: item.RequestedQuantity})
	}
	return &LoadRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLoadRequested, AggregateTypeStockLoad, l.ID),
		AgentID:         l.AgentID,
		Lines:           lines,
	}
}

// LoadApprovedEvent is raised when a load is approved
type LoadApprovedEvent struct {
	shared.BaseDomainEvent
	AgentID    uuid.UUID          `json:"agent_id"`
	ApprovedBy uuid.UUID          `json:"approved_by"`
	Lines      []LoadLineSnapshot `json:"lines"`
}

// NewLoadApprovedEvent creates a new LoadApprovedEvent
func NewLoadApprovedEvent(l *StockLoad) *LoadApprovedEvent {
	lines := make([]LoadLineSnapshot, 0, len(l.Items))
	for _, item := range l.Items {
		qty := decimal.Zero
		if item.ApprovedQuantity != nil {
			qty = *item.ApprovedQuantity
		}
		lines = append(lines, LoadLineSnapshot{ProductID: item.ProductID, Quantity: qty})
	}
	e := &LoadApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLoadApproved, AggregateTypeStockLoad, l.ID),
		AgentID:         l.AgentID,
		Lines:           lines,
	}
	if l.ApprovedBy != nil {
		e.ApprovedBy = *l.ApprovedBy
	}
	return e
}

// LoadReleasedEvent is raised when stock physically leaves the warehouse
type LoadReleasedEvent struct {
	shared.BaseDomainEvent
	AgentID    uuid.UUID          `json:"agent_id"`
	ReleasedBy uuid.UUID          `json:"released_by"`
	ReleasedAt time.Time          `json:"released_at"`
	Lines      []LoadLineSnapshot `json:"lines"`
}

// NewLoadReleasedEvent creates a new LoadReleasedEvent
func NewLoadReleasedEvent(l *StockLoad) *LoadReleasedEvent {
	lines := make([]LoadLineSnapshot, 0, len(l.Items))
	for i := range l.Items {
		lines = append(lines, LoadLineSnapshot{ProductID: l.Items[i].ProductID, Quantity: l.Items[i].LoadedQuantity()})
	}
	e := &LoadReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLoadReleased, AggregateTypeStockLoad, l.ID),
		AgentID:         l.AgentID,
		Lines:           lines,
	}
	if l.ReleasedBy != nil {
		e.ReleasedBy = *l.ReleasedBy
	}
	if l.ReleasedAt != nil {
		e.ReleasedAt = *l.ReleasedAt
	}
	return e
}

// LoadRejectedEvent is raised when a load request is rejected
type LoadRejectedEvent struct {
	shared.BaseDomainEvent
	AgentID uuid.UUID `json:"agent_id"`
	Reason  string    `json:"reason"`
}

// NewLoadRejectedEvent creates a new LoadRejectedEvent
func NewLoadRejectedEvent(l *StockLoad) *LoadRejectedEvent {
	return &LoadRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLoadRejected, AggregateTypeStockLoad, l.ID),
		AgentID:         l.AgentID,
		Reason:          l.RejectionReason,
	}
}
