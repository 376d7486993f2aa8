package sales

import (
	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeInvoice = "Invoice"
	AggregateTypeVisit   = "AgentVisit"

	EventTypeInvoiceRecorded = "InvoiceRecorded"
	EventTypeVisitRecorded   = "VisitRecorded"
)

// InvoiceRecordedEvent is raised when a sale is recorded
type InvoiceRecordedEvent struct {
	shared.BaseDomainEvent
	AgentID       uuid.UUID       `json:"agent_id"`
	InvoiceNumber string          `json:"invoice_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewInvoiceRecordedEvent creates a new InvoiceRecordedEvent
func NewInvoiceRecordedEvent(inv *Invoice) *InvoiceRecordedEvent {
	return &InvoiceRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceRecorded, AggregateTypeInvoice, inv.ID),
		AgentID:         inv.AgentID,
		InvoiceNumber:   inv.InvoiceNumber,
		TotalAmount:     inv.TotalAmount,
	}
}

// VisitRecordedEvent is raised when a visit is logged
type VisitRecordedEvent struct {
	shared.BaseDomainEvent
	AgentID    uuid.UUID    `json:"agent_id"`
	Outcome    VisitOutcome `json:"outcome"`
	Successful bool         `json:"successful"`
}

// NewVisitRecordedEvent creates a new VisitRecordedEvent
func NewVisitRecordedEvent(v *AgentVisit) *VisitRecordedEvent {
	return &VisitRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVisitRecorded, AggregateTypeVisit, v.ID),
		AgentID:         v.AgentID,
		Outcome:         v.Outcome,
		Successful:      v.IsSuccessful(),
	}
}
