package sales

import (
	"strings"
	"time"

	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/google/uuid"
)

// VisitOutcome is what happened at a customer visit
type VisitOutcome string

const (
	VisitOutcomeSale         VisitOutcome = "sale"
	VisitOutcomeNoSale       VisitOutcome = "no_sale"
	VisitOutcomeClosed       VisitOutcome = "closed"
	VisitOutcomeNotAvailable VisitOutcome = "not_available"
	VisitOutcomeFollowUp     VisitOutcome = "follow_up"
)

// IsValid checks if the outcome is known
func (o VisitOutcome) IsValid() bool {
	switch o {
	case VisitOutcomeSale, VisitOutcomeNoSale, VisitOutcomeClosed, VisitOutcomeNotAvailable, VisitOutcomeFollowUp:
		return true
	}
	return false
}

// AgentVisit is a recorded call on a customer
type AgentVisit struct {
	shared.BaseAggregateRoot
	AgentID    uuid.UUID
	CustomerID uuid.UUID
	VisitDate  time.Time
	Outcome    VisitOutcome
	InvoiceID  *uuid.UUID
	Notes      string
}

// NewAgentVisit records a visit
func NewAgentVisit(agentID, customerID uuid.UUID, visitDate time.Time, outcome VisitOutcome, invoiceID *uuid.UUID, notes string) (*AgentVisit, error) {
	if agentID == uuid.Nil {
		return nil, shared.NewValidationError("Agent ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID cannot be empty")
	}
	if !outcome.IsValid() {
		return nil, shared.NewValidationError("Unknown visit outcome: " + string(outcome))
	}
	if visitDate.IsZero() {
		visitDate = time.Now()
	}

	v := &AgentVisit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AgentID:           agentID,
		CustomerID:        customerID,
		VisitDate:         visitDate,
		Outcome:           outcome,
		InvoiceID:         invoiceID,
		Notes:             strings.TrimSpace(notes),
	}
	v.AddDomainEvent(NewVisitRecordedEvent(v))
	return v, nil
}

// IsSuccessful reports whether the visit converted: the agent logged a
// sale, or an invoice is linked to the visit.
func (v *AgentVisit) IsSuccessful() bool {
	return v.Outcome == VisitOutcomeSale || v.InvoiceID != nil
}
