package settlement

import (
	"time"

	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeReconciliation = "Reconciliation"

	EventTypeReconciliationSubmitted = "ReconciliationSubmitted"
	EventTypeReconciliationApproved  = "ReconciliationApproved"
	EventTypeReconciliationDisputed  = "ReconciliationDisputed"
)

// ReconciliationSubmittedEvent is raised when an agent closes the day
type ReconciliationSubmittedEvent struct {
	shared.BaseDomainEvent
	AgentID       uuid.UUID       `json:"agent_id"`
	BusinessDate  time.Time       `json:"business_date"`
	ExpectedCash  decimal.Decimal `json:"expected_cash"`
	CashCollected decimal.Decimal `json:"cash_collected"`
	Variance      decimal.Decimal `json:"variance"`
	SupersedesID  *uuid.UUID      `json:"supersedes_id,omitempty"`
	ClampedLines  int             `json:"clamped_lines"`
}

// NewReconciliationSubmittedEvent creates a new ReconciliationSubmittedEvent
func NewReconciliationSubmittedEvent(r *Reconciliation) *ReconciliationSubmittedEvent {
	clamped := 0
	for i := range r.Items {
		if r.Items[i].UnloadClamped {
			clamped++
		}
	}
	return &ReconciliationSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReconciliationSubmitted, AggregateTypeReconciliation, r.ID),
		AgentID:         r.AgentID,
		BusinessDate:    r.BusinessDate,
		ExpectedCash:    r.ExpectedCash,
		CashCollected:   r.CashCollected,
		Variance:        r.Variance,
		SupersedesID:    r.SupersedesID,
		ClampedLines:    clamped,
	}
}

// ReconciliationApprovedEvent is raised when finance accepts a reconciliation
type ReconciliationApprovedEvent struct {
	shared.BaseDomainEvent
	AgentID    uuid.UUID       `json:"agent_id"`
	ApprovedBy uuid.UUID       `json:"approved_by"`
	Variance   decimal.Decimal `json:"variance"`
}

// NewReconciliationApprovedEvent creates a new ReconciliationApprovedEvent
func NewReconciliationApprovedEvent(r *Reconciliation) *ReconciliationApprovedEvent {
	e := &ReconciliationApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReconciliationApproved, AggregateTypeReconciliation, r.ID),
		AgentID:         r.AgentID,
		Variance:        r.Variance,
	}
	if r.ApprovedBy != nil {
		e.ApprovedBy = *r.ApprovedBy
	}
	return e
}

// ReconciliationDisputedEvent is raised when finance disputes a reconciliation
type ReconciliationDisputedEvent struct {
	shared.BaseDomainEvent
	AgentID uuid.UUID `json:"agent_id"`
	Notes   string    `json:"notes"`
}

// NewReconciliationDisputedEvent creates a new ReconciliationDisputedEvent
func NewReconciliationDisputedEvent(r *Reconciliation) *ReconciliationDisputedEvent {
	return &ReconciliationDisputedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReconciliationDisputed, AggregateTypeReconciliation, r.ID),
		AgentID:         r.AgentID,
		Notes:           r.DisputeNotes,
	}
}
