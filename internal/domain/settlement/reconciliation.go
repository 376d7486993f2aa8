package settlement

import (
	"fmt"
	"strings"
	"time"

	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconciliationStatus represents the status of a day-close reconciliation
type ReconciliationStatus string

const (
	ReconciliationStatusPending   ReconciliationStatus = "pending"
	ReconciliationStatusSubmitted ReconciliationStatus = "submitted"
	ReconciliationStatusApproved  ReconciliationStatus = "approved"
	ReconciliationStatusDisputed  ReconciliationStatus = "disputed"
)

// IsValid checks if the status is a valid ReconciliationStatus
func (s ReconciliationStatus) IsValid() bool {
	switch s {
	case ReconciliationStatusPending, ReconciliationStatusSubmitted,
		ReconciliationStatusApproved, ReconciliationStatusDisputed:
		return true
	}
	return false
}

// String returns the string representation of ReconciliationStatus
func (s ReconciliationStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ReconciliationStatus) CanTransitionTo(target ReconciliationStatus) bool {
	switch s {
	case ReconciliationStatusPending:
		return target == ReconciliationStatusSubmitted
	case ReconciliationStatusSubmitted:
		return target == ReconciliationStatusApproved || target == ReconciliationStatusDisputed
	case ReconciliationStatusApproved, ReconciliationStatusDisputed:
		return false // Terminal states
	}
	return false
}

// VarianceKind classifies the cash variance of a reconciliation
type VarianceKind string

const (
	VarianceBalanced VarianceKind = "balanced"
	VarianceShort    VarianceKind = "short"
	VarianceOver     VarianceKind = "over"
)

// ReconciliationItem is the close-out of one product for the day.
// LoadedQuantity = SoldQuantity + ReturnedQuantity + RemainingQuantity.
type ReconciliationItem struct {
	ID                uuid.UUID
	ReconciliationID  uuid.UUID
	ProductID         uuid.UUID
	LoadedQuantity    decimal.Decimal
	SoldQuantity      decimal.Decimal
	ReturnedQuantity  decimal.Decimal
	RemainingQuantity decimal.Decimal
	UnitPrice         decimal.Decimal
	TotalValue        decimal.Decimal
	RequestedUnload   decimal.Decimal
	UnloadClamped     bool
}

// Balances checks the conservation law for this line
func (i *ReconciliationItem) Balances() bool {
	return i.LoadedQuantity.Equal(i.SoldQuantity.Add(i.ReturnedQuantity).Add(i.RemainingQuantity))
}

// Reconciliation is an agent's end-of-day settlement of stock and cash.
// It is the aggregate root of the settlement workflow.
type Reconciliation struct {
	shared.BaseAggregateRoot
	AgentID        uuid.UUID
	BusinessDate   time.Time
	Status         ReconciliationStatus
	TotalLoaded    decimal.Decimal
	TotalSold      decimal.Decimal
	TotalReturned  decimal.Decimal
	TotalRemaining decimal.Decimal
	CashCollected  decimal.Decimal
	ExpectedCash   decimal.Decimal
	Variance       decimal.Decimal
	SubmittedAt    *time.Time
	ApprovedAt     *time.Time
	ApprovedBy     *uuid.UUID
	DisputedAt     *time.Time
	DisputedBy     *uuid.UUID
	DisputeNotes   string
	Notes          string
	SupersedesID   *uuid.UUID
	Items          []ReconciliationItem
}

// VarianceKind returns whether the cash is short, over or balanced
func (r *Reconciliation) VarianceKind() VarianceKind {
	switch {
	case r.Variance.IsNegative():
		return VarianceShort
	case r.Variance.IsPositive():
		return VarianceOver
	default:
		return VarianceBalanced
	}
}

// GetItem returns the line for a product
func (r *Reconciliation) GetItem(productID uuid.UUID) *ReconciliationItem {
	for i := range r.Items {
		if r.Items[i].ProductID == productID {
			return &r.Items[i]
		}
	}
	return nil
}

// Submit moves a pending reconciliation to submitted
func (r *Reconciliation) Submit() error {
	if !r.Status.CanTransitionTo(ReconciliationStatusSubmitted) {
		return shared.NewInvalidStateTransitionError(fmt.Sprintf("Cannot submit reconciliation in %s status", r.Status))
	}
	now := time.Now()
	r.Status = ReconciliationStatusSubmitted
	r.SubmittedAt = &now
	r.UpdatedAt = now

	r.AddDomainEvent(NewReconciliationSubmittedEvent(r))
	return nil
}

// Approve accepts a submitted reconciliation. Approval is terminal and does
// not correct inventory.
func (r *Reconciliation) Approve(approverID uuid.UUID) error {
	if !r.Status.CanTransitionTo(ReconciliationStatusApproved) {
		return shared.NewInvalidStateTransitionError(fmt.Sprintf("Cannot approve reconciliation in %s status", r.Status))
	}
	if approverID == uuid.Nil {
		return shared.NewValidationError("Approver ID cannot be empty")
	}

	now := time.Now()
	r.Status = ReconciliationStatusApproved
	r.ApprovedAt = &now
	r.ApprovedBy = &approverID
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReconciliationApprovedEvent(r))
	return nil
}

// Dispute flags a submitted reconciliation. A disputed day is settled by
// submitting a new reconciliation that supersedes this one.
func (r *Reconciliation) Dispute(disputerID uuid.UUID, notes string) error {
	if !r.Status.CanTransitionTo(ReconciliationStatusDisputed) {
		return shared.NewInvalidStateTransitionError(fmt.Sprintf("Cannot dispute reconciliation in %s status", r.Status))
	}
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return shared.NewValidationError("Dispute notes are required")
	}
	if len(notes) > 2000 {
		return shared.NewValidationError("Dispute notes cannot exceed 2000 characters")
	}

	now := time.Now()
	r.Status = ReconciliationStatusDisputed
	r.DisputedAt = &now
	if disputerID != uuid.Nil {
		r.DisputedBy = &disputerID
	}
	r.DisputeNotes = notes
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReconciliationDisputedEvent(r))
	return nil
}

// ResolveSupersession decides whether a new reconciliation may be opened for
// an agent-day given the ones already on file. It is allowed when none exist,
// or when every existing one is disputed; in the latter case the most recent
// disputed reconciliation is returned as the one being superseded.
func ResolveSupersession(existing []Reconciliation) (*uuid.UUID, error) {
	var latest *Reconciliation
	for i := range existing {
		rec := &existing[i]
		if rec.Status != ReconciliationStatusDisputed {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists,
				fmt.Sprintf("A %s reconciliation already exists for this agent and day", rec.Status))
		}
		if latest == nil || rec.CreatedAt.After(latest.CreatedAt) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, nil
	}
	id := latest.ID
	return &id, nil
}
