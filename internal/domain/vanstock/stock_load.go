package vanstock

import (
	"fmt"
	"strings"
	"time"

	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoadStatus represents the status of a stock load
type LoadStatus string

const (
	LoadStatusRequested LoadStatus = "requested"
	LoadStatusApproved  LoadStatus = "approved"
	LoadStatusReleased  LoadStatus = "released"
	LoadStatusRejected  LoadStatus = "rejected"
)

// IsValid checks if the status is a valid LoadStatus
func (s LoadStatus) IsValid() bool {
	switch s {
	case LoadStatusRequested, LoadStatusApproved, LoadStatusReleased, LoadStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of LoadStatus
func (s LoadStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Status only moves forward: requested → approved → released, or requested → rejected.
func (s LoadStatus) CanTransitionTo(target LoadStatus) bool {
	switch s {
	case LoadStatusRequested:
		return target == LoadStatusApproved || target == LoadStatusRejected
	case LoadStatusApproved:
		return target == LoadStatusReleased
	case LoadStatusReleased, LoadStatusRejected:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true if no further transition is possible
func (s LoadStatus) IsTerminal() bool {
	return s == LoadStatusReleased || s == LoadStatusRejected
}

// LineQuantity is a product quantity supplied to a workflow step
type LineQuantity struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// StockLoadItem is one product line of a stock load.
// Approved and released quantities stay nil until the matching step runs.
type StockLoadItem struct {
	ID                uuid.UUID
	StockLoadID       uuid.UUID
	ProductID         uuid.UUID
	RequestedQuantity decimal.Decimal
	ApprovedQuantity  *decimal.Decimal
	ReleasedQuantity  *decimal.Decimal
	CarryOverQuantity decimal.Decimal // advisory snapshot taken at request time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// LoadedQuantity is what physically left the warehouse for this line:
// released quantity, falling back to approved quantity.
func (i *StockLoadItem) LoadedQuantity() decimal.Decimal {
	if i.ReleasedQuantity != nil {
		return *i.ReleasedQuantity
	}
	if i.ApprovedQuantity != nil {
		return *i.ApprovedQuantity
	}
	return decimal.Zero
}

// StockLoad is a request to move stock from the warehouse into an agent's vehicle.
// It is the aggregate root of the load workflow.
type StockLoad struct {
	shared.BaseAggregateRoot
	AgentID         uuid.UUID
	Status          LoadStatus
	RequestedAt     time.Time
	ApprovedAt      *time.Time
	ApprovedBy      *uuid.UUID
	ReleasedAt      *time.Time
	ReleasedBy      *uuid.UUID
	RejectedAt      *time.Time
	RejectedBy      *uuid.UUID
	RejectionReason string
	Notes           string
	Items           []StockLoadItem
}

// NewStockLoad creates a stock load in requested status.
// At least one line must carry a positive quantity.
func NewStockLoad(agentID uuid.UUID, lines []LineQuantity, notes string) (*StockLoad, error) {
	if agentID == uuid.Nil {
		return nil, shared.NewValidationError("Agent ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewValidationError("Load request must contain at least one item")
	}

	load := &StockLoad{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AgentID:           agentID,
		Status:            LoadStatusRequested,
		Notes:             strings.TrimSpace(notes),
		Items:             make([]StockLoadItem, 0, len(lines)),
	}
	load.RequestedAt = load.CreatedAt

	seen := make(map[uuid.UUID]bool, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, shared.NewValidationError("Product ID cannot be empty")
		}
		if seen[line.ProductID] {
			return nil, shared.NewValidationError(fmt.Sprintf("Product %s appears more than once", line.ProductID))
		}
		if line.Quantity.IsNegative() {
			return nil, shared.NewValidationError("Requested quantity cannot be negative")
		}
		seen[line.ProductID] = true
		total = total.Add(line.Quantity)

		load.Items = append(load.Items, StockLoadItem{
			ID:                uuid.New(),
			StockLoadID:       load.ID,
			ProductID:         line.ProductID,
			RequestedQuantity: line.Quantity,
			CarryOverQuantity: decimal.Zero,
			CreatedAt:         load.CreatedAt,
			UpdatedAt:         load.CreatedAt,
		})
	}
	if total.IsZero() {
		return nil, shared.NewValidationError("Load request must contain a non-zero quantity")
	}

	load.AddDomainEvent(NewLoadRequestedEvent(load))
	return load, nil
}

// Approve moves the load from requested to approved. Lines not mentioned
// default to approved = requested.
func (l *StockLoad) Approve(approverID uuid.UUID, lines []LineQuantity) error {
	if !l.Status.CanTransitionTo(LoadStatusApproved) {
		return shared.NewInvalidStateTransitionError(fmt.Sprintf("Cannot approve load in %s status", l.Status))
	}
	if approverID == uuid.Nil {
		return shared.NewValidationError("Approver ID cannot be empty")
	}

	overrides, err := l.indexLines(lines)
	if err != nil {
		return err
	}
	for i := range l.Items {
		item := &l.Items[i]
		qty := item.RequestedQuantity
		if q, ok := overrides[item.ProductID]; ok {
			if q.GreaterThan(item.RequestedQuantity) {
				return shared.NewQuantityExceededError(fmt.Sprintf(
					"Approved quantity %s exceeds requested %s for product %s",
					q, item.RequestedQuantity, item.ProductID))
			}
			qty = q
		}
		approved := qty
		item.ApprovedQuantity = &approved
	}

	now := time.Now()
	l.touchItems(now)
	l.Status = LoadStatusApproved
	l.ApprovedAt = &now
	l.ApprovedBy = &approverID
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewLoadApprovedEvent(l))
	return nil
}

// Release moves the load from approved to released. Lines not mentioned
// default to released = approved.
func (l *StockLoad) Release(releaserID uuid.UUID, lines []LineQuantity) error {
	if !l.Status.CanTransitionTo(LoadStatusReleased) {
		return shared.NewInvalidStateTransitionError(fmt.Sprintf("Cannot release load in %s status", l.Status))
	}
	if releaserID == uuid.Nil {
		return shared.NewValidationError("Releaser ID cannot be empty")
	}

	overrides, err := l.indexLines(lines)
	if err != nil {
		return err
	}
	for i := range l.Items {
		item := &l.Items[i]
		approved := decimal.Zero
		if item.ApprovedQuantity != nil {
			approved = *item.ApprovedQuantity
		}
		qty := approved
		if q, ok := overrides[item.ProductID]; ok {
			if q.GreaterThan(approved) {
				return shared.NewQuantityExceededError(fmt.Sprintf(
					"Released quantity %s exceeds approved %s for product %s",
					q, approved, item.ProductID))
			}
			qty = q
		}
		released := qty
		item.ReleasedQuantity = &released
	}

	now := time.Now()
	l.touchItems(now)
	l.Status = LoadStatusReleased
	l.ReleasedAt = &now
	l.ReleasedBy = &releaserID
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewLoadReleasedEvent(l))
	return nil
}

// Reject moves the load from requested to rejected. Rejection is terminal.
func (l *StockLoad) Reject(rejecterID uuid.UUID, reason string) error {
	if !l.Status.CanTransitionTo(LoadStatusRejected) {
		return shared.NewInvalidStateTransitionError(fmt.Sprintf("Cannot reject load in %s status", l.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewValidationError("Rejection reason is required")
	}
	if len(reason) > 500 {
		return shared.NewValidationError("Rejection reason cannot exceed 500 characters")
	}

	now := time.Now()
	l.Status = LoadStatusRejected
	l.RejectedAt = &now
	if rejecterID != uuid.Nil {
		l.RejectedBy = &rejecterID
	}
	l.RejectionReason = reason
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewLoadRejectedEvent(l))
	return nil
}

// SetCarryOver records the advisory carry-over for a product line.
// It never changes requested quantities.
func (l *StockLoad) SetCarryOver(productID uuid.UUID, qty decimal.Decimal) {
	for i := range l.Items {
		if l.Items[i].ProductID == productID {
			l.Items[i].CarryOverQuantity = qty
			return
		}
	}
}

// GetItem returns the line for a product
func (l *StockLoad) GetItem(productID uuid.UUID) *StockLoadItem {
	for i := range l.Items {
		if l.Items[i].ProductID == productID {
			return &l.Items[i]
		}
	}
	return nil
}

// TotalRequested sums requested quantities over all lines
func (l *StockLoad) TotalRequested() decimal.Decimal {
	total := decimal.Zero
	for _, item := range l.Items {
		total = total.Add(item.RequestedQuantity)
	}
	return total
}

// TotalLoaded sums loaded quantities over all lines
func (l *StockLoad) TotalLoaded() decimal.Decimal {
	total := decimal.Zero
	for i := range l.Items {
		total = total.Add(l.Items[i].LoadedQuantity())
	}
	return total
}

func (l *StockLoad) indexLines(lines []LineQuantity) (map[uuid.UUID]decimal.Decimal, error) {
	out := make(map[uuid.UUID]decimal.Decimal, len(lines))
	for _, line := range lines {
		if l.GetItem(line.ProductID) == nil {
			return nil, shared.NewValidationError(fmt.Sprintf("Product %s is not part of this load", line.ProductID))
		}
		if _, dup := out[line.ProductID]; dup {
			return nil, shared.NewValidationError(fmt.Sprintf("Product %s appears more than once", line.ProductID))
		}
		if line.Quantity.IsNegative() {
			return nil, shared.NewValidationError("Quantity cannot be negative")
		}
		out[line.ProductID] = line.Quantity
	}
	return out, nil
}

func (l *StockLoad) touchItems(now time.Time) {
	for i := range l.Items {
		l.Items[i].UpdatedAt = now
	}
}
