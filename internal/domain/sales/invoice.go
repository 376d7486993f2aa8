package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceLine is a product sold on an invoice
type InvoiceLine struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// InvoiceItem is a persisted invoice line
type InvoiceItem struct {
	ID        uuid.UUID
	InvoiceID uuid.UUID
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Invoice records a sale an agent made to a customer. Invoices are
// consumed by the ledger and KPIs and are never edited once recorded.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string
	AgentID       uuid.UUID
	CustomerID    uuid.UUID
	VisitID       *uuid.UUID
	TotalAmount   decimal.Decimal
	Items         []InvoiceItem
}

// NewInvoice creates an invoice. The ID is a time-ordered UUIDv7 and the
// invoice number embeds it, so numbers cannot collide.
func NewInvoice(agentID, customerID uuid.UUID, lines []InvoiceLine, at time.Time) (*Invoice, error) {
	if agentID == uuid.Nil {
		return nil, shared.NewValidationError("Agent ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewValidationError("Invoice must contain at least one item")
	}
	if at.IsZero() {
		at = time.Now()
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate invoice id: %w", err)
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AgentID:           agentID,
		CustomerID:        customerID,
		TotalAmount:       decimal.Zero,
		Items:             make([]InvoiceItem, 0, len(lines)),
	}
	inv.ID = id
	inv.CreatedAt = at
	inv.UpdatedAt = at
	inv.InvoiceNumber = InvoiceNumber(id, at)

	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, shared.NewValidationError("Product ID cannot be empty")
		}
		if !line.Quantity.IsPositive() {
			return nil, shared.NewValidationError("Invoice quantity must be positive")
		}
		if line.UnitPrice.IsNegative() {
			return nil, shared.NewValidationError("Unit price cannot be negative")
		}
		total := line.Quantity.Mul(line.UnitPrice)
		inv.Items = append(inv.Items, InvoiceItem{
			ID:        uuid.New(),
			InvoiceID: id,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: total,
		})
		inv.TotalAmount = inv.TotalAmount.Add(total)
	}

	inv.AddDomainEvent(NewInvoiceRecordedEvent(inv))
	return inv, nil
}

// InvoiceNumber formats INV-YYYYMMDD-<id hex>
func InvoiceNumber(id uuid.UUID, at time.Time) string {
	hex := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	return fmt.Sprintf("INV-%s-%s", at.Format("20060102"), hex)
}

// LinkVisit attaches the invoice to the visit during which it was raised
func (i *Invoice) LinkVisit(visitID uuid.UUID) {
	i.VisitID = &visitID
}

// TotalQuantity sums quantities of all lines
func (i *Invoice) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range i.Items {
		total = total.Add(item.Quantity)
	}
	return total
}
