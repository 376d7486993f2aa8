package sales

import (
	"time"

	"github.com/fieldsales/erp/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===================== Request DTOs =====================

// InvoiceLineRequest is one product sold. UnitPrice defaults to the catalog price.
type InvoiceLineRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price" binding:"omitempty,gte=0"`
}

// RecordInvoiceRequest records a sale. AgentID defaults to the caller.
type RecordInvoiceRequest struct {
	AgentID    *uuid.UUID           `json:"agent_id"`
	CustomerID uuid.UUID            `json:"customer_id" binding:"required"`
	VisitID    *uuid.UUID           `json:"visit_id"`
	InvoicedAt *time.Time           `json:"invoiced_at"`
	Items      []InvoiceLineRequest `json:"items" binding:"required,min=1,dive"`
}

// RecordVisitRequest records a customer call. AgentID defaults to the caller.
type RecordVisitRequest struct {
	AgentID    *uuid.UUID `json:"agent_id"`
	CustomerID uuid.UUID  `json:"customer_id" binding:"required"`
	VisitDate  *time.Time `json:"visit_date"`
	Outcome    string     `json:"outcome" binding:"required,oneof=sale no_sale closed not_available follow_up"`
	InvoiceID  *uuid.UUID `json:"invoice_id"`
	Notes      string     `json:"notes" binding:"max=1000"`
}

// ===================== Response DTOs =====================

// InvoiceItemResponse is an invoice line in API responses
type InvoiceItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	AgentID       uuid.UUID             `json:"agent_id"`
	CustomerID    uuid.UUID             `json:"customer_id"`
	VisitID       *uuid.UUID            `json:"visit_id,omitempty"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	Items         []InvoiceItemResponse `json:"items"`
	CreatedAt     time.Time             `json:"created_at"`
}

// VisitResponse represents a visit in API responses
type VisitResponse struct {
	ID         uuid.UUID  `json:"id"`
	AgentID    uuid.UUID  `json:"agent_id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	VisitDate  time.Time  `json:"visit_date"`
	Outcome    string     `json:"outcome"`
	InvoiceID  *uuid.UUID `json:"invoice_id,omitempty"`
	Successful bool       `json:"successful"`
	Notes      string     `json:"notes,omitempty"`
}

// ===================== Conversion Functions =====================

// ToInvoiceResponse converts a domain Invoice to its response DTO
func ToInvoiceResponse(inv *sales.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = InvoiceItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		}
	}
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		AgentID:       inv.AgentID,
		CustomerID:    inv.CustomerID,
		VisitID:       inv.VisitID,
		TotalAmount:   inv.TotalAmount,
		Items:         items,
		CreatedAt:     inv.CreatedAt,
	}
}

// ToVisitResponse converts a domain AgentVisit to its response DTO
func ToVisitResponse(v *sales.AgentVisit) VisitResponse {
	return VisitResponse{
		ID:         v.ID,
		AgentID:    v.AgentID,
		CustomerID: v.CustomerID,
		VisitDate:  v.VisitDate,
		Outcome:    string(v.Outcome),
		InvoiceID:  v.InvoiceID,
		Successful: v.IsSuccessful(),
		Notes:      v.Notes,
	}
}
