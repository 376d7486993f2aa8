package settlement

import (
	"time"

	"github.com/fieldsales/erp/internal/domain/settlement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===================== Request DTOs =====================

// UnloadRequest is the quantity an agent hands back for one product
type UnloadRequest struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	UnloadQuantity decimal.Decimal `json:"unload_quantity" binding:"gte=0"`
}

// SubmitReconciliationRequest closes an agent's business day.
// AgentID defaults to the caller; BusinessDate is YYYY-MM-DD.
type SubmitReconciliationRequest struct {
	AgentID       *uuid.UUID      `json:"agent_id"`
	BusinessDate  string          `json:"business_date" binding:"required,datetime=2006-01-02"`
	Items         []UnloadRequest `json:"items" binding:"dive"`
	CashCollected decimal.Decimal `json:"cash_collected" binding:"gte=0"`
	Notes         string          `json:"notes" binding:"max=2000"`
}

// DisputeReconciliationRequest carries the reason finance disputes a day
type DisputeReconciliationRequest struct {
	Notes string `json:"notes" binding:"required,min=1,max=2000"`
}

// ReconciliationListFilter represents filter options for reconciliation
// listings. AgentID is parsed by the transport.
type ReconciliationListFilter struct {
	AgentID  *uuid.UUID `form:"-"`
	Status   string     `form:"status" binding:"omitempty,oneof=pending submitted approved disputed"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ===================== Response DTOs =====================

// ReconciliationItemResponse is one product line of a reconciliation
type ReconciliationItemResponse struct {
	ProductID         uuid.UUID       `json:"product_id"`
	LoadedQuantity    decimal.Decimal `json:"loaded_quantity"`
	SoldQuantity      decimal.Decimal `json:"sold_quantity"`
	ReturnedQuantity  decimal.Decimal `json:"returned_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TotalValue        decimal.Decimal `json:"total_value"`
	RequestedUnload   decimal.Decimal `json:"requested_unload"`
	UnloadClamped     bool            `json:"unload_clamped"`
}

// ReconciliationResponse represents a reconciliation in API responses
type ReconciliationResponse struct {
	ID             uuid.UUID                    `json:"id"`
	AgentID        uuid.UUID                    `json:"agent_id"`
	BusinessDate   string                       `json:"business_date"`
	Status         string                       `json:"status"`
	TotalLoaded    decimal.Decimal              `json:"total_loaded"`
	TotalSold      decimal.Decimal              `json:"total_sold"`
	TotalReturned  decimal.Decimal              `json:"total_returned"`
	TotalRemaining decimal.Decimal              `json:"total_remaining"`
	CashCollected  decimal.Decimal              `json:"cash_collected"`
	ExpectedCash   decimal.Decimal              `json:"expected_cash"`
	Variance       decimal.Decimal              `json:"variance"`
	VarianceKind   string                       `json:"variance_kind"`
	SubmittedAt    *time.Time                   `json:"submitted_at,omitempty"`
	ApprovedAt     *time.Time                   `json:"approved_at,omitempty"`
	ApprovedBy     *uuid.UUID                   `json:"approved_by,omitempty"`
	DisputedAt     *time.Time                   `json:"disputed_at,omitempty"`
	DisputedBy     *uuid.UUID                   `json:"disputed_by,omitempty"`
	DisputeNotes   string                       `json:"dispute_notes,omitempty"`
	Notes          string                       `json:"notes,omitempty"`
	SupersedesID   *uuid.UUID                   `json:"supersedes_id,omitempty"`
	Items          []ReconciliationItemResponse `json:"items,omitempty"`
	CreatedAt      time.Time                    `json:"created_at"`
	UpdatedAt      time.Time                    `json:"updated_at"`
	Version        int                          `json:"version"`
}

// ReconciliationListResponse represents a reconciliation in list views
type ReconciliationListResponse struct {
	ID            uuid.UUID       `json:"id"`
	AgentID       uuid.UUID       `json:"agent_id"`
	BusinessDate  string          `json:"business_date"`
	Status        string          `json:"status"`
	ExpectedCash  decimal.Decimal `json:"expected_cash"`
	CashCollected decimal.Decimal `json:"cash_collected" binding:"gte=0"`
	Variance      decimal.Decimal `json:"variance"`
	SupersedesID  *uuid.UUID      `json:"supersedes_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ===================== Conversion Functions =====================

const dateLayout = "2006-01-02"

// ToReconciliationResponse converts a domain Reconciliation to its response DTO
func ToReconciliationResponse(r *settlement.Reconciliation) ReconciliationResponse {
	items := make([]ReconciliationItemResponse, len(r.Items))
	for i := range r.Items {
		item := &r.Items[i]
		items[i] = ReconciliationItemResponse{
			ProductID:         item.ProductID,
			LoadedQuantity:    item.LoadedQuantity,
			SoldQuantity:      item.SoldQuantity,
			ReturnedQuantity:  item.ReturnedQuantity,
			RemainingQuantity: item.RemainingQuantity,
			UnitPrice:         item.UnitPrice,
			TotalValue:        item.TotalValue,
			RequestedUnload:   item.RequestedUnload,
			UnloadClamped:     item.UnloadClamped,
		}
	}
	return ReconciliationResponse{
		ID:             r.ID,
		AgentID:        r.AgentID,
		BusinessDate:   r.BusinessDate.Format(dateLayout),
		Status:         r.Status.String(),
		TotalLoaded:    r.TotalLoaded,
		TotalSold:      r.TotalSold,
		TotalReturned:  r.TotalReturned,
		TotalRemaining: r.TotalRemaining,
		CashCollected:  r.CashCollected,
		ExpectedCash:   r.ExpectedCash,
		Variance:       r.Variance,
		VarianceKind:   string(r.VarianceKind()),
		SubmittedAt:    r.SubmittedAt,
		ApprovedAt:     r.ApprovedAt,
		ApprovedBy:     r.ApprovedBy,
		DisputedAt:     r.DisputedAt,
		DisputedBy:     r.DisputedBy,
		DisputeNotes:   r.DisputeNotes,
		Notes:          r.Notes,
		SupersedesID:   r.SupersedesID,
		Items:          items,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Version:        r.Version,
	}
}

// ToReconciliationListResponses converts domain reconciliations to list DTOs
func ToReconciliationListResponses(recs []settlement.Reconciliation) []ReconciliationListResponse {
	out := make([]ReconciliationListResponse, len(recs))
	for i := range recs {
		r := &recs[i]
		out[i] = ReconciliationListResponse{
			ID:            r.ID,
			AgentID:       r.AgentID,
			BusinessDate:  r.BusinessDate.Format(dateLayout),
			Status:        r.Status.String(),
			ExpectedCash:  r.ExpectedCash,
			CashCollected: r.CashCollected,
			Variance:      r.Variance,
			SupersedesID:  r.SupersedesID,
			CreatedAt:     r.CreatedAt,
		}
	}
	return out
}
