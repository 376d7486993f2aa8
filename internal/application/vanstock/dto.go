package vanstock

import (
	"time"

	"github.com/fieldsales/erp/internal/domain/vanstock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===================== Request DTOs =====================

// LineRequest is a product quantity in a load workflow request
type LineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"gte=0"`
}

// RequestLoadRequest represents a request to load stock into an agent's vehicle.
// AgentID defaults to the caller.
type RequestLoadRequest struct {
	AgentID *uuid.UUID    `json:"agent_id"`
	Items   []LineRequest `json:"items" binding:"required,min=1,dive"`
	Notes   string        `json:"notes" binding:"max=500"`
}

// ApproveLoadRequest carries approved quantities. Omitted products are
// approved as requested.
type ApproveLoadRequest struct {
	Items []LineRequest `json:"items" binding:"dive"`
}

// ReleaseLoadRequest carries released quantities. Omitted products are
// released as approved.
type ReleaseLoadRequest struct {
	Items []LineRequest `json:"items" binding:"dive"`
}

// RejectLoadRequest represents a request to reject a load
type RejectLoadRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// LoadListFilter represents filter options for load listings. AgentID is
// parsed by the transport since form binding does not decode UUIDs.
type LoadListFilter struct {
	AgentID  *uuid.UUID `form:"-"`
	Status   string     `form:"status" binding:"omitempty,oneof=requested approved released rejected"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func toLines(reqs []LineRequest) []vanstock.LineQuantity {
	lines := make([]vanstock.LineQuantity, len(reqs))
	for i, r := range reqs {
		lines[i] = vanstock.LineQuantity{ProductID: r.ProductID, Quantity: r.Quantity}
	}
	return lines
}

// ===================== Response DTOs =====================

// LoadItemResponse represents a load line in API responses
type LoadItemResponse struct {
	ID                uuid.UUID        `json:"id"`
	ProductID         uuid.UUID        `json:"product_id"`
	RequestedQuantity decimal.Decimal  `json:"requested_quantity"`
	ApprovedQuantity  *decimal.Decimal `json:"approved_quantity,omitempty"`
	ReleasedQuantity  *decimal.Decimal `json:"released_quantity,omitempty"`
	CarryOverQuantity decimal.Decimal  `json:"carry_over_quantity"`
}

// LoadResponse represents a stock load in API responses
type LoadResponse struct {
	ID              uuid.UUID          `json:"id"`
	AgentID         uuid.UUID          `json:"agent_id"`
	Status          string             `json:"status"`
	RequestedAt     time.Time          `json:"requested_at"`
	ApprovedAt      *time.Time         `json:"approved_at,omitempty"`
	ApprovedBy      *uuid.UUID         `json:"approved_by,omitempty"`
	ReleasedAt      *time.Time         `json:"released_at,omitempty"`
	ReleasedBy      *uuid.UUID         `json:"released_by,omitempty"`
	RejectedAt      *time.Time         `json:"rejected_at,omitempty"`
	RejectedBy      *uuid.UUID         `json:"rejected_by,omitempty"`
	RejectionReason string             `json:"rejection_reason,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	TotalRequested  decimal.Decimal    `json:"total_requested"`
	TotalLoaded     decimal.Decimal    `json:"total_loaded"`
	Items           []LoadItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Version         int                `json:"version"`
}

// LoadListResponse represents a stock load in list views (without items)
type LoadListResponse struct {
	ID             uuid.UUID       `json:"id"`
	AgentID        uuid.UUID       `json:"agent_id"`
	Status         string          `json:"status"`
	RequestedAt    time.Time       `json:"requested_at"`
	ReleasedAt     *time.Time      `json:"released_at,omitempty"`
	TotalRequested decimal.Decimal `json:"total_requested"`
	TotalLoaded    decimal.Decimal `json:"total_loaded"`
	ItemCount      int             `json:"item_count"`
}

// LedgerEntryResponse is one product position for one day
type LedgerEntryResponse struct {
	AgentID   uuid.UUID       `json:"agent_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Date      string          `json:"date"`
	Loaded    decimal.Decimal `json:"loaded"`
	Sold      decimal.Decimal `json:"sold"`
	Remaining decimal.Decimal `json:"remaining"`
}

// DayLedgerResponse lists every product an agent moved on a day
type DayLedgerResponse struct {
	AgentID uuid.UUID             `json:"agent_id"`
	Date    string                `json:"date"`
	Policy  string                `json:"policy"`
	Entries []LedgerEntryResponse `json:"entries"`
}

// CarryOverResponse is the advisory quantity an agent still holds
type CarryOverResponse struct {
	AgentID    uuid.UUID       `json:"agent_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	SourceDate *string         `json:"source_date,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// ===================== Conversion Functions =====================

// ToLoadResponse converts a domain StockLoad to its response DTO
func ToLoadResponse(l *vanstock.StockLoad) LoadResponse {
	items := make([]LoadItemResponse, len(l.Items))
	for i := range l.Items {
		item := &l.Items[i]
		items[i] = LoadItemResponse{
			ID:                item.ID,
			ProductID:         item.ProductID,
			RequestedQuantity: item.RequestedQuantity,
			ApprovedQuantity:  item.ApprovedQuantity,
			ReleasedQuantity:  item.ReleasedQuantity,
			CarryOverQuantity: item.CarryOverQuantity,
		}
	}
	return LoadResponse{
		ID:              l.ID,
		AgentID:         l.AgentID,
		Status:          l.Status.String(),
		RequestedAt:     l.RequestedAt,
		ApprovedAt:      l.ApprovedAt,
		ApprovedBy:      l.ApprovedBy,
		ReleasedAt:      l.ReleasedAt,
		ReleasedBy:      l.ReleasedBy,
		RejectedAt:      l.RejectedAt,
		RejectedBy:      l.RejectedBy,
		RejectionReason: l.RejectionReason,
		Notes:           l.Notes,
		TotalRequested:  l.TotalRequested(),
		TotalLoaded:     l.TotalLoaded(),
		Items:           items,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
		Version:         l.Version,
	}
}

// ToLoadListResponses converts domain loads to list DTOs
func ToLoadListResponses(loads []vanstock.StockLoad) []LoadListResponse {
	out := make([]LoadListResponse, len(loads))
	for i := range loads {
		l := &loads[i]
		out[i] = LoadListResponse{
			ID:             l.ID,
			AgentID:        l.AgentID,
			Status:         l.Status.String(),
			RequestedAt:    l.RequestedAt,
			ReleasedAt:     l.ReleasedAt,
			TotalRequested: l.TotalRequested(),
			TotalLoaded:    l.TotalLoaded(),
			ItemCount:      len(l.Items),
		}
	}
	return out
}

// ToLedgerEntryResponse converts a ledger entry to its response DTO
func ToLedgerEntryResponse(e vanstock.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		AgentID:   e.AgentID,
		ProductID: e.ProductID,
		Date:      e.Date.Format(dateLayout),
		Loaded:    e.Loaded,
		Sold:      e.Sold,
		Remaining: e.Remaining,
	}
}

// ToCarryOverResponse converts a carry-over to its response DTO
func ToCarryOverResponse(c vanstock.CarryOver) CarryOverResponse {
	resp := CarryOverResponse{
		AgentID:   c.AgentID,
		ProductID: c.ProductID,
		Quantity:  c.Quantity,
	}
	if c.SourceDate != nil {
		day := c.SourceDate.Format(dateLayout)
		resp.SourceDate = &day
	}
	return resp
}

const dateLayout = "2006-01-02"
